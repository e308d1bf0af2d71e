package discovery

import (
	"strings"

	"github.com/AnTengye/mediconnect/model"
)

// AppointmentPageSize matches the appointment list views
const AppointmentPageSize = 5

// AppointmentCriteria filters an appointment list. Zero values match all.
type AppointmentCriteria struct {
	Status string `json:"status"`
	Date   string `json:"date"`
	Search string `json:"search"`
}

// FilterAppointments returns the appointments matching every criterion
func FilterAppointments(appts []model.Appointment, c AppointmentCriteria) []model.Appointment {
	search := strings.ToLower(c.Search)

	result := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if c.Status != "" && a.Status != c.Status {
			continue
		}
		if c.Date != "" && a.Date != c.Date {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.DoctorName), search) &&
			!strings.Contains(strings.ToLower(a.DoctorSpecialty), search) &&
			!strings.Contains(strings.ToLower(a.PatientName), search) &&
			!strings.Contains(strings.ToLower(a.Reason), search) {
			continue
		}
		result = append(result, a)
	}
	return result
}
