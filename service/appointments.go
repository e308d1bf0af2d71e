package service

import (
	"slices"

	"github.com/AnTengye/mediconnect/model"
)

// AppointmentBook is a read-only list of appointments shown on the dashboards
type AppointmentBook struct {
	appointments []model.Appointment
}

func NewAppointmentBook(appts []model.Appointment) *AppointmentBook {
	return &AppointmentBook{appointments: slices.Clone(appts)}
}

// All returns the appointments in booking order
func (b *AppointmentBook) All() []model.Appointment {
	return slices.Clone(b.appointments)
}

func (b *AppointmentBook) Get(id string) (model.Appointment, bool) {
	for _, a := range b.appointments {
		if a.ID == id {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// DemoAppointments returns the sample bookings used until a scheduling
// backend exists
func DemoAppointments() []model.Appointment {
	return []model.Appointment{
		{
			ID:              "1",
			DoctorID:        "1",
			DoctorName:      "Dr. Sarah Johnson",
			DoctorSpecialty: model.SpecCardiologist,
			PatientName:     "John Doe",
			Date:            "2025-08-12",
			Time:            "10:00 AM",
			Status:          model.AppointmentPending,
			Type:            model.AppointmentInPerson,
			Duration:        "30 minutes",
			Reason:          "Routine Checkup",
		},
		{
			ID:              "2",
			DoctorID:        "1",
			DoctorName:      "Dr. Sarah Johnson",
			DoctorSpecialty: model.SpecCardiologist,
			PatientName:     "Jane Smith",
			Date:            "2025-08-12",
			Time:            "2:00 PM",
			Status:          model.AppointmentAccepted,
			Type:            model.AppointmentVideoCall,
			Duration:        "30 minutes",
			Reason:          "Follow-up on blood pressure",
		},
		{
			ID:              "3",
			DoctorID:        "6",
			DoctorName:      "Dr. Robert Kim",
			DoctorSpecialty: model.SpecNeurologist,
			PatientName:     "Michael Johnson",
			Date:            "2025-08-13",
			Time:            "9:30 AM",
			Status:          model.AppointmentCompleted,
			Type:            model.AppointmentInPerson,
			Duration:        "45 minutes",
			Reason:          "Recurring headaches",
		},
		{
			ID:              "4",
			DoctorID:        "2",
			DoctorName:      "Dr. Michael Chen",
			DoctorSpecialty: model.SpecDermatologist,
			PatientName:     "Alex Thompson",
			Date:            "2025-08-15",
			Time:            "10:00 AM",
			Status:          model.AppointmentConfirmed,
			Type:            model.AppointmentInPerson,
			Duration:        "30 minutes",
			Reason:          "Skin cancer screening",
		},
		{
			ID:              "5",
			DoctorID:        "3",
			DoctorName:      "Dr. Emily Rodriguez",
			DoctorSpecialty: model.SpecPediatrician,
			PatientName:     "Alex Thompson",
			Date:            "2025-08-20",
			Time:            "2:30 PM",
			Status:          model.AppointmentPending,
			Type:            model.AppointmentPhoneCall,
			Duration:        "20 minutes",
			Reason:          "Vaccination schedule",
		},
		{
			ID:              "6",
			DoctorID:        "5",
			DoctorName:      "Dr. Lisa Anderson",
			DoctorSpecialty: model.SpecPsychiatrist,
			PatientName:     "Alex Thompson",
			Date:            "2025-08-25",
			Time:            "11:15 AM",
			Status:          model.AppointmentCancelled,
			Type:            model.AppointmentVideoCall,
			Duration:        "50 minutes",
			Reason:          "Anxiety consultation",
		},
	}
}
