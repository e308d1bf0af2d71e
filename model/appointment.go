package model

// Appointment represents a booked consultation
type Appointment struct {
	ID              string `json:"id" yaml:"id"`
	DoctorID        string `json:"doctor_id" yaml:"doctor_id"`
	DoctorName      string `json:"doctor_name" yaml:"doctor_name"`
	DoctorSpecialty string `json:"doctor_specialty" yaml:"doctor_specialty"`
	PatientName     string `json:"patient_name" yaml:"patient_name"`
	Date            string `json:"date" yaml:"date"` // YYYY-MM-DD
	Time            string `json:"time" yaml:"time"` // e.g. "10:00 AM"
	Status          string `json:"status" yaml:"status"`
	Type            string `json:"type" yaml:"type"`
	Duration        string `json:"duration,omitempty" yaml:"duration"`
	Reason          string `json:"reason,omitempty" yaml:"reason"`
}

// AppointmentStatus constants
const (
	AppointmentPending     = "PENDING"
	AppointmentAccepted    = "ACCEPTED"
	AppointmentConfirmed   = "CONFIRMED"
	AppointmentDeclined    = "DECLINED"
	AppointmentCompleted   = "COMPLETED"
	AppointmentCancelled   = "CANCELLED"
	AppointmentRescheduled = "RESCHEDULED"
)

// AppointmentType constants
const (
	AppointmentInPerson  = "IN_PERSON"
	AppointmentVideoCall = "VIDEO_CALL"
	AppointmentPhoneCall = "PHONE_CALL"
)
