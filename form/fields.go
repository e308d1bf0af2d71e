// Package form holds the in-progress state of MediConnect forms
// (settings, registration, account activation) and drives their
// validate-then-submit lifecycle.
package form

import (
	"strings"

	"github.com/AnTengye/mediconnect/model"
)

// Field names as sent by the front end
const (
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldEmail            = "email"
	FieldDateOfBirth      = "dateOfBirth"
	FieldPhone            = "phone"
	FieldAddress          = "address"
	FieldEmergencyContact = "emergencyContact"
	FieldEmergencyPhone   = "emergencyPhone"

	FieldSpecialization      = "specialization"
	FieldMedicalLicense      = "medicalLicense"
	FieldYearsOfExperience   = "yearsOfExperience"
	FieldEducation           = "education"
	FieldCertifications      = "certifications"
	FieldLanguagesSpoken     = "languagesSpoken"
	FieldBio                 = "bio"
	FieldConsultationRate    = "consultationRate"
	FieldAvailableHours      = "availableHours"
	FieldHospitalAffiliation = "hospitalAffiliation"

	FieldMedicalHistory     = "medicalHistory"
	FieldAllergies          = "allergies"
	FieldCurrentMedications = "currentMedications"

	FieldPassword = "password"
	FieldRole     = "role"
	FieldLocation = "location"
	FieldRate     = "rate"

	FieldToken = "token"
)

var (
	contactFields = []string{
		FieldFirstName, FieldLastName, FieldEmail, FieldDateOfBirth,
		FieldPhone, FieldAddress, FieldEmergencyContact, FieldEmergencyPhone,
	}
	doctorSettingsFields = []string{
		FieldSpecialization, FieldMedicalLicense, FieldYearsOfExperience, FieldEducation,
		FieldCertifications, FieldLanguagesSpoken, FieldBio, FieldConsultationRate,
		FieldAvailableHours, FieldHospitalAffiliation,
	}
	patientSettingsFields = []string{
		FieldMedicalHistory, FieldAllergies, FieldCurrentMedications,
	}
	accountFields = []string{
		FieldFirstName, FieldLastName, FieldEmail, FieldPassword, FieldRole,
	}
)

// Kind identifies which form an engine holds
type Kind string

const (
	KindSettings     Kind = "settings"
	KindRegistration Kind = "registration"
	KindActivation   Kind = "activation"
)

// ParseKind validates a kind received over the wire
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSettings, KindRegistration, KindActivation:
		return k, true
	}
	return "", false
}

// Fields lists the fields a form of kind holds for role, in display order.
func Fields(kind Kind, role model.Role) []string {
	var fields []string
	switch kind {
	case KindSettings:
		fields = append(fields, contactFields...)
		switch role {
		case model.RoleDoctor:
			fields = append(fields, doctorSettingsFields...)
		case model.RolePatient:
			fields = append(fields, patientSettingsFields...)
		}
	case KindRegistration:
		fields = append(fields, accountFields...)
		switch role {
		case model.RoleDoctor:
			fields = append(fields, FieldSpecialization, FieldBio, FieldLocation, FieldRate)
		case model.RolePatient:
			fields = append(fields, FieldDateOfBirth)
		}
	case KindActivation:
		fields = append(fields, FieldToken)
	}
	return fields
}

// NormalizeToken keeps only digits and truncates to the six-digit code length
func NormalizeToken(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == tokenLength {
				break
			}
		}
	}
	return b.String()
}
