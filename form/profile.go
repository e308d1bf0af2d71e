package form

import (
	"fmt"
	"strconv"

	"github.com/AnTengye/mediconnect/model"
)

// Profile is the typed settings payload. It is implemented only by
// DoctorProfile and PatientProfile.
type Profile interface {
	Role() model.Role
	Values() Values
	profile()
}

// Contact holds the fields shared by both settings variants
type Contact struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	DateOfBirth      string `json:"dateOfBirth"`
	Phone            string `json:"phone,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	EmergencyPhone   string `json:"emergencyPhone,omitempty"`
}

type DoctorProfile struct {
	Contact
	Specialization      string     `json:"specialization"`
	MedicalLicense      string     `json:"medicalLicense"`
	YearsOfExperience   float64    `json:"yearsOfExperience"`
	Education           string     `json:"education,omitempty"`
	Certifications      string     `json:"certifications,omitempty"`
	LanguagesSpoken     string     `json:"languagesSpoken,omitempty"`
	Bio                 string     `json:"bio,omitempty"`
	ConsultationRate    model.Rate `json:"consultationRate"`
	AvailableHours      string     `json:"availableHours,omitempty"`
	HospitalAffiliation string     `json:"hospitalAffiliation,omitempty"`
}

type PatientProfile struct {
	Contact
	MedicalHistory     string `json:"medicalHistory,omitempty"`
	Allergies          string `json:"allergies,omitempty"`
	CurrentMedications string `json:"currentMedications,omitempty"`
}

func (DoctorProfile) Role() model.Role  { return model.RoleDoctor }
func (PatientProfile) Role() model.Role { return model.RolePatient }

func (DoctorProfile) profile()  {}
func (PatientProfile) profile() {}

func (p DoctorProfile) Values() Values {
	v := p.Contact.values()
	v[FieldSpecialization] = p.Specialization
	v[FieldMedicalLicense] = p.MedicalLicense
	v[FieldYearsOfExperience] = formatNumber(p.YearsOfExperience)
	v[FieldEducation] = p.Education
	v[FieldCertifications] = p.Certifications
	v[FieldLanguagesSpoken] = p.LanguagesSpoken
	v[FieldBio] = p.Bio
	v[FieldConsultationRate] = p.ConsultationRate.String()
	v[FieldAvailableHours] = p.AvailableHours
	v[FieldHospitalAffiliation] = p.HospitalAffiliation
	return v
}

func (p PatientProfile) Values() Values {
	v := p.Contact.values()
	v[FieldMedicalHistory] = p.MedicalHistory
	v[FieldAllergies] = p.Allergies
	v[FieldCurrentMedications] = p.CurrentMedications
	return v
}

func (c Contact) values() Values {
	return Values{
		FieldFirstName:        c.FirstName,
		FieldLastName:         c.LastName,
		FieldEmail:            c.Email,
		FieldDateOfBirth:      c.DateOfBirth,
		FieldPhone:            c.Phone,
		FieldAddress:          c.Address,
		FieldEmergencyContact: c.EmergencyContact,
		FieldEmergencyPhone:   c.EmergencyPhone,
	}
}

func contactFrom(v Values) Contact {
	return Contact{
		FirstName:        v[FieldFirstName],
		LastName:         v[FieldLastName],
		Email:            v[FieldEmail],
		DateOfBirth:      v[FieldDateOfBirth],
		Phone:            v[FieldPhone],
		Address:          v[FieldAddress],
		EmergencyContact: v[FieldEmergencyContact],
		EmergencyPhone:   v[FieldEmergencyPhone],
	}
}

// ProfileFromValues decodes validated settings values into the variant for role.
func ProfileFromValues(role model.Role, v Values) (Profile, error) {
	switch role {
	case model.RoleDoctor:
		years, _ := parseNonNegative(v[FieldYearsOfExperience])
		return DoctorProfile{
			Contact:             contactFrom(v),
			Specialization:      v[FieldSpecialization],
			MedicalLicense:      v[FieldMedicalLicense],
			YearsOfExperience:   years,
			Education:           v[FieldEducation],
			Certifications:      v[FieldCertifications],
			LanguagesSpoken:     v[FieldLanguagesSpoken],
			Bio:                 v[FieldBio],
			ConsultationRate:    model.ParseRate(v[FieldConsultationRate]),
			AvailableHours:      v[FieldAvailableHours],
			HospitalAffiliation: v[FieldHospitalAffiliation],
		}, nil
	case model.RolePatient:
		return PatientProfile{
			Contact:            contactFrom(v),
			MedicalHistory:     v[FieldMedicalHistory],
			Allergies:          v[FieldAllergies],
			CurrentMedications: v[FieldCurrentMedications],
		}, nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}

// Account holds the fields shared by both registration variants
type Account struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type DoctorRegistration struct {
	Account
	Specialization string  `json:"specialization"`
	Bio            string  `json:"bio"`
	Location       string  `json:"location"`
	Rate           float64 `json:"rate"`
}

type PatientRegistration struct {
	Account
	DateOfBirth string `json:"dateOfBirth"`
}

// Registration is implemented by DoctorRegistration and PatientRegistration
type Registration interface {
	Variant() model.Role
	registration()
}

func (DoctorRegistration) Variant() model.Role  { return model.RoleDoctor }
func (PatientRegistration) Variant() model.Role { return model.RolePatient }

func (DoctorRegistration) registration()  {}
func (PatientRegistration) registration() {}

// RegistrationFromValues decodes validated sign-up values. A missing or
// unparseable rate is sent as 0.
func RegistrationFromValues(v Values) (Registration, error) {
	role, ok := model.ParseRole(v[FieldRole])
	if !ok {
		return nil, fmt.Errorf("unknown role %q", v[FieldRole])
	}
	account := Account{
		FirstName: v[FieldFirstName],
		LastName:  v[FieldLastName],
		Email:     v[FieldEmail],
		Password:  v[FieldPassword],
		Role:      role.Upper(),
	}
	if role == model.RoleDoctor {
		rate, _ := parseNonNegative(v[FieldRate])
		return DoctorRegistration{
			Account:        account,
			Specialization: v[FieldSpecialization],
			Bio:            v[FieldBio],
			Location:       v[FieldLocation],
			Rate:           rate,
		}, nil
	}
	return PatientRegistration{
		Account:     account,
		DateOfBirth: v[FieldDateOfBirth],
	}, nil
}

func formatNumber(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
