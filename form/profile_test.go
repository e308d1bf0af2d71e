package form

import (
	"encoding/json"
	"testing"

	"github.com/AnTengye/mediconnect/model"
	"github.com/google/go-cmp/cmp"
)

func TestProfileFromValues(t *testing.T) {
	p, err := ProfileFromValues(model.RoleDoctor, validDoctorSettings())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	doc, ok := p.(DoctorProfile)
	if !ok {
		t.Fatalf("Expected DoctorProfile, got %T", p)
	}
	if doc.YearsOfExperience != 15 {
		t.Errorf("Expected 15 years, got %v", doc.YearsOfExperience)
	}
	if !doc.ConsultationRate.Valid() || doc.ConsultationRate.Amount() != 200 {
		t.Errorf("Expected rate 200, got %v", doc.ConsultationRate)
	}
	if doc.Role() != model.RoleDoctor {
		t.Errorf("Expected doctor role, got %s", doc.Role())
	}

	p, err = ProfileFromValues(model.RolePatient, validPatientSettings())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := p.(PatientProfile); !ok {
		t.Fatalf("Expected PatientProfile, got %T", p)
	}

	if _, err := ProfileFromValues("nurse", Values{}); err == nil {
		t.Error("Expected error for unknown role")
	}
}

func TestPatientProfileRoundTrip(t *testing.T) {
	in := validPatientSettings()
	in[FieldAllergies] = "Penicillin"

	p, err := ProfileFromValues(model.RolePatient, in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := Values{}
	for _, f := range Fields(KindSettings, model.RolePatient) {
		want[f] = in[f]
	}
	if diff := cmp.Diff(want, p.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistrationFromValues(t *testing.T) {
	r, err := RegistrationFromValues(Values{
		FieldFirstName:      "Robert",
		FieldLastName:       "Kim",
		FieldEmail:          "robert.kim@neuro.com",
		FieldPassword:       "password1",
		FieldRole:           "doctor",
		FieldSpecialization: model.SpecNeurologist,
		FieldRate:           "",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	doc, ok := r.(DoctorRegistration)
	if !ok {
		t.Fatalf("Expected DoctorRegistration, got %T", r)
	}
	if doc.Role != "DOCTOR" || doc.Rate != 0 {
		t.Errorf("Unexpected registration %+v", doc)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if decoded["firstName"] != "Robert" || decoded["role"] != "DOCTOR" {
		t.Errorf("Unexpected wire payload %s", data)
	}

	r, err = RegistrationFromValues(Values{FieldRole: "PATIENT", FieldDateOfBirth: "1990-01-01"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r.Variant() != model.RolePatient {
		t.Errorf("Expected patient variant, got %s", r.Variant())
	}

	if _, err := RegistrationFromValues(Values{}); err == nil {
		t.Error("Expected error without role")
	}
}

func TestFieldsAndKinds(t *testing.T) {
	if k, ok := ParseKind("Registration"); !ok || k != KindRegistration {
		t.Errorf("Expected registration kind, got %q %v", k, ok)
	}
	if _, ok := ParseKind("survey"); ok {
		t.Error("Expected unknown kind to be rejected")
	}
	if diff := cmp.Diff([]string{FieldToken}, Fields(KindActivation, "")); diff != "" {
		t.Errorf("activation fields mismatch (-want +got):\n%s", diff)
	}
	if got := len(Fields(KindSettings, model.RoleDoctor)); got != 18 {
		t.Errorf("Expected 18 doctor settings fields, got %d", got)
	}
}
