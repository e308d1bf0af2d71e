package model

import (
	"time"
)

// Provider represents a doctor listed in the discovery catalog
type Provider struct {
	ID             string    `json:"id" yaml:"id"`
	FirstName      string    `json:"first_name" yaml:"first_name"`
	LastName       string    `json:"last_name" yaml:"last_name"`
	Email          string    `json:"email" yaml:"email"`
	Specialization string    `json:"specialization" yaml:"specialization"`
	Bio            string    `json:"bio,omitempty" yaml:"bio"`
	Location       string    `json:"location" yaml:"location"`
	Rate           Rate      `json:"rate" yaml:"rate"`
	Approved       bool      `json:"approved" yaml:"approved"`
	CreatedAt      time.Time `json:"created_at,omitempty" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at,omitempty" yaml:"updated_at"`
}

// FullName returns "First Last" as shown on provider cards
func (p Provider) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Specialization constants
const (
	SpecCardiologist      = "Cardiologist"
	SpecDermatologist     = "Dermatologist"
	SpecPediatrician      = "Pediatrician"
	SpecOrthopedicSurgeon = "Orthopedic Surgeon"
	SpecPsychiatrist      = "Psychiatrist"
	SpecNeurologist       = "Neurologist"
	SpecGeneralPractice   = "General Practice"
	SpecGynecologist      = "Gynecologist"
	SpecOphthalmologist   = "Ophthalmologist"
	SpecENTSpecialist     = "ENT Specialist"
)

// Specializations is the fixed set offered in search filters and forms
var Specializations = []string{
	SpecCardiologist,
	SpecDermatologist,
	SpecPediatrician,
	SpecOrthopedicSurgeon,
	SpecPsychiatrist,
	SpecNeurologist,
	SpecGeneralPractice,
	SpecGynecologist,
	SpecOphthalmologist,
	SpecENTSpecialist,
}

// IsSpecialization reports whether s is one of Specializations
func IsSpecialization(s string) bool {
	for _, v := range Specializations {
		if v == s {
			return true
		}
	}
	return false
}
