package model

import "strings"

// Role distinguishes the two account variants
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ParseRole accepts either case ("DOCTOR" from registration, "doctor" from settings)
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleDoctor:
		return RoleDoctor, true
	case RolePatient:
		return RolePatient, true
	}
	return "", false
}

// Upper returns the enum form used by the account API ("DOCTOR", "PATIENT")
func (r Role) Upper() string {
	return strings.ToUpper(string(r))
}
