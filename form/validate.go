package form

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/AnTengye/mediconnect/model"
)

const (
	tokenLength       = 6
	minPasswordLength = 8
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	tokenPattern = regexp.MustCompile(`^\d{6}$`)
)

// Validator computes field errors for a form's current values
type Validator func(values Values, role model.Role) Errors

// ValidatorFor returns the rule set of kind
func ValidatorFor(kind Kind) Validator {
	switch kind {
	case KindRegistration:
		return func(values Values, _ model.Role) Errors { return ValidateRegistration(values) }
	case KindActivation:
		return func(values Values, _ model.Role) Errors { return ValidateActivation(values) }
	default:
		return Validate
	}
}

// Validate applies the profile settings rules. Doctor forms additionally
// require specialization and license and check numeric fields.
func Validate(values Values, role model.Role) Errors {
	errs := Errors{}

	requireText(errs, values, FieldFirstName, "First name is required")
	requireText(errs, values, FieldLastName, "Last name is required")
	checkEmail(errs, values)
	requireText(errs, values, FieldDateOfBirth, "Date of birth is required")

	if v := values[FieldPhone]; v != "" && !phonePattern.MatchString(v) {
		errs[FieldPhone] = "Please enter a valid phone number"
	}
	if v := values[FieldEmergencyPhone]; v != "" && !phonePattern.MatchString(v) {
		errs[FieldEmergencyPhone] = "Please enter a valid emergency phone number"
	}

	if role == model.RoleDoctor {
		requireText(errs, values, FieldSpecialization, "Specialization is required")
		requireText(errs, values, FieldMedicalLicense, "Medical license is required")
		checkNonNegative(errs, values, FieldConsultationRate, "Please enter a valid consultation rate")
		checkNonNegative(errs, values, FieldYearsOfExperience, "Please enter valid years of experience")
	}

	return errs
}

// ValidateRegistration applies the sign-up rules. The role is read from the
// form itself since it is one of the fields being filled in.
func ValidateRegistration(values Values) Errors {
	errs := Errors{}

	requireText(errs, values, FieldFirstName, "First name is required")
	requireText(errs, values, FieldLastName, "Last name is required")
	checkEmail(errs, values)

	switch password := values[FieldPassword]; {
	case password == "":
		errs[FieldPassword] = "Password is required"
	case len([]rune(password)) < minPasswordLength:
		errs[FieldPassword] = "Password must be at least 8 characters"
	}

	role, ok := model.ParseRole(values[FieldRole])
	if !ok {
		errs[FieldRole] = "Role is required"
	}

	switch role {
	case model.RoleDoctor:
		requireText(errs, values, FieldSpecialization, "Specialization is required")
		requireText(errs, values, FieldBio, "Bio is required")
		requireText(errs, values, FieldLocation, "Location is required")
		checkNonNegative(errs, values, FieldRate, "Rate must be a number")
	case model.RolePatient:
		requireText(errs, values, FieldDateOfBirth, "Date of birth is required")
	}

	return errs
}

// ValidateActivation requires a six digit activation code
func ValidateActivation(values Values) Errors {
	errs := Errors{}
	token := values[FieldToken]
	switch {
	case strings.TrimSpace(token) == "":
		errs[FieldToken] = "Activation code is required"
	case !tokenPattern.MatchString(token):
		errs[FieldToken] = "Code must be exactly 6 digits"
	}
	return errs
}

func requireText(errs Errors, values Values, field, msg string) {
	if strings.TrimSpace(values[field]) == "" {
		errs[field] = msg
	}
}

func checkEmail(errs Errors, values Values) {
	email := values[FieldEmail]
	switch {
	case strings.TrimSpace(email) == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = "Email is invalid"
	}
}

// checkNonNegative allows an empty value; required-ness is checked separately.
func checkNonNegative(errs Errors, values Values, field, msg string) {
	v := strings.TrimSpace(values[field])
	if v == "" {
		return
	}
	if _, ok := parseNonNegative(v); !ok {
		errs[field] = msg
	}
}

func parseNonNegative(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
