package booking

import (
	"time"

	"busline/internal/domain"
	"busline/internal/utils"
)

// AgeOn returns whole years between dob and today, one less when today is
// before the birthday in today's year.
func AgeOn(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

// AgeFromDOB parses a YYYY-MM-DD date of birth.
func AgeFromDOB(dob string, today time.Time) (int, error) {
	t, err := utils.ParseDate(dob)
	if err != nil {
		return 0, domain.ValidationError{Field: "date_of_birth", Msg: "expected YYYY-MM-DD", Err: err}
	}
	return AgeOn(t, today), nil
}
