package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"

	"github.com/go-playground/validator/v10"
)

type PassengerField string

const (
	FieldName     PassengerField = "name"
	FieldAge      PassengerField = "age"
	FieldGender   PassengerField = "gender"
	FieldIDType   PassengerField = "id_type"
	FieldIDNumber PassengerField = "id_number"
)

// DefaultIDType is preselected on every passenger slot.
const DefaultIDType = "aadhar"

var IDTypes = []string{"aadhar", "passport", "driving_license", "voter_id"}

var validate = validator.New()

// rules apply to non-empty values; clearing a field is always allowed.
var fieldRules = map[PassengerField]string{
	FieldName:     "max=255",
	FieldAge:      "numeric,max=3",
	FieldGender:   "oneof=male female other",
	FieldIDType:   "oneof=" + strings.Join(IDTypes, " "),
	FieldIDNumber: "printascii,max=64",
}

func ParsePassengerField(s string) (PassengerField, error) {
	f := PassengerField(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fieldRules[f]; !ok {
		return "", domain.ValidationError{Field: "field", Msg: fmt.Sprintf("unknown passenger field %q", s)}
	}
	return f, nil
}

// PrefillPassengers builds one record per seat. The first slot takes name,
// age and gender from the profile when there is one; the rest start blank.
func PrefillPassengers(seats []string, profile *models.Profile, today time.Time) []models.PassengerRecord {
	out := make([]models.PassengerRecord, len(seats))
	for i, seat := range seats {
		out[i] = models.PassengerRecord{SeatID: seat, IDType: DefaultIDType}
	}
	if len(out) == 0 || profile == nil {
		return out
	}
	out[0].Name = strings.TrimSpace(profile.FullName)
	out[0].Gender = strings.TrimSpace(profile.Gender)
	if profile.DateOfBirth != "" {
		if age, err := AgeFromDOB(profile.DateOfBirth, today); err == nil && age >= 0 {
			out[0].Age = strconv.Itoa(age)
		}
	}
	return out
}

// EditPassengerField returns a copy of records with one field of one record
// replaced.
func EditPassengerField(records []models.PassengerRecord, index int, field PassengerField, value string) ([]models.PassengerRecord, error) {
	if index < 0 || index >= len(records) {
		return nil, domain.ValidationError{Field: "index", Msg: fmt.Sprintf("no passenger at index %d", index)}
	}
	value = strings.TrimSpace(value)
	if err := validateField(field, value); err != nil {
		return nil, err
	}

	out := append([]models.PassengerRecord{}, records...)
	r := out[index]
	switch field {
	case FieldName:
		r.Name = value
	case FieldAge:
		r.Age = value
	case FieldGender:
		r.Gender = value
	case FieldIDType:
		r.IDType = value
	case FieldIDNumber:
		r.IDNumber = value
	}
	out[index] = r
	return out, nil
}

func validateField(field PassengerField, value string) error {
	rule, ok := fieldRules[field]
	if !ok {
		return domain.ValidationError{Field: "field", Msg: fmt.Sprintf("unknown passenger field %q", field)}
	}
	if value == "" {
		return nil
	}
	if err := validate.Var(value, rule); err != nil {
		return domain.ValidationError{Field: string(field), Msg: "invalid value", Err: err}
	}
	if field == FieldAge {
		if n, _ := strconv.Atoi(value); n < 1 || n > 120 {
			return domain.ValidationError{Field: string(field), Msg: "must be between 1 and 120"}
		}
	}
	return nil
}

// ValidatePassengers checks every non-empty field of every record.
func ValidatePassengers(records []models.PassengerRecord) error {
	for i, r := range records {
		fields := []struct {
			f PassengerField
			v string
		}{
			{FieldName, r.Name}, {FieldAge, r.Age}, {FieldGender, r.Gender}, {FieldIDType, r.IDType}, {FieldIDNumber, r.IDNumber},
		}
		for _, fv := range fields {
			err := validateField(fv.f, strings.TrimSpace(fv.v))
			if err == nil {
				continue
			}
			var ve domain.ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("passengers[%d].%s", i, fv.f)
				return ve
			}
			return err
		}
	}
	return nil
}

// PassengersComplete is true iff there is one record per seat and every
// record has all five fields.
func PassengersComplete(seats []string, records []models.PassengerRecord) bool {
	if len(records) != len(seats) {
		return false
	}
	for _, r := range records {
		if !r.Complete() {
			return false
		}
	}
	return true
}
