// Package policy decides which cat fields may be written in a submission and
// checks user input before anything is sent to the agency.
//
// A cat that has not been created yet may set every field. Once the agency
// has assigned an id, salary is the only field that may change. The agency
// enforces the same rule; the checks here only spare the user a round trip.
package policy

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/go-playground/validator/v10"
)

type Field string

const (
	FieldName            Field = "name"
	FieldExperienceYears Field = "years_of_experience"
	FieldBreed           Field = "breed"
	FieldSalary          Field = "salary"

	// FieldGeneral holds form-level errors not tied to an input.
	FieldGeneral Field = "general"
)

// Fields lists the cat inputs in display order.
var Fields = []Field{FieldName, FieldExperienceYears, FieldBreed, FieldSalary}

func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldExperienceYears:
		return "Years of Experience"
	case FieldBreed:
		return "Breed"
	case FieldSalary:
		return "Salary"
	default:
		return "Form"
	}
}

// ParseField maps a wire or display name to a Field.
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "name":
		return FieldName, true
	case "years_of_experience", "yearsofexperience", "experience_years", "experienceyears":
		return FieldExperienceYears, true
	case "breed":
		return FieldBreed, true
	case "salary":
		return FieldSalary, true
	}
	return "", false
}

type FieldSet map[Field]struct{}

func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// Fields returns the members of the set in display order.
func (s FieldSet) Fields() []Field {
	var out []Field
	for _, f := range Fields {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// EditableFor returns the fields a submission may carry. It is the one place
// both input freezing and payload shaping read from.
func EditableFor(recordExists bool) FieldSet {
	if recordExists {
		return FieldSet{FieldSalary: {}}
	}
	return FieldSet{
		FieldName:            {},
		FieldExperienceYears: {},
		FieldBreed:           {},
		FieldSalary:          {},
	}
}

// Values is raw form input keyed by field.
type Values map[Field]string

// ValuesFromCat renders a persisted cat the way the form displays it.
func ValuesFromCat(cat models.Cat) Values {
	return Values{
		FieldName:            cat.Name,
		FieldExperienceYears: strconv.Itoa(cat.YearsOfExperience),
		FieldBreed:           cat.Breed,
		FieldSalary:          strconv.FormatFloat(cat.Salary, 'f', -1, 64),
	}
}

// Errors maps a field to the message shown next to it.
type Errors map[Field]string

func (e Errors) Empty() bool {
	return len(e) == 0
}

var validate = validator.New()

// Validate checks every editable field and ignores the rest. Breed
// membership is only checked once validBreeds has loaded (is non-empty).
func Validate(values Values, editable FieldSet, validBreeds []string) Errors {
	errs := Errors{}

	if editable.Has(FieldName) {
		if validate.Var(strings.TrimSpace(values[FieldName]), "required") != nil {
			errs[FieldName] = "Name is required"
		}
	}

	if editable.Has(FieldExperienceYears) {
		raw := strings.TrimSpace(values[FieldExperienceYears])
		if validate.Var(raw, "required") != nil {
			errs[FieldExperienceYears] = "Years of experience is required"
		} else if years, err := strconv.Atoi(raw); err != nil {
			errs[FieldExperienceYears] = "Years of experience must be a whole number"
		} else if validate.Var(years, "gte=0") != nil {
			errs[FieldExperienceYears] = "Years of experience must be non-negative"
		}
	}

	if editable.Has(FieldBreed) {
		breed := strings.TrimSpace(values[FieldBreed])
		if validate.Var(breed, "required") != nil {
			errs[FieldBreed] = "Breed is required"
		} else if len(validBreeds) > 0 && !slices.Contains(validBreeds, breed) {
			errs[FieldBreed] = "Breed must be one of the valid breeds"
		}
	}

	// salary is in every editable set
	raw := strings.TrimSpace(values[FieldSalary])
	if validate.Var(raw, "required") != nil {
		errs[FieldSalary] = "Salary is required"
	} else if salary, err := parseSalary(raw); err != nil {
		errs[FieldSalary] = "Salary must be a number"
	} else if validate.Var(salary, "gt=0") != nil {
		errs[FieldSalary] = "Salary must be positive"
	}

	return errs
}

func parseSalary(raw string) (float64, error) {
	salary, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(salary) || math.IsInf(salary, 0) {
		return 0, fmt.Errorf("salary is not finite: %s", raw)
	}
	return salary, nil
}

// Payload is what a submission sends: Create for a new cat, Update for a
// persisted one. Exactly one is set.
type Payload struct {
	Create *models.CatCreate
	Update *models.CatUpdate
}

// BuildPayload converts validated values into a request body restricted to
// the editable set.
func BuildPayload(values Values, editable FieldSet) (Payload, error) {
	salary, err := parseSalary(strings.TrimSpace(values[FieldSalary]))
	if err != nil {
		return Payload{}, fmt.Errorf("invalid salary: %w", err)
	}

	creating := editable.Has(FieldName) && editable.Has(FieldExperienceYears) && editable.Has(FieldBreed)
	if !creating {
		return Payload{Update: &models.CatUpdate{Salary: salary}}, nil
	}

	years, err := strconv.Atoi(strings.TrimSpace(values[FieldExperienceYears]))
	if err != nil {
		return Payload{}, fmt.Errorf("invalid years of experience: %w", err)
	}
	return Payload{Create: &models.CatCreate{
		Name:              strings.TrimSpace(values[FieldName]),
		YearsOfExperience: years,
		Breed:             strings.TrimSpace(values[FieldBreed]),
		Salary:            salary,
	}}, nil
}
