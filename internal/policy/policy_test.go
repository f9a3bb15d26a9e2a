package policy

import (
	"testing"

	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() Values {
	return Values{
		FieldName:            "Whiskers",
		FieldExperienceYears: "3",
		FieldBreed:           "Tabby",
		FieldSalary:          "50000",
	}
}

func TestEditableFor(t *testing.T) {
	assert.Equal(t, []Field{FieldName, FieldExperienceYears, FieldBreed, FieldSalary}, EditableFor(false).Fields())
	assert.Equal(t, []Field{FieldSalary}, EditableFor(true).Fields())
	assert.False(t, EditableFor(true).Has(FieldBreed))
}

func TestValidate(t *testing.T) {
	breeds := []string{"Tabby", "Siamese"}

	tests := []struct {
		name     string
		change   func(Values)
		editable FieldSet
		breeds   []string
		want     Errors
	}{
		{
			name:     "valid new cat",
			change:   func(Values) {},
			editable: EditableFor(false),
			breeds:   breeds,
			want:     Errors{},
		},
		{
			name:     "blank name after trimming",
			change:   func(v Values) { v[FieldName] = "   " },
			editable: EditableFor(false),
			breeds:   breeds,
			want:     Errors{FieldName: "Name is required"},
		},
		{
			name:     "missing experience",
			change:   func(v Values) { v[FieldExperienceYears] = "" },
			editable: EditableFor(false),
			breeds:   breeds,
			want:     Errors{FieldExperienceYears: "Years of experience is required"},
		},
		{
			name:     "negative experience",
			change:   func(v Values) { v[FieldExperienceYears] = "-1" },
			editable: EditableFor(false),
			breeds:   breeds,
			want:     Errors{FieldExperienceYears: "Years of experience must be non-negative"},
		},
		{
			name:     "fractional experience",
			change:   func(v Values) { v[FieldExperienceYears] = "2.5" },
			editable: EditableFor(false),
			breeds:   breeds,
			want:     Errors{FieldExperienceYears: "Years of experience must be a whole number"},
		},
		{
			name:     "zero experience is allowed",
			change:   func(v Values) { v[FieldExperienceYears] = "0" },
			editable: EditableFor(false),
			breeds:   breeds,
			want:     Errors{},
		},
		{
			name:     "breed outside enumeration",
			change:   func(v Values) { v[FieldBreed] = "Unicorn" },
			editable: EditableFor(false),
			breeds:   breeds,
			want:     Errors{FieldBreed: "Breed must be one of the valid breeds"},
		},
		{
			name:     "breed membership skipped while breeds not loaded",
			change:   func(v Values) { v[FieldBreed] = "Unicorn" },
			editable: EditableFor(false),
			breeds:   nil,
			want:     Errors{},
		},
		{
			name:     "missing breed",
			change:   func(v Values) { v[FieldBreed] = "" },
			editable: EditableFor(false),
			breeds:   nil,
			want:     Errors{FieldBreed: "Breed is required"},
		},
		{
			name:     "zero salary",
			change:   func(v Values) { v[FieldSalary] = "0" },
			editable: EditableFor(false),
			breeds:   breeds,
			want:     Errors{FieldSalary: "Salary must be positive"},
		},
		{
			name:     "salary not a number",
			change:   func(v Values) { v[FieldSalary] = "lots" },
			editable: EditableFor(true),
			breeds:   breeds,
			want:     Errors{FieldSalary: "Salary must be a number"},
		},
		{
			name: "frozen fields are never validated",
			change: func(v Values) {
				v[FieldName] = ""
				v[FieldExperienceYears] = "-4"
				v[FieldBreed] = "Unicorn"
			},
			editable: EditableFor(true),
			breeds:   breeds,
			want:     Errors{},
		},
		{
			name:     "salary is checked when editing",
			change:   func(v Values) { v[FieldSalary] = "" },
			editable: EditableFor(true),
			breeds:   breeds,
			want:     Errors{FieldSalary: "Salary is required"},
		},
		{
			name:     "decimal salary",
			change:   func(v Values) { v[FieldSalary] = "1234.56" },
			editable: EditableFor(true),
			breeds:   breeds,
			want:     Errors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validValues()
			tt.change(values)
			got := Validate(values, tt.editable, tt.breeds)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) == 0, got.Empty())
		})
	}
}

func TestBuildPayload(t *testing.T) {
	t.Run("new cat carries all four fields", func(t *testing.T) {
		values := validValues()
		values[FieldName] = "  Whiskers "
		payload, err := BuildPayload(values, EditableFor(false))
		require.NoError(t, err)
		assert.Nil(t, payload.Update)
		assert.Equal(t, &models.CatCreate{
			Name:              "Whiskers",
			YearsOfExperience: 3,
			Breed:             "Tabby",
			Salary:            50000,
		}, payload.Create)
	})

	t.Run("persisted cat carries salary only", func(t *testing.T) {
		values := validValues()
		values[FieldSalary] = "55000"
		values[FieldName] = "Renamed"
		payload, err := BuildPayload(values, EditableFor(true))
		require.NoError(t, err)
		assert.Nil(t, payload.Create)
		assert.Equal(t, &models.CatUpdate{Salary: 55000}, payload.Update)
	})

	t.Run("unparsable salary", func(t *testing.T) {
		values := validValues()
		values[FieldSalary] = "NaN"
		_, err := BuildPayload(values, EditableFor(true))
		assert.Error(t, err)
	})
}

func TestValuesFromCat(t *testing.T) {
	values := ValuesFromCat(models.Cat{Id: 1, Name: "Tom", YearsOfExperience: 4, Breed: "Siamese", Salary: 1500.5})
	assert.Equal(t, Values{
		FieldName:            "Tom",
		FieldExperienceYears: "4",
		FieldBreed:           "Siamese",
		FieldSalary:          "1500.5",
	}, values)
}

func TestParseField(t *testing.T) {
	f, ok := ParseField("years_of_experience")
	require.True(t, ok)
	assert.Equal(t, FieldExperienceYears, f)

	_, ok = ParseField("cat_id")
	assert.False(t, ok)
}
