package employee

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func validFields() Fields {
	return Fields{
		Name:       strPtr("Ana"),
		Position:   strPtr("Engineer"),
		Salary:     floatPtr(90000),
		Department: strPtr("R&D"),
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RequiredFieldPolicy
		wantErr  bool
	}{
		{"truthy", "truthy", PolicyTruthy, false},
		{"presence", "presence", PolicyPresence, false},
		{"mixed case with spaces", "  Presence ", PolicyPresence, false},
		{"empty string", "", "", true},
		{"unknown", "strict", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePolicy(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPolicy)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNewValidator_InvalidPolicy(t *testing.T) {
	v, err := NewValidator(RequiredFieldPolicy("bogus"))
	assert.ErrorIs(t, err, ErrInvalidPolicy)
	assert.Nil(t, v)
}

func TestValidator_Truthy(t *testing.T) {
	v, err := NewValidator(PolicyTruthy)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(f *Fields)
		missing []string
	}{
		{"all fields present", func(f *Fields) {}, nil},
		{"absent name", func(f *Fields) { f.Name = nil }, []string{"name"}},
		{"empty position", func(f *Fields) { f.Position = strPtr("") }, []string{"position"}},
		{"zero salary", func(f *Fields) { f.Salary = floatPtr(0) }, []string{"salary"}},
		{"negative salary", func(f *Fields) { f.Salary = floatPtr(-1) }, nil},
		{"absent department", func(f *Fields) { f.Department = nil }, []string{"department"}},
		{
			"everything missing",
			func(f *Fields) { *f = Fields{} },
			[]string{"name", "position", "salary", "department"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := validFields()
			tc.mutate(&f)

			err := v.Validate(f)
			if len(tc.missing) == 0 {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, ErrMissingRequiredFields)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Fields, len(tc.missing))
			for _, field := range tc.missing {
				assert.Contains(t, verr.Fields, field)
			}
		})
	}
}

func TestValidator_Presence(t *testing.T) {
	v, err := NewValidator(PolicyPresence)
	require.NoError(t, err)
	assert.Equal(t, PolicyPresence, v.Policy())

	f := validFields()
	f.Salary = floatPtr(0)
	f.Position = strPtr("")
	assert.NoError(t, v.Validate(f), "zero values are accepted when only presence is required")

	f.Name = nil
	err = v.Validate(f)
	assert.ErrorIs(t, err, ErrMissingRequiredFields)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name is a required field", verr.Fields["name"])
}

func TestValidator_TruthyMessages(t *testing.T) {
	v, err := NewValidator(PolicyTruthy)
	require.NoError(t, err)

	f := validFields()
	f.Salary = floatPtr(0)
	f.Department = nil

	err = v.Validate(f)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "salary must not be empty or zero", verr.Fields["salary"])
	assert.Equal(t, "department is a required field", verr.Fields["department"])
	assert.Equal(t, "missing required fields: department, salary", verr.Error())
}

func TestNewEmployee(t *testing.T) {
	e := NewEmployee(validFields())
	assert.Empty(t, e.ID)
	assert.Equal(t, "Ana", e.Name)
	assert.Equal(t, "Engineer", e.Position)
	assert.Equal(t, 90000.0, e.Salary)
	assert.Equal(t, "R&D", e.Department)
}

func TestEmployee_Replace(t *testing.T) {
	e := &Employee{ID: "abc", Name: "Ana", Position: "Engineer", Salary: 1, Department: "R&D"}

	e.Replace(Fields{
		Name:       strPtr("Bo"),
		Position:   strPtr("Manager"),
		Salary:     floatPtr(120000),
		Department: strPtr("Sales"),
	})

	assert.Equal(t, &Employee{ID: "abc", Name: "Bo", Position: "Manager", Salary: 120000, Department: "Sales"}, e)
}
