package employee

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// RequiredFieldPolicy decides what counts as a missing field.
type RequiredFieldPolicy string

const (
	// PolicyTruthy treats absent, null, empty string and zero as missing.
	// A salary of 0 is therefore rejected.
	PolicyTruthy RequiredFieldPolicy = "truthy"
	// PolicyPresence treats only absent or null fields as missing.
	PolicyPresence RequiredFieldPolicy = "presence"
)

// ErrInvalidPolicy is returned when a policy name is not recognized.
var ErrInvalidPolicy = errors.New("invalid required field policy")

// ParsePolicy converts a configuration value into a RequiredFieldPolicy.
func ParsePolicy(s string) (RequiredFieldPolicy, error) {
	switch p := RequiredFieldPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyTruthy, PolicyPresence:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Validator checks submitted fields against a RequiredFieldPolicy.
type Validator struct {
	policy   RequiredFieldPolicy
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator creates a Validator enforcing the given policy. Field errors
// are rendered in English using the JSON field names.
func NewValidator(policy RequiredFieldPolicy) (*Validator, error) {
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	truthy := func(fl validator.FieldLevel) bool {
		if policy == PolicyPresence {
			return true
		}
		return !fl.Field().IsZero()
	}
	if err := validate.RegisterValidation("truthy", truthy); err != nil {
		return nil, fmt.Errorf("registering truthy validation: %w", err)
	}

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("registering translations: %w", err)
	}
	if err := validate.RegisterTranslation(
		"truthy",
		trans,
		func(t ut.Translator) error { return t.Add("truthy", "{0} must not be empty or zero", true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("truthy", fe.Field())
			return msg
		},
	); err != nil {
		return nil, fmt.Errorf("registering truthy translation: %w", err)
	}

	return &Validator{policy: policy, validate: validate, trans: trans}, nil
}

// Policy returns the policy this validator enforces.
func (v *Validator) Policy() RequiredFieldPolicy { return v.policy }

// Validate returns a *ValidationError when any required field is missing.
func (v *Validator) Validate(f Fields) error {
	err := v.validate.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating employee fields: %w", err)
	}

	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields[fe.Field()] = fe.Translate(v.trans)
	}
	return verr
}
