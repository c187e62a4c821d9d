package provider

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultTypePrefixes allow local storage providers out of the box
var DefaultTypePrefixes = []string{"org.apache.mesos.rp."}

var nameRegexp = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z._-]*$`)

// Validator checks raw configs before they reach the store. It never
// partially applies anything: first failure wins.
type Validator struct {
	typePrefixes []string
	validate     *validator.Validate
}

func NewValidator(typePrefixes ...string) (v *Validator) {
	if len(typePrefixes) == 0 {
		typePrefixes = DefaultTypePrefixes
	}
	v = &Validator{
		typePrefixes: typePrefixes,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
	return
}

func (v *Validator) Validate(config *Config) (err error) {
	if structErr := v.validate.Struct(config); structErr != nil {
		fieldErrors, ok := structErr.(validator.ValidationErrors)
		if !ok || len(fieldErrors) == 0 {
			err = &ValidationError{Field: "config", Reason: structErr.Error()}
			return
		}
		first := fieldErrors[0]
		err = &ValidationError{
			Field:  strings.ToLower(first.Namespace()),
			Reason: "failed " + first.Tag() + " check",
		}
		return
	}
	if !v.allowedType(config.Type) {
		err = &ValidationError{
			Field:  "type",
			Reason: "must start with one of " + strings.Join(v.typePrefixes, ", "),
		}
		return
	}
	if !nameRegexp.MatchString(config.Name) {
		err = &ValidationError{Field: "name", Reason: "must be non-empty and filesystem-safe"}
		return
	}
	seen := map[string]struct{}{}
	for _, service := range config.Plugin.Services {
		if _, ok := seen[service]; ok {
			err = &ValidationError{Field: "plugin.services", Reason: "duplicate service " + service}
			return
		}
		seen[service] = struct{}{}
	}
	return
}

func (v *Validator) allowedType(kind string) (res bool) {
	for _, prefix := range v.typePrefixes {
		if strings.HasPrefix(kind, prefix) {
			res = true
			return
		}
	}
	return
}
