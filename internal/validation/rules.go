// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/envkeys/internal/errors"
)

var (
	// environmentNameRegex matches the suffix of a <PREFIX>_<ENVNAME> override
	// variable once lower-cased, so every environment can be overridden.
	environmentNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

	// variableNameRegex is a POSIX-style environment variable name.
	variableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// EnvironmentName validates an environment name: lower-case letters, digits, '_' and '-'.
var EnvironmentName = validation.NewStringRuleWithError(
	func(s string) bool {
		return environmentNameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_environment_name",
		"must start with a lower-case letter or digit and contain only lower-case letters, digits, '_' or '-'",
	),
)

// VariableName validates an environment variable name.
var VariableName = validation.NewStringRuleWithError(
	func(s string) bool {
		return variableNameRegex.MatchString(s)
	},
	validation.NewError("validation_variable_name", "must be a valid environment variable name"),
)

// HTTPURL validates an absolute http or https URL with a host.
var HTTPURL = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.ParseRequestURI(s)
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	},
	validation.NewError("validation_http_url", "must be an absolute http or https URL"),
)

// Base64 validates standard padded base64, the encoding of ENCRYPTION_KEY.
// Empty strings pass so the rule composes with Required.
var Base64 = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := base64.StdEncoding.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_base64", "must be standard base64"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
