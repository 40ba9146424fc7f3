// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	customValidation "github.com/allisson/envkeys/internal/validation"
)

// CreateAccountRequest contains the parameters for creating an account.
type CreateAccountRequest struct {
	Name string `json:"name"`
}

// Validate checks if the create account request is valid.
func (r *CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// CreateEnvironmentRequest contains the parameters for creating an environment.
// The account is taken from the URL.
type CreateEnvironmentRequest struct {
	Name string `json:"name"`
}

// Validate checks if the create environment request is valid.
func (r *CreateEnvironmentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			validation.Length(1, 64),
			customValidation.EnvironmentName,
		),
	)
}

// UpdateEnvironmentRequest contains the environment fields a PATCH may change.
// Omitted fields are left untouched.
type UpdateEnvironmentRequest struct {
	Name                *string `json:"name"`
	HMACEnabled         *bool   `json:"hmac_enabled"`
	HMACKey             *string `json:"hmac_key"`
	WebhookURL          *string `json:"webhook_url"`
	SecondaryWebhookURL *string `json:"secondary_webhook_url"`
	CallbackURL         *string `json:"callback_url"`
	SendAuthWebhook     *bool   `json:"send_auth_webhook"`
	AlwaysSendWebhook   *bool   `json:"always_send_webhook"`
}

// Validate checks if the update environment request is valid.
func (r *UpdateEnvironmentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.NilOrNotEmpty,
			validation.Length(1, 64),
			customValidation.EnvironmentName,
		),
		validation.Field(&r.HMACKey, validation.Length(0, 255)),
		validation.Field(&r.WebhookURL, validation.Length(0, 2048), customValidation.HTTPURL),
		validation.Field(&r.SecondaryWebhookURL, validation.Length(0, 2048), customValidation.HTTPURL),
		validation.Field(&r.CallbackURL, validation.Length(0, 2048), customValidation.HTTPURL),
	)
}

// ToMetadataUpdate converts the request into its domain form.
func (r *UpdateEnvironmentRequest) ToMetadataUpdate() envDomain.MetadataUpdate {
	return envDomain.MetadataUpdate{
		Name:                r.Name,
		HMACEnabled:         r.HMACEnabled,
		HMACKey:             r.HMACKey,
		WebhookURL:          r.WebhookURL,
		SecondaryWebhookURL: r.SecondaryWebhookURL,
		CallbackURL:         r.CallbackURL,
		SendAuthWebhook:     r.SendAuthWebhook,
		AlwaysSendWebhook:   r.AlwaysSendWebhook,
	}
}

// VariableRequest is one entry of a SetVariablesRequest.
type VariableRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Validate checks if the variable is valid.
func (r VariableRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required,
			validation.Length(1, 255),
			customValidation.VariableName,
		),
	)
}

// SetVariablesRequest replaces every variable of an environment. An empty list
// removes all variables.
type SetVariablesRequest struct {
	Variables []VariableRequest `json:"variables"`
}

// Validate checks if the set variables request is valid.
func (r *SetVariablesRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Variables, validation.Length(0, 500)),
	)
}

// ToVariableInputs converts the request into its domain form.
func (r *SetVariablesRequest) ToVariableInputs() []envDomain.VariableInput {
	inputs := make([]envDomain.VariableInput, 0, len(r.Variables))
	for _, v := range r.Variables {
		inputs = append(inputs, envDomain.VariableInput{Name: v.Name, Value: v.Value})
	}
	return inputs
}
