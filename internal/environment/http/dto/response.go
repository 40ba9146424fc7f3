package dto

import (
	"time"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// EnvironmentResponse represents an environment in API responses.
// SECURITY: SecretKey is only set when the environment is created.
type EnvironmentResponse struct {
	ID                  int64     `json:"id"`
	UUID                string    `json:"uuid"`
	AccountID           int64     `json:"account_id"`
	Name                string    `json:"name"`
	SecretKey           string    `json:"secret_key,omitempty"`
	PublicKey           string    `json:"public_key"`
	SecretKeyRotation   string    `json:"secret_key_rotation"`
	PublicKeyRotation   string    `json:"public_key_rotation"`
	HMACEnabled         bool      `json:"hmac_enabled"`
	WebhookURL          *string   `json:"webhook_url,omitempty"`
	SecondaryWebhookURL *string   `json:"secondary_webhook_url,omitempty"`
	CallbackURL         *string   `json:"callback_url,omitempty"`
	SendAuthWebhook     bool      `json:"send_auth_webhook"`
	AlwaysSendWebhook   bool      `json:"always_send_webhook"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CreateAccountResponse is returned once, when an account and its default
// environments are provisioned.
type CreateAccountResponse struct {
	Account      AccountResponse       `json:"account"`
	Environments []EnvironmentResponse `json:"environments"`
}

// ListEnvironmentsResponse represents a list of environments in API responses.
type ListEnvironmentsResponse struct {
	Data []EnvironmentResponse `json:"data"`
}

// KeyResponse carries a credential value returned by a rotation step.
type KeyResponse struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
	State string `json:"state"`
}

// VariableResponse represents a decrypted environment variable.
type VariableResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ListVariablesResponse represents the variables of an environment.
type ListVariablesResponse struct {
	Data []VariableResponse `json:"data"`
}

// WhoAmIResponse describes the caller a credential resolved to.
type WhoAmIResponse struct {
	Account     AccountResponse     `json:"account"`
	Environment EnvironmentResponse `json:"environment"`
}

// MapAccountToResponse converts a domain account to an API response.
func MapAccountToResponse(account *envDomain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		UUID:      account.UUID.String(),
		Name:      account.Name,
		CreatedAt: account.CreatedAt,
	}
}

// MapEnvironmentToResponse converts a domain environment to an API response
// without its secret key.
func MapEnvironmentToResponse(env *envDomain.Environment) EnvironmentResponse {
	return EnvironmentResponse{
		ID:                  env.ID,
		UUID:                env.UUID.String(),
		AccountID:           env.AccountID,
		Name:                env.Name,
		PublicKey:           env.PublicKey,
		SecretKeyRotation:   string(env.RotationState(envDomain.CredentialSecret)),
		PublicKeyRotation:   string(env.RotationState(envDomain.CredentialPublic)),
		HMACEnabled:         env.HMACEnabled,
		WebhookURL:          env.WebhookURL,
		SecondaryWebhookURL: env.SecondaryWebhookURL,
		CallbackURL:         env.CallbackURL,
		SendAuthWebhook:     env.SendAuthWebhook,
		AlwaysSendWebhook:   env.AlwaysSendWebhook,
		CreatedAt:           env.CreatedAt,
		UpdatedAt:           env.UpdatedAt,
	}
}

// MapCreatedEnvironmentToResponse converts a freshly created environment,
// including its secret key.
func MapCreatedEnvironmentToResponse(env *envDomain.Environment) EnvironmentResponse {
	response := MapEnvironmentToResponse(env)
	response.SecretKey = env.SecretKey
	return response
}

// MapCreatedAccountToResponse converts a provisioned account and its environments.
func MapCreatedAccountToResponse(
	account *envDomain.Account,
	envs []*envDomain.Environment,
) CreateAccountResponse {
	data := make([]EnvironmentResponse, 0, len(envs))
	for _, env := range envs {
		data = append(data, MapCreatedEnvironmentToResponse(env))
	}
	return CreateAccountResponse{
		Account:      MapAccountToResponse(account),
		Environments: data,
	}
}

// MapEnvironmentsToListResponse converts a slice of domain environments.
func MapEnvironmentsToListResponse(envs []*envDomain.Environment) ListEnvironmentsResponse {
	data := make([]EnvironmentResponse, 0, len(envs))
	for _, env := range envs {
		data = append(data, MapEnvironmentToResponse(env))
	}
	return ListEnvironmentsResponse{Data: data}
}

// MapVariablesToListResponse converts decrypted variables.
func MapVariablesToListResponse(variables []*envDomain.EnvironmentVariable) ListVariablesResponse {
	data := make([]VariableResponse, 0, len(variables))
	for _, v := range variables {
		data = append(data, VariableResponse{Name: v.Name, Value: v.Value})
	}
	return ListVariablesResponse{Data: data}
}

// MapCallerToWhoAmIResponse converts a resolved caller.
func MapCallerToWhoAmIResponse(caller *envDomain.Caller) WhoAmIResponse {
	return WhoAmIResponse{
		Account:     MapAccountToResponse(caller.Account),
		Environment: MapEnvironmentToResponse(caller.Environment),
	}
}
