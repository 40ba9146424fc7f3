package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

var environmentColumnNames = []string{
	"id", "uuid", "account_id", "name",
	"secret_key", "secret_key_iv", "secret_key_tag", "secret_key_hashed",
	"pending_secret_key", "pending_secret_key_iv", "pending_secret_key_tag",
	"public_key", "pending_public_key",
	"hmac_enabled", "hmac_key", "webhook_url", "secondary_webhook_url", "callback_url",
	"send_auth_webhook", "always_send_webhook",
	"created_at", "updated_at", "deleted_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func strPtr(s string) *string { return &s }

func nullable(s *string) driver.Value {
	if s == nil {
		return nil
	}
	return *s
}

func testEnvironment() *envDomain.Environment {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &envDomain.Environment{
		ID:              7,
		UUID:            uuid.MustParse("0190f0a4-7b1c-7d2e-9f00-1a2b3c4d5e6f"),
		AccountID:       3,
		Name:            "prod",
		SecretKey:       "Y2lwaGVy",
		SecretKeyIV:     strPtr("aXY="),
		SecretKeyTag:    strPtr("dGFn"),
		SecretKeyHashed: strPtr("aGFzaA=="),
		PublicKey:       "pk_123",
		HMACEnabled:     true,
		HMACKey:         strPtr("hmac"),
		WebhookURL:      strPtr("https://hooks.example.com"),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// environmentRow renders env as a result row; uuidValue lets MySQL tests pass raw bytes.
func environmentRow(env *envDomain.Environment, uuidValue driver.Value) []driver.Value {
	return []driver.Value{
		env.ID, uuidValue, env.AccountID, env.Name,
		env.SecretKey, nullable(env.SecretKeyIV), nullable(env.SecretKeyTag), nullable(env.SecretKeyHashed),
		nullable(env.PendingSecretKey), nullable(env.PendingSecretKeyIV), nullable(env.PendingSecretKeyTag),
		env.PublicKey, nullable(env.PendingPublicKey),
		env.HMACEnabled, nullable(env.HMACKey), nullable(env.WebhookURL),
		nullable(env.SecondaryWebhookURL), nullable(env.CallbackURL),
		env.SendAuthWebhook, env.AlwaysSendWebhook,
		env.CreatedAt, env.UpdatedAt, nil,
	}
}

func connRefused() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
}
