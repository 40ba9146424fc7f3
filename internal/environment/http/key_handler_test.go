package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	"github.com/allisson/envkeys/internal/environment/http/dto"
)

func setupTestKeyHandler(t *testing.T) (*KeyHandler, *MockRotationUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &MockRotationUseCase{}
	handler := NewKeyHandler(mockUseCase, testLogger())

	return handler, mockUseCase
}

func keyParams(id, credentialType string) gin.Params {
	return gin.Params{{Key: "id", Value: id}, {Key: "type", Value: credentialType}}
}

func decodeKeyResponse(t *testing.T, body []byte) dto.KeyResponse {
	t.Helper()
	var response dto.KeyResponse
	require.NoError(t, json.Unmarshal(body, &response))
	return response
}

func TestKeyHandler_StateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestKeyHandler(t)

		mockUseCase.On("State", mock.Anything, int64(10), envDomain.CredentialSecret).
			Return(envDomain.RotationPending, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/admin/environments/10/keys/secret", nil)
		c.Params = keyParams("10", "secret")
		handler.StateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeKeyResponse(t, w.Body.Bytes())
		assert.Equal(t, "secret", response.Type)
		assert.Equal(t, "rotation_pending", response.State)
		assert.Empty(t, response.Value)
	})

	t.Run("Error_UnknownType", func(t *testing.T) {
		handler, mockUseCase := setupTestKeyHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/admin/environments/10/keys/hmac", nil)
		c.Params = keyParams("10", "hmac")
		handler.StateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "State", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestKeyHandler_RotateHandler(t *testing.T) {
	t.Run("Success_ReturnsPendingValue", func(t *testing.T) {
		handler, mockUseCase := setupTestKeyHandler(t)

		mockUseCase.On("BeginRotation", mock.Anything, int64(10), envDomain.CredentialSecret).
			Return("sk_next", nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/admin/environments/10/keys/secret/rotate", nil)
		c.Params = keyParams("10", "secret")
		handler.RotateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeKeyResponse(t, w.Body.Bytes())
		assert.Equal(t, "sk_next", response.Value)
		assert.Equal(t, "rotation_pending", response.State)
	})

	t.Run("Error_EnvironmentNotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestKeyHandler(t)

		mockUseCase.On("BeginRotation", mock.Anything, int64(10), envDomain.CredentialPublic).
			Return("", envDomain.ErrEnvironmentNotFound).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/admin/environments/10/keys/public/rotate", nil)
		c.Params = keyParams("10", "public")
		handler.RotateHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestKeyHandler_ActivateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestKeyHandler(t)

		mockUseCase.On("Activate", mock.Anything, int64(10), envDomain.CredentialPublic).Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/admin/environments/10/keys/public/activate", nil)
		c.Params = keyParams("10", "PUBLIC")
		handler.ActivateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "stable", decodeKeyResponse(t, w.Body.Bytes()).State)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NothingPending", func(t *testing.T) {
		handler, mockUseCase := setupTestKeyHandler(t)

		mockUseCase.On("Activate", mock.Anything, int64(10), envDomain.CredentialSecret).
			Return(envDomain.ErrInvalidRotationState).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/admin/environments/10/keys/secret/activate", nil)
		c.Params = keyParams("10", "secret")
		handler.ActivateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, mockUseCase := setupTestKeyHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/admin/environments/0/keys/secret/activate", nil)
		c.Params = keyParams("0", "secret")
		handler.ActivateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestKeyHandler_RevertHandler(t *testing.T) {
	handler, mockUseCase := setupTestKeyHandler(t)

	mockUseCase.On("Revert", mock.Anything, int64(10), envDomain.CredentialSecret).
		Return("sk_live", nil).
		Once()

	c, w := createTestContext(http.MethodPost, "/v1/admin/environments/10/keys/secret/revert", nil)
	c.Params = keyParams("10", "secret")
	handler.RevertHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeKeyResponse(t, w.Body.Bytes())
	assert.Equal(t, "sk_live", response.Value)
	assert.Equal(t, "stable", response.State)
}
