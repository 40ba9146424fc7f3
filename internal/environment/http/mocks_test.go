package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
	envMocks "github.com/allisson/envkeys/internal/environment/usecase/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestContext creates a gin test context with an optional JSON body.
func createTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func testCaller() *envDomain.Caller {
	return &envDomain.Caller{
		Account: &envDomain.Account{ID: 1, UUID: uuid.Must(uuid.NewV7()), Name: "Acme"},
		Environment: &envDomain.Environment{
			ID:        10,
			UUID:      uuid.Must(uuid.NewV7()),
			AccountID: 1,
			Name:      "prod",
			SecretKey: "sk_live",
			PublicKey: "pk_live",
		},
	}
}

// MockResolverUseCase is a mock implementation of usecase.ResolverUseCase
type (
	MockResolverUseCase    = envMocks.MockResolverUseCase
	MockAccountUseCase     = envMocks.MockAccountUseCase
	MockEnvironmentUseCase = envMocks.MockEnvironmentUseCase
	MockRotationUseCase    = envMocks.MockRotationUseCase
	MockAdminTokenService  = envMocks.MockAdminTokenService
)
