package http

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	envDomain "github.com/allisson/envkeys/internal/environment/domain"
)

// parseIDParam parses a positive int64 path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", name)
	}
	return id, nil
}

// parseCredentialTypeParam parses the :type path parameter.
func parseCredentialTypeParam(c *gin.Context) (envDomain.CredentialType, error) {
	return envDomain.ParseCredentialType(c.Param("type"))
}
