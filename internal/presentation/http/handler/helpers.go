package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/response"
	"github.com/sangkips/oscr-register/internal/presentation/http/middleware"
	"github.com/sangkips/oscr-register/pkg/utils"
)

// GetUserID extracts the operator ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	id := middleware.CurrentUserID(c)
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// parseUUIDParam reads a path parameter as a UUID, answering 400 when it
// is malformed
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// instantOr returns *at, or now when the caller gave no instant
func instantOr(at *time.Time, now time.Time) time.Time {
	if at == nil {
		return now
	}
	return *at
}
