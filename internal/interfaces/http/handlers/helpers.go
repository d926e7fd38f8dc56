package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/internal/interfaces/http/response"
)

// parseStoreID reads the :id path param, writing a 400 when it is not a uuid.
func parseStoreID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid store id"))
		return uuid.Nil, false
	}
	return id, true
}
