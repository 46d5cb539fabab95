package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "treasury/internal/errors"
	"treasury/internal/middleware"
	"treasury/internal/models"
)

// ErrorDetail is the inner error object of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope rendered by middleware.ErrorHandler.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getActor returns the authenticated caller or ErrUnauthorized.
func getActor(c *gin.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return models.Actor{}, apperrors.ErrUnauthorized
	}
	return actor, nil
}

// parsePathID reads a UUID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	raw := c.Param(param)
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.WithMessage(apperrors.ErrValidation, "Invalid "+param)
	}
	return raw, nil
}

// parseVariant reads the :variant path parameter.
func parseVariant(c *gin.Context) (models.Variant, error) {
	v := models.Variant(c.Param("variant"))
	if !models.IsValidVariant(v) {
		return "", apperrors.WithMessage(apperrors.ErrUnsupportedVariant, "Unknown document variant "+string(v))
	}
	return v, nil
}

// parseFlexibleTime accepts RFC3339 or a bare YYYY-MM-DD date.
func parseFlexibleTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

// respondWithError hands err to middleware.ErrorHandler, which renders it.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func invalidInput(err error) error {
	return apperrors.WithMessage(apperrors.ErrValidation, err.Error())
}
