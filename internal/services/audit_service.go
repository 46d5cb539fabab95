package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "treasury/internal/errors"
	"treasury/internal/logger"
	"treasury/internal/models"
)

// Audit actions.
const (
	AuditActionCreate     = "create"
	AuditActionTransition = "transition"
	AuditActionDelete     = "delete"
)

// auditService handles audit log recording.
type auditService struct{}

// NewAuditService creates a new AuditServicer.
func NewAuditService() AuditServicer {
	return &auditService{}
}

// Log writes an audit entry with tx, so the entry commits or rolls back
// together with the change it describes.
func (s *auditService) Log(tx *gorm.DB, actor models.Actor, action, resourceType, resourceID string, changes map[string]any) error {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changesJSON,
	}

	if err := tx.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"actor_id", actor.ID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
