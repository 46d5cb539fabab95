package models

// AuditLog records every state change made through the ledger.
type AuditLog struct {
	Base
	ActorID      string `gorm:"not null;index" json:"actor_id"`
	ActorRole    Role   `gorm:"not null" json:"actor_role"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null;index" json:"resource_type"`
	ResourceID   string `gorm:"index" json:"resource_id"`
	Changes      string `json:"changes,omitempty"`
}
