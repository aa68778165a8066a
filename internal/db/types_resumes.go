package db

import (
	"time"

	"github.com/google/uuid"
)

// Resume represents a stored resume document. Content is free-form JSON
// (sections keyed by name) so the AI enhancement step can rewrite it without a
// schema migration.
type Resume struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	Title         string         `json:"title"`
	TargetRole    *string        `json:"target_role,omitempty"`
	Content       map[string]any `json:"content"`
	Enhanced      bool           `json:"enhanced"`
	EnhancedModel *string        `json:"enhanced_model,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
