package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	SpecStatusActive   = "active"
	SpecStatusInactive = "inactive"
)

// Specification is a stored description of required behaviour for one entity.
type Specification struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"app_id"`
	EntityType string     `json:"entity_type"`
	EntityName string     `json:"entity_name"`
	Content    string     `json:"spec_content"`
	Status     string     `json:"status"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (s Specification) Kind() EntityKind {
	return ParseEntityKind(s.EntityType)
}

// Eligible reports whether the specification may be drift checked.
func (s Specification) Eligible() bool {
	return s.DeletedAt == nil && s.Status == SpecStatusActive
}

// Snapshot is the transient actual state of an entity, embedded into the
// analysis prompt and then discarded.
type Snapshot struct {
	Kind EntityKind
	Text string
	Err  error
}
