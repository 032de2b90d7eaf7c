package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps stored on every row
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity stamps a fresh id and creation time
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch moves UpdatedAt forward
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// BaseAggregateRoot adds the optimistic lock column and a buffer of events
// raised by the aggregate. Services drain the buffer inside the transaction
// and publish after commit.
type BaseAggregateRoot struct {
	BaseEntity
	Version int           `gorm:"not null;default:1"`
	pending []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot starts at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// Record buffers an event
func (a *BaseAggregateRoot) Record(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// PendingEvents returns the buffered events without draining them
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return a.pending
}

// PullDomainEvents drains the buffer
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}
