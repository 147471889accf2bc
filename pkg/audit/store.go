package audit

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store persists audit events.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new audit Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the audit table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Event{}); err != nil {
		return fmt.Errorf("auto-migrate audit_events: %w", err)
	}
	return nil
}

// Append records one event.
func (s *Store) Append(ctx context.Context, event *Event) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// List returns events newest first. pageToken is the ID of the last event on
// the previous page; zero means start from the newest. The returned token is
// zero when no further page exists.
func (s *Store) List(ctx context.Context, pageSize int, pageToken uint64) ([]Event, uint64, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	q := s.db.WithContext(ctx).Order("id DESC").Limit(pageSize + 1)
	if pageToken > 0 {
		q = q.Where("id < ?", pageToken)
	}

	var events []Event
	if err := q.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("list audit events: %w", err)
	}

	var nextToken uint64
	if len(events) > pageSize {
		events = events[:pageSize]
		nextToken = events[len(events)-1].ID
	}
	return events, nextToken, nil
}
