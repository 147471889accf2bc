// Package portfolio stores published project records and maintains the
// denormalized collaboration counters on their owning partners.
//
// Every mutation runs inside a single database transaction covering both the
// portfolio row and the counter adjustment, so no partial state is ever
// observable. Counter adjustments are atomic SQL increments, never
// read-modify-write, so concurrent mutations against the same partner cannot
// lose an update.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nisaaulia/site-server/pkg/partner"
)

// ErrNotFound is returned when the target portfolio entry does not exist.
var ErrNotFound = errors.New("portfolio entry not found")

// ErrSlugTaken is returned when a slug unique constraint is violated.
var ErrSlugTaken = errors.New("slug already in use")

// ErrSlugExhausted is returned when no unique slug could be generated within
// the attempt budget.
var ErrSlugExhausted = errors.New("failed to generate unique slug")

// Store is the collaboration ledger: portfolio CRUD plus the counter
// bookkeeping on partners.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new portfolio Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the portfolio table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Portfolio{}); err != nil {
		return fmt.Errorf("auto-migrate portfolios: %w", err)
	}
	return nil
}

// List returns all portfolio entries, featured first, then by display order.
func (s *Store) List(ctx context.Context) ([]Portfolio, error) {
	var entries []Portfolio
	err := s.db.WithContext(ctx).
		Order("featured DESC").
		Order("display_order ASC").
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list portfolio: %w", err)
	}
	return entries, nil
}

// GetBySlug retrieves a portfolio entry by slug. Returns nil, nil if absent.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*Portfolio, error) {
	var p Portfolio
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get portfolio: %w", err)
	}
	return &p, nil
}

// Create inserts a portfolio entry and increments the owning partner's
// collaboration count in the same transaction. The referenced partner must
// exist; entries with a nil PartnerID are allowed and adjust no counter.
func (s *Store) Create(ctx context.Context, p *Portfolio) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.PartnerID != nil {
			if err := partnerMustExist(tx, *p.PartnerID); err != nil {
				return err
			}
		}
		if err := tx.Create(p).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSlugTaken
			}
			return fmt.Errorf("create portfolio: %w", err)
		}
		if p.PartnerID != nil {
			if err := incrementCollab(tx, *p.PartnerID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update applies a partial patch to the entry identified by slug. When the
// patch reassigns the entry to a different partner, the old owner's counter
// is decremented and the new owner's incremented inside the same transaction.
// The internal rank of either partner is deliberately left untouched; only
// the direct partner-update path recomputes it.
func (s *Store) Update(ctx context.Context, slug string, pt Patch) (*Portfolio, error) {
	var updated Portfolio
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Portfolio
		if err := tx.Where("slug = ?", slug).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load portfolio: %w", err)
		}

		if pt.PartnerID.Present && !samePartner(p.PartnerID, pt.PartnerID.Value) {
			if pt.PartnerID.Value != nil {
				if err := partnerMustExist(tx, *pt.PartnerID.Value); err != nil {
					return err
				}
			}
			if p.PartnerID != nil {
				if err := decrementCollab(tx, *p.PartnerID); err != nil {
					return err
				}
			}
			if pt.PartnerID.Value != nil {
				if err := incrementCollab(tx, *pt.PartnerID.Value); err != nil {
					return err
				}
			}
			p.PartnerID = pt.PartnerID.Value
		}

		if pt.Title.Present {
			p.Title = pt.Title.Value
		}
		if pt.Slug.Present {
			p.Slug = pt.Slug.Value
		}
		if pt.Summary.Present {
			p.Summary = pt.Summary.Value
		}
		if pt.Images.Present {
			p.Images = partner.JSONStringSlice(pt.Images.Value)
		}
		if pt.Tags.Present {
			p.Tags = partner.JSONStringSlice(pt.Tags.Value)
		}
		if pt.Categories.Present {
			p.Categories = partner.JSONStringSlice(pt.Categories.Value)
		}
		if pt.Brands.Present {
			p.Brands = partner.JSONStringSlice(pt.Brands.Value)
		}
		if pt.Featured.Present {
			p.Featured = pt.Featured.Value
		}
		if pt.Order.Present {
			p.Order = pt.Order.Value
		}
		if pt.PublishedAt.Present {
			p.PublishedAt = pt.PublishedAt.Value
		}

		if err := tx.Save(&p).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSlugTaken
			}
			return fmt.Errorf("update portfolio: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the entry identified by slug and decrements the owning
// partner's collaboration count in the same transaction.
func (s *Store) Delete(ctx context.Context, slug string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Portfolio
		if err := tx.Where("slug = ?", slug).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load portfolio: %w", err)
		}
		if err := tx.Delete(&Portfolio{}, "id = ?", p.ID).Error; err != nil {
			return fmt.Errorf("delete portfolio: %w", err)
		}
		if p.PartnerID != nil {
			if err := decrementCollab(tx, *p.PartnerID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GenerateUniqueSlug derives a slug from the title and probes numbered
// variants until one is free, giving up after maxSlugAttempts candidates.
func (s *Store) GenerateUniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "untitled"
	}
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		candidate := slugCandidate(base, attempt)
		var n int64
		err := s.db.WithContext(ctx).Model(&Portfolio{}).Where("slug = ?", candidate).Count(&n).Error
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if n == 0 {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}

// RecalcPartner overwrites one partner's collaboration count with the true
// portfolio row count. A correcting write, idempotent by construction.
func (s *Store) RecalcPartner(ctx context.Context, partnerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := partnerMustExist(tx, partnerID); err != nil {
			return err
		}
		return tx.Model(&partner.Partner{}).
			Where("id = ?", partnerID).
			Update("collaboration_count",
				gorm.Expr("(SELECT COUNT(*) FROM portfolios WHERE portfolios.partner_id = ?)", partnerID)).Error
	})
}

// RecalcAll overwrites every partner's collaboration count with the true
// portfolio row count in one transaction. Internal ranks are not touched.
func (s *Store) RecalcAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Model(&partner.Partner{}).
			Update("collaboration_count",
				gorm.Expr("(SELECT COUNT(*) FROM portfolios WHERE portfolios.partner_id = partners.id)")).Error
	})
}

// partnerMustExist fails with partner.ErrNotFound when the ID is unknown.
func partnerMustExist(tx *gorm.DB, partnerID string) error {
	var n int64
	if err := tx.Model(&partner.Partner{}).Where("id = ?", partnerID).Count(&n).Error; err != nil {
		return fmt.Errorf("check partner: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("partner %s: %w", partnerID, partner.ErrNotFound)
	}
	return nil
}

// incrementCollab bumps a partner's collaboration count by one with an
// atomic SQL increment.
func incrementCollab(tx *gorm.DB, partnerID string) error {
	err := tx.Model(&partner.Partner{}).
		Where("id = ?", partnerID).
		Update("collaboration_count", gorm.Expr("collaboration_count + 1")).Error
	if err != nil {
		return fmt.Errorf("increment collaboration count: %w", err)
	}
	return nil
}

// decrementCollab lowers a partner's collaboration count by one, clamped at
// zero. A drifted counter stuck at zero is healed by the recalculation path.
func decrementCollab(tx *gorm.DB, partnerID string) error {
	err := tx.Model(&partner.Partner{}).
		Where("id = ? AND collaboration_count > 0", partnerID).
		Update("collaboration_count", gorm.Expr("collaboration_count - 1")).Error
	if err != nil {
		return fmt.Errorf("decrement collaboration count: %w", err)
	}
	return nil
}

// samePartner compares two nullable partner references.
func samePartner(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// isUniqueViolation reports whether err is a unique-constraint violation from
// any of the supported drivers (SQLite, MySQL, PostgreSQL).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
