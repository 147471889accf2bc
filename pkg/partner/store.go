package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("partner not found")

// ErrNameTaken is returned when a unique name constraint is violated.
var ErrNameTaken = errors.New("name already in use")

// ReferencedError blocks a delete while other rows still reference the target.
type ReferencedError struct {
	Count int64
	By    string
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf("still referenced by %d %s", e.Count, e.By)
}

// Store provides CRUD operations for partners.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new partner Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the partner tables.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Partner{}); err != nil {
		return fmt.Errorf("auto-migrate partners: %w", err)
	}
	if err := s.db.AutoMigrate(&PartnerCategory{}); err != nil {
		return fmt.Errorf("auto-migrate partner_categories: %w", err)
	}
	if err := s.db.AutoMigrate(&PartnerRank{}); err != nil {
		return fmt.Errorf("auto-migrate partner_ranks: %w", err)
	}
	return nil
}

// List returns all partners ordered by internal rank (best first), then name.
func (s *Store) List(ctx context.Context) ([]Partner, error) {
	var partners []Partner
	err := s.db.WithContext(ctx).
		Order("internal_rank DESC").
		Order("name ASC").
		Find(&partners).Error
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

// Get retrieves a partner by ID. Returns nil, nil if no partner exists.
func (s *Store) Get(ctx context.Context, id string) (*Partner, error) {
	var p Partner
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return &p, nil
}

// Create inserts a new partner. The internal rank is derived from the initial
// collaboration count and manual score before the insert.
func (s *Store) Create(ctx context.Context, p *Partner) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.InternalRank = ComputeInternalRank(p.CollaborationCount, p.ManualScore)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkLookupRefs(tx, p.CategoryID, p.RankID); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrNameTaken
			}
			return fmt.Errorf("create partner: %w", err)
		}
		return nil
	})
}

// Update applies a partial patch to a partner. Only fields present in the
// patch are mutated. The internal rank is recomputed from the stored
// collaboration count and the (possibly updated) manual score; this is the
// only write path that recomputes it.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (*Partner, error) {
	var updated Partner
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Partner
		if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load partner: %w", err)
		}

		if patch.Name.Present {
			p.Name = patch.Name.Value
		}
		if patch.CategoryID.Present {
			p.CategoryID = patch.CategoryID.Value
		}
		if patch.RankID.Present {
			p.RankID = patch.RankID.Value
		}
		if patch.Location.Present {
			p.Location = patch.Location.Value
		}
		if patch.Contact.Present {
			p.Contact = patch.Contact.Value
		}
		if patch.PriceRange.Present {
			p.PriceRange = patch.PriceRange.Value
		}
		if patch.AvatarURL.Present {
			p.AvatarURL = patch.AvatarURL.Value
		}
		if patch.Tags.Present {
			p.Tags = JSONStringSlice(patch.Tags.Value)
		}
		if patch.ManualScore.Present {
			p.ManualScore = patch.ManualScore.Value
		}
		p.InternalRank = ComputeInternalRank(p.CollaborationCount, p.ManualScore)

		if err := s.checkLookupRefs(tx, p.CategoryID, p.RankID); err != nil {
			return err
		}
		if err := tx.Save(&p).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrNameTaken
			}
			return fmt.Errorf("update partner: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a partner. Deletion is blocked while the partner still owns
// portfolio entries, mirroring the category/rank deletion rule. The
// denormalized counter is the gate; run a recalculation first if drift is
// suspected.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Partner
		if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load partner: %w", err)
		}
		if p.CollaborationCount > 0 {
			return &ReferencedError{Count: int64(p.CollaborationCount), By: "portfolio entries"}
		}
		return tx.Delete(&Partner{}, "id = ?", id).Error
	})
}

// checkLookupRefs verifies that non-nil category/rank references exist.
func (s *Store) checkLookupRefs(tx *gorm.DB, categoryID, rankID *string) error {
	if categoryID != nil {
		var n int64
		if err := tx.Model(&PartnerCategory{}).Where("id = ?", *categoryID).Count(&n).Error; err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("category %s: %w", *categoryID, ErrNotFound)
		}
	}
	if rankID != nil {
		var n int64
		if err := tx.Model(&PartnerRank{}).Where("id = ?", *rankID).Count(&n).Error; err != nil {
			return fmt.Errorf("check rank: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("rank %s: %w", *rankID, ErrNotFound)
		}
	}
	return nil
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
