package partner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LookupStore provides CRUD operations for the partner category and rank
// lookup tables.
type LookupStore struct {
	db *gorm.DB
}

// NewLookupStore creates a new LookupStore.
func NewLookupStore(db *gorm.DB) *LookupStore {
	return &LookupStore{db: db}
}

// ListCategories returns all categories in display order.
func (s *LookupStore) ListCategories(ctx context.Context) ([]PartnerCategory, error) {
	var categories []PartnerCategory
	err := s.db.WithContext(ctx).Order("display_order ASC").Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves a category by ID. Returns nil, nil if absent.
func (s *LookupStore) GetCategory(ctx context.Context, id string) (*PartnerCategory, error) {
	var c PartnerCategory
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// CreateCategory inserts a new category.
func (s *LookupStore) CreateCategory(ctx context.Context, c *PartnerCategory) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpdateCategory replaces the mutable fields of a category.
func (s *LookupStore) UpdateCategory(ctx context.Context, id string, c *PartnerCategory) (*PartnerCategory, error) {
	var updated PartnerCategory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing PartnerCategory
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load category: %w", err)
		}
		existing.Name = c.Name
		existing.Slug = c.Slug
		existing.Order = c.Order
		existing.Description = c.Description
		if err := tx.Save(&existing).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrNameTaken
			}
			return fmt.Errorf("update category: %w", err)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a category. Blocked while any partner references it;
// the returned ReferencedError carries the number of blocking partners.
func (s *LookupStore) DeleteCategory(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c PartnerCategory
		if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load category: %w", err)
		}
		var n int64
		if err := tx.Model(&Partner{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("count referencing partners: %w", err)
		}
		if n > 0 {
			return &ReferencedError{Count: n, By: "partners"}
		}
		return tx.Delete(&PartnerCategory{}, "id = ?", id).Error
	})
}

// ListRanks returns all ranks in display order.
func (s *LookupStore) ListRanks(ctx context.Context) ([]PartnerRank, error) {
	var ranks []PartnerRank
	err := s.db.WithContext(ctx).Order("display_order ASC").Order("name ASC").Find(&ranks).Error
	if err != nil {
		return nil, fmt.Errorf("list ranks: %w", err)
	}
	return ranks, nil
}

// GetRank retrieves a rank by ID. Returns nil, nil if absent.
func (s *LookupStore) GetRank(ctx context.Context, id string) (*PartnerRank, error) {
	var r PartnerRank
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rank: %w", err)
	}
	return &r, nil
}

// CreateRank inserts a new rank.
func (s *LookupStore) CreateRank(ctx context.Context, r *PartnerRank) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("create rank: %w", err)
	}
	return nil
}

// UpdateRank replaces the mutable fields of a rank.
func (s *LookupStore) UpdateRank(ctx context.Context, id string, r *PartnerRank) (*PartnerRank, error) {
	var updated PartnerRank
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing PartnerRank
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load rank: %w", err)
		}
		existing.Name = r.Name
		existing.Slug = r.Slug
		existing.Order = r.Order
		existing.Weight = r.Weight
		if err := tx.Save(&existing).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrNameTaken
			}
			return fmt.Errorf("update rank: %w", err)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRank removes a rank. Blocked while any partner references it.
func (s *LookupStore) DeleteRank(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r PartnerRank
		if err := tx.Where("id = ?", id).First(&r).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load rank: %w", err)
		}
		var n int64
		if err := tx.Model(&Partner{}).Where("rank_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("count referencing partners: %w", err)
		}
		if n > 0 {
			return &ReferencedError{Count: n, By: "partners"}
		}
		return tx.Delete(&PartnerRank{}, "id = ?", id).Error
	})
}
