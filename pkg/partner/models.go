package partner

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nisaaulia/site-server/pkg/patch"
)

// JSONStringSlice is a custom GORM type for []string stored as JSON text.
type JSONStringSlice []string

// Scan implements the sql.Scanner interface for JSONStringSlice.
func (s *JSONStringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	default:
		return fmt.Errorf("unsupported type for JSONStringSlice: %T", value)
	}
	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface for JSONStringSlice.
func (s JSONStringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Partner is a collaborator/vendor whose work is referenced by portfolio
// entries. CollaborationCount is denormalized: it mirrors the number of
// portfolio rows owned by this partner and is maintained by the portfolio
// ledger, with a correcting recalculation available for drift repair.
type Partner struct {
	ID                 string          `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Name               string          `gorm:"column:name;uniqueIndex;not null" json:"name"`
	CategoryID         *string         `gorm:"column:category_id;type:varchar(36);index" json:"categoryId"`
	RankID             *string         `gorm:"column:rank_id;type:varchar(36);index" json:"rankId"`
	Location           string          `gorm:"column:location" json:"location"`
	Contact            string          `gorm:"column:contact" json:"contact"`
	PriceRange         string          `gorm:"column:price_range" json:"priceRange"`
	AvatarURL          string          `gorm:"column:avatar_url" json:"avatarUrl"`
	Tags               JSONStringSlice `gorm:"column:tags;type:text" json:"tags"`
	CollaborationCount int             `gorm:"column:collaboration_count;default:0;not null" json:"collaborationCount"`
	ManualScore        float64         `gorm:"column:manual_score;default:0;not null" json:"manualScore"`
	InternalRank       float64         `gorm:"column:internal_rank;default:0;not null" json:"internalRank"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Partner) TableName() string { return "partners" }

// PartnerCategory is a lookup entity referenced by partners. Deletion is
// blocked while any partner still references it.
type PartnerCategory struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Order       int       `gorm:"column:display_order;default:0;not null" json:"order"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (PartnerCategory) TableName() string { return "partner_categories" }

// PartnerRank is a lookup entity referenced by partners, carrying a sort
// weight. Deletion is blocked while any partner still references it.
type PartnerRank struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Name      string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Order     int       `gorm:"column:display_order;default:0;not null" json:"order"`
	Weight    float64   `gorm:"column:weight;default:0;not null" json:"weight"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (PartnerRank) TableName() string { return "partner_ranks" }

// Patch is a partial update for a Partner. Absent fields leave the stored
// value unchanged; CategoryID and RankID accept an explicit null to clear
// the reference.
type Patch struct {
	Name        patch.Field[string]   `json:"name"`
	CategoryID  patch.Field[*string]  `json:"categoryId"`
	RankID      patch.Field[*string]  `json:"rankId"`
	Location    patch.Field[string]   `json:"location"`
	Contact     patch.Field[string]   `json:"contact"`
	PriceRange  patch.Field[string]   `json:"priceRange"`
	AvatarURL   patch.Field[string]   `json:"avatarUrl"`
	Tags        patch.Field[[]string] `json:"tags"`
	ManualScore patch.Field[float64]  `json:"manualScore"`
}
