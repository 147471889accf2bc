package portfolio

import (
	"time"

	"github.com/nisaaulia/site-server/pkg/partner"
	"github.com/nisaaulia/site-server/pkg/patch"
)

// Portfolio is a published project/collaboration record. PartnerID is
// nullable: entries imported before partner tracking existed carry no owner.
type Portfolio struct {
	ID          string                  `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Title       string                  `gorm:"column:title;not null" json:"title"`
	Slug        string                  `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Summary     string                  `gorm:"column:summary" json:"summary"`
	Images      partner.JSONStringSlice `gorm:"column:images;type:text" json:"images"`
	Tags        partner.JSONStringSlice `gorm:"column:tags;type:text" json:"tags"`
	Categories  partner.JSONStringSlice `gorm:"column:categories;type:text" json:"categories"`
	Brands      partner.JSONStringSlice `gorm:"column:brands;type:text" json:"brands"`
	Featured    bool                    `gorm:"column:featured;default:false;not null" json:"featured"`
	Order       int                     `gorm:"column:display_order;default:0;not null" json:"order"`
	PublishedAt *time.Time              `gorm:"column:published_at" json:"publishedAt"`
	PartnerID   *string                 `gorm:"column:partner_id;type:varchar(36);index" json:"partnerId"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Portfolio) TableName() string { return "portfolios" }

// Patch is a partial update for a Portfolio. Absent fields leave the stored
// value unchanged. PartnerID accepts an explicit null to detach the entry
// from its owner; a present non-null value transfers it.
type Patch struct {
	Title       patch.Field[string]     `json:"title"`
	Slug        patch.Field[string]     `json:"slug"`
	Summary     patch.Field[string]     `json:"summary"`
	Images      patch.Field[[]string]   `json:"images"`
	Tags        patch.Field[[]string]   `json:"tags"`
	Categories  patch.Field[[]string]   `json:"categories"`
	Brands      patch.Field[[]string]   `json:"brands"`
	Featured    patch.Field[bool]       `json:"featured"`
	Order       patch.Field[int]        `json:"order"`
	PublishedAt patch.Field[*time.Time] `json:"publishedAt"`
	PartnerID   patch.Field[*string]    `json:"partnerId"`
}
