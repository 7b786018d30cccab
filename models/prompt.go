package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a team-scoped label used to group prompts. Global
// categories keep their team binding; the flag only marks them as
// visible across teams.
type Category struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	TeamID    string `gorm:"type:uuid;not null;index" json:"team_id"`
	IsGlobal  bool   `gorm:"default:false" json:"is_global"`
	CreatedBy string `gorm:"type:uuid" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Team Team `gorm:"constraint:OnDelete:CASCADE" json:"team,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Prompt is a stored text artifact belonging to one team and one
// category of that team.
type Prompt struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Content     string `gorm:"type:text;not null" json:"content"`
	CategoryID  string `gorm:"type:uuid;not null;index" json:"category_id"`
	TeamID      string `gorm:"type:uuid;not null;index" json:"team_id"`
	CreatedBy   string `gorm:"type:uuid" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Category Category `gorm:"constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Team     Team     `gorm:"constraint:OnDelete:CASCADE" json:"team,omitempty"`
}

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
