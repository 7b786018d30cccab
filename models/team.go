package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TeamRoleOwner  = "owner"
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
)

// Team represents a named group owning categories and prompts
type Team struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	CreatedBy   string `gorm:"type:uuid" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Members []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TeamMember grants a user visibility within a team. A user's visible
// teams are exactly the teams they hold a membership row for.
type TeamMember struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	TeamID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_team_members_team_user" json:"team_id"`
	UserID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_team_members_team_user" json:"user_id"`

	Role string `gorm:"default:'member'" json:"role"` // owner, admin, member

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Team Team `gorm:"constraint:OnDelete:CASCADE" json:"team,omitempty"`
	User User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (tm *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if tm.ID == "" {
		tm.ID = uuid.NewString()
	}
	return nil
}

// CanManageTeam reports whether the membership role allows team-level
// management such as deleting the team or its members.
func (tm *TeamMember) CanManageTeam() bool {
	return tm.Role == TeamRoleOwner || tm.Role == TeamRoleAdmin
}
