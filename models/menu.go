package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Dates are calendar days in the 2006-01-02 layout.
type Menu struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RestaurantID uint        `gorm:"not null;uniqueIndex:idx_menu_restaurant_day,priority:1" json:"restaurant"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	Date         string      `gorm:"type:varchar(10);not null;index;uniqueIndex:idx_menu_restaurant_day,priority:2" json:"date"`
	Dishes       string      `gorm:"type:text;not null;default:''" json:"dishes"`
}

func (m *Menu) String() string {
	if m.Restaurant != nil {
		return fmt.Sprintf("%s menu for %s", m.Restaurant.Title, m.Date)
	}
	return fmt.Sprintf("menu %d for %s", m.ID, m.Date)
}

// A user votes at most once per day, whichever menu they pick.
type MenuVote struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	MenuID  uint      `gorm:"not null;index" json:"menu"`
	Menu    *Menu     `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE" json:"-"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_user_day,priority:1" json:"-"`
	VotedOn string    `gorm:"column:created_at;type:varchar(10);not null;uniqueIndex:idx_vote_user_day,priority:2" json:"created_at"`
}
