package models

import (
	"time"

	"github.com/google/uuid"
)

type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ManagerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Address     string    `gorm:"size:255;not null" json:"address"`
	PhoneNumber string    `gorm:"size:20;not null" json:"phone_number"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (r *Restaurant) OwnerPrincipalID() uuid.UUID {
	return r.ManagerID
}
