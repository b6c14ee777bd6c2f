package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DigestStatusSent    = "sent"
	DigestStatusFailed  = "failed"
	DigestStatusSkipped = "skipped"
)

// DigestLog records the daily winner announcement, one row per day.
type DigestLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date         string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	MenuID       *uint
	RestaurantID *uint
	Votes        int
	Channel      string `gorm:"type:varchar(20)"` // sms, none
	Status       string `gorm:"type:varchar(20)"`
	ErrorMessage string `gorm:"type:text"`
	SentAt       time.Time
}

func (d *DigestLog) BeforeCreate(tx *gorm.DB) (err error) {
	d.ID = uuid.New()
	return
}
