package models

import "time"

// ContactMessage is an inbound inquiry from the contact form. Append-only.
type ContactMessage struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string    `gorm:"size:255;not null"        json:"name"`
	Phone   string    `gorm:"size:64;not null"         json:"phone"`
	Message string    `gorm:"type:text;not null"       json:"message"`
	Date    time.Time `gorm:"not null;index"           json:"date"`
}

func (ContactMessage) TableName() string { return "messages" }
