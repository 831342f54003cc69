package models

import "time"

type Client struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:120;not null"`
	Email     string `gorm:"size:160;uniqueIndex;not null"`
	Phone     string `gorm:"size:30"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
