package models

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

type Lead struct {
	ID        uint       `gorm:"primaryKey"`
	Name      string     `gorm:"size:160;not null"`
	Email     string     `gorm:"size:160"`
	Phone     string     `gorm:"size:30"`
	Status    LeadStatus `gorm:"type:varchar(20);not null;index;default:new"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeadActivityType string

const (
	LeadActivityCall    LeadActivityType = "call"
	LeadActivityMeeting LeadActivityType = "meeting"
	LeadActivityEmail   LeadActivityType = "email"
)

// LeadActivity - one contact with a lead. Deleted together with the lead.
type LeadActivity struct {
	ID        uint             `gorm:"primaryKey"`
	LeadID    uint             `gorm:"index;not null"`
	Lead      Lead             `gorm:"foreignKey:LeadID"`
	Type      LeadActivityType `gorm:"type:varchar(20);not null"`
	Notes     string           `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
