package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// NaturalPerson - individual person record (pessoa física).
type NaturalPerson struct {
	ID         uint   `gorm:"primaryKey"`
	CPF        string `gorm:"size:14;uniqueIndex;not null"`
	Name       string `gorm:"size:160;not null"`
	Address    string `gorm:"size:160;not null"`
	Complement string `gorm:"size:120"`
	District   string `gorm:"size:120;not null"`
	ZipCode    string `gorm:"size:10;not null"`
	City       string `gorm:"size:120;not null"`
	State      string `gorm:"size:2;not null"`
	Mobile     string `gorm:"size:15"`
	Whatsapp   string `gorm:"size:15"`
	Email      string `gorm:"size:160;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Names and addresses are stored uppercase, emails lowercase.
func (p *NaturalPerson) BeforeSave(tx *gorm.DB) error {
	p.Name = strings.ToUpper(p.Name)
	p.Address = strings.ToUpper(p.Address)
	p.Complement = strings.ToUpper(p.Complement)
	p.District = strings.ToUpper(p.District)
	p.City = strings.ToUpper(p.City)
	p.State = strings.ToUpper(p.State)
	p.Email = strings.ToLower(p.Email)
	return nil
}

// LegalEntity - company record (pessoa jurídica).
type LegalEntity struct {
	ID             uint   `gorm:"primaryKey"`
	CNPJ           string `gorm:"size:18;uniqueIndex;not null"`
	LegalName      string `gorm:"size:180;not null"`
	TradeName      string `gorm:"size:180"`
	Address        string `gorm:"size:160;not null"`
	Complement     string `gorm:"size:120"`
	District       string `gorm:"size:120;not null"`
	ZipCode        string `gorm:"size:10;not null"`
	City           string `gorm:"size:120;not null"`
	State          string `gorm:"size:2;not null"`
	Phone          string `gorm:"size:15"`
	Email          string `gorm:"size:160;not null"`
	Representative string `gorm:"size:160"`
	Mobile         string `gorm:"size:15"`
	Whatsapp       string `gorm:"size:15"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e *LegalEntity) BeforeSave(tx *gorm.DB) error {
	e.LegalName = strings.ToUpper(e.LegalName)
	e.TradeName = strings.ToUpper(e.TradeName)
	e.Address = strings.ToUpper(e.Address)
	e.Complement = strings.ToUpper(e.Complement)
	e.District = strings.ToUpper(e.District)
	e.City = strings.ToUpper(e.City)
	e.State = strings.ToUpper(e.State)
	e.Representative = strings.ToUpper(e.Representative)
	e.Email = strings.ToLower(e.Email)
	return nil
}
