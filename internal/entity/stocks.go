package entity

import (
	"time"

	"gorm.io/gorm"
)

// Stock is one symbol of the screening universe.
type Stock struct {
	ID        uint           `gorm:"primaryKey"`
	Symbol    string         `gorm:"uniqueIndex;not null"`
	Name      string         `gorm:"not null"`
	Exchange  string         `gorm:"size:32"`
	Sector    string         `gorm:"index"`
	Industry  string         `gorm:"index"`
	Active    bool           `gorm:"not null;default:true"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Stock) TableName() string {
	return "stocks"
}
