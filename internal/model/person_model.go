package model

import (
	"time"

	"gorm.io/datatypes"
)

type Person struct {
	Id            int64                       `gorm:"primaryKey;autoIncrement"`
	Name          string                      `gorm:"type:varchar(100);not null"`
	Email         string                      `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash  string                      `gorm:"type:varchar(255);not null"`
	RoutePolicies datatypes.JSONSlice[string] `gorm:"not null"`
	Active        bool                        `gorm:"not null;default:true"`
	Picture       string                      `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"autoUpdateTime"`
}

func (Person) TableName() string {
	return "persons"
}
