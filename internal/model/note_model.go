package model

import (
	"time"
)

type Note struct {
	Id          int64     `gorm:"primaryKey;autoIncrement"`
	Text        string    `gorm:"type:varchar(255);not null"`
	SenderId    int64     `gorm:"not null;index"`
	Sender      *Person   `gorm:"foreignKey:SenderId;constraint:OnDelete:CASCADE"`
	RecipientId int64     `gorm:"not null;index"`
	Recipient   *Person   `gorm:"foreignKey:RecipientId;constraint:OnDelete:CASCADE"`
	Read        bool      `gorm:"not null;default:false"`
	Date        time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
