package specification

import (
	"gorm.io/gorm"
)

// WithParticipants preloads sender and recipient, reduced to id and name.
type WithParticipants struct{}

func (s WithParticipants) Apply(db *gorm.DB) *gorm.DB {
	reduced := func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name")
	}
	return db.Preload("Sender", reduced).Preload("Recipient", reduced)
}
