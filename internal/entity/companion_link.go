package entity

import "time"

type CompanionLink struct {
	Base

	PrincipalID string   `gorm:"uniqueIndex;size:36;not null"`
	Principal   Identity `gorm:"foreignKey:PrincipalID"`

	CompanionID string   `gorm:"uniqueIndex;size:36;not null"`
	Companion   Identity `gorm:"foreignKey:CompanionID"`

	LinkedAt time.Time
}
