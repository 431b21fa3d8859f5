package entity

import (
	"database/sql"
	"time"
)

type Identity struct {
	Base

	// BiometricRef is the face id assigned by the recognition oracle.
	BiometricRef string `gorm:"uniqueIndex;size:64;not null"`

	DisplayName  string         `gorm:"not null"`
	Email        sql.NullString `gorm:"uniqueIndex;size:255"`
	Phone        sql.NullString
	EmployeeCode sql.NullString `gorm:"uniqueIndex;size:64"`
	PhotoRef     string
	ThumbnailRef string

	// PointBalance only changes through IdentityRepository.IncreasePoint.
	PointBalance uint64 `gorm:"not null;default:0;index"`
	IsCompanion  bool
	EnrolledAt   time.Time `gorm:"index"`
}
