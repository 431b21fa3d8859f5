package entity

import (
	"database/sql"
	"time"
)

type Participation struct {
	Base

	IdentityID string   `gorm:"uniqueIndex:idx_participation_identity_contest;size:36;not null"`
	Identity   Identity `gorm:"foreignKey:IdentityID"`

	ContestID string  `gorm:"uniqueIndex:idx_participation_identity_contest;size:36;not null;index"`
	Contest   Contest `gorm:"foreignKey:ContestID"`

	PointsAwarded   uint64
	MatchConfidence float64
	AwardedAt       time.Time `gorm:"index"`

	// WinnerSlot holds the contest id for single-winner rows, so at most one
	// winning row can exist per contest.
	WinnerSlot sql.NullString `gorm:"uniqueIndex;size:36"`
}
