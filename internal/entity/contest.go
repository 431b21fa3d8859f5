package entity

import "github.com/facepass-lab/backend/pkg/enum"

type ContestMode string

var (
	SingleWinner        = enum.New(ContestMode("single_winner"))
	OnePerUser          = enum.New(ContestMode("one_per_user"))
	UnlimitedRepeatable = enum.New(ContestMode("unlimited_repeatable"))
)

type Contest struct {
	Base

	Code          string `gorm:"uniqueIndex;size:64;not null"`
	Name          string
	Description   string
	PointsAwarded uint64
	Mode          ContestMode `gorm:"size:32;not null"`
	Active        bool
}
