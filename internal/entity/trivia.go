package entity

import (
	"time"

	"github.com/facepass-lab/backend/pkg/enum"
)

type AnswerLabel string

var (
	AnswerA = enum.New(AnswerLabel("A"))
	AnswerB = enum.New(AnswerLabel("B"))
	AnswerC = enum.New(AnswerLabel("C"))
	AnswerD = enum.New(AnswerLabel("D"))
)

type Trivia struct {
	Base

	Name        string
	WindowStart time.Time `gorm:"index"`
	WindowEnd   time.Time
	PointsMax   uint64
	PointsMin   uint64
	Active      bool
}

type TriviaQuestion struct {
	Base

	TriviaID string `gorm:"index;size:36;not null"`
	Trivia   Trivia `gorm:"foreignKey:TriviaID"`

	Position     int
	Text         string
	OptionA      string
	OptionB      string
	OptionC      string
	OptionD      string
	CorrectLabel AnswerLabel `gorm:"size:1"`
}

type TriviaResponse struct {
	Base

	IdentityID string   `gorm:"uniqueIndex:idx_trivia_response_identity_trivia;size:36;not null"`
	Identity   Identity `gorm:"foreignKey:IdentityID"`

	TriviaID string `gorm:"uniqueIndex:idx_trivia_response_identity_trivia;size:36;not null;index"`
	Trivia   Trivia `gorm:"foreignKey:TriviaID"`

	QuestionID    string         `gorm:"size:36"`
	Question      TriviaQuestion `gorm:"foreignKey:QuestionID"`
	ChosenLabel   AnswerLabel    `gorm:"size:1"`
	IsCorrect     bool
	PointsAwarded uint64
	AnsweredAt    time.Time `gorm:"index"`
}
