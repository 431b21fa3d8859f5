package model

import (
	"time"

	"github.com/facepass-lab/backend/internal/entity"
)

const DefaultTimeLayout = time.RFC3339Nano

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(DefaultTimeLayout)
}

func ConvertIdentity(identity *entity.Identity) Identity {
	if identity == nil {
		return Identity{}
	}

	return Identity{
		ID:           identity.ID,
		DisplayName:  identity.DisplayName,
		Email:        identity.Email.String,
		Phone:        identity.Phone.String,
		EmployeeCode: identity.EmployeeCode.String,
		PhotoURL:     identity.PhotoRef,
		ThumbnailURL: identity.ThumbnailRef,
		PointBalance: identity.PointBalance,
		IsCompanion:  identity.IsCompanion,
		EnrolledAt:   FormatTime(identity.EnrolledAt),
	}
}

func ConvertShortIdentity(identity *entity.Identity) ShortIdentity {
	if identity == nil {
		return ShortIdentity{}
	}

	return ShortIdentity{
		ID:           identity.ID,
		DisplayName:  identity.DisplayName,
		ThumbnailURL: identity.ThumbnailRef,
		PointBalance: identity.PointBalance,
		IsCompanion:  identity.IsCompanion,
	}
}

func ConvertContest(contest *entity.Contest) Contest {
	if contest == nil {
		return Contest{}
	}

	return Contest{
		ID:            contest.ID,
		Code:          contest.Code,
		Name:          contest.Name,
		Description:   contest.Description,
		PointsAwarded: contest.PointsAwarded,
		Mode:          string(contest.Mode),
		Active:        contest.Active,
	}
}

func ConvertParticipation(
	participation *entity.Participation, contest Contest, identity ShortIdentity,
) Participation {
	if participation == nil {
		return Participation{}
	}

	return Participation{
		ID:              participation.ID,
		Contest:         contest,
		Identity:        identity,
		PointsAwarded:   participation.PointsAwarded,
		MatchConfidence: participation.MatchConfidence,
		AwardedAt:       FormatTime(participation.AwardedAt),
		IsWinner:        participation.WinnerSlot.Valid,
	}
}

func ConvertTrivia(trivia *entity.Trivia) Trivia {
	if trivia == nil {
		return Trivia{}
	}

	return Trivia{
		ID:          trivia.ID,
		Name:        trivia.Name,
		WindowStart: FormatTime(trivia.WindowStart),
		WindowEnd:   FormatTime(trivia.WindowEnd),
		PointsMax:   trivia.PointsMax,
		PointsMin:   trivia.PointsMin,
		Active:      trivia.Active,
	}
}

// ConvertTriviaQuestion never exposes the correct label.
func ConvertTriviaQuestion(question *entity.TriviaQuestion) TriviaQuestion {
	if question == nil {
		return TriviaQuestion{}
	}

	return TriviaQuestion{
		ID:       question.ID,
		Position: question.Position,
		Text:     question.Text,
		Options: []TriviaOption{
			{Label: string(entity.AnswerA), Text: question.OptionA},
			{Label: string(entity.AnswerB), Text: question.OptionB},
			{Label: string(entity.AnswerC), Text: question.OptionC},
			{Label: string(entity.AnswerD), Text: question.OptionD},
		},
	}
}

func ConvertTriviaResponse(
	response *entity.TriviaResponse, trivia Trivia, identity ShortIdentity, question TriviaQuestion,
) TriviaResponse {
	if response == nil {
		return TriviaResponse{}
	}

	return TriviaResponse{
		ID:            response.ID,
		Trivia:        trivia,
		Identity:      identity,
		Question:      question,
		ChosenLabel:   string(response.ChosenLabel),
		IsCorrect:     response.IsCorrect,
		PointsAwarded: response.PointsAwarded,
		AnsweredAt:    FormatTime(response.AnsweredAt),
	}
}
