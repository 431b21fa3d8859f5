package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/internal/repository"
)

// FixtureNow is the instant in the middle of the window of TriviaActive.
var FixtureNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var (
	// Identity1 is a principal whose companion is Identity3.
	Identity1 = &entity.Identity{
		Base:         entity.Base{ID: "identity1"},
		BiometricRef: "face1",
		DisplayName:  "Alice",
		Email:        sql.NullString{String: "alice@example.com", Valid: true},
		EmployeeCode: sql.NullString{String: "EMP001", Valid: true},
		EnrolledAt:   FixtureNow.Add(-48 * time.Hour),
	}

	Identity2 = &entity.Identity{
		Base:         entity.Base{ID: "identity2"},
		BiometricRef: "face2",
		DisplayName:  "Bob",
		Email:        sql.NullString{String: "bob@example.com", Valid: true},
		EnrolledAt:   FixtureNow.Add(-24 * time.Hour),
	}

	Identity3 = &entity.Identity{
		Base:         entity.Base{ID: "identity3"},
		BiometricRef: "face3",
		DisplayName:  "Carol",
		IsCompanion:  true,
		EnrolledAt:   FixtureNow.Add(-24 * time.Hour),
	}

	Identities = []*entity.Identity{Identity1, Identity2, Identity3}
)

var CompanionLink1 = &entity.CompanionLink{
	Base:        entity.Base{ID: "link1"},
	PrincipalID: Identity1.ID,
	CompanionID: Identity3.ID,
	LinkedAt:    FixtureNow.Add(-24 * time.Hour),
}

var (
	ContestSingle = &entity.Contest{
		Base:          entity.Base{ID: "contest_single"},
		Code:          "SINGLE",
		Name:          "First come",
		PointsAwarded: 100,
		Mode:          entity.SingleWinner,
		Active:        true,
	}

	ContestOnce = &entity.Contest{
		Base:          entity.Base{ID: "contest_once"},
		Code:          "ONCE",
		Name:          "Booth visit",
		PointsAwarded: 100,
		Mode:          entity.OnePerUser,
		Active:        true,
	}

	ContestUnlimited = &entity.Contest{
		Base:          entity.Base{ID: "contest_unlimited"},
		Code:          "REPEAT",
		Name:          "Coffee corner",
		PointsAwarded: 10,
		Mode:          entity.UnlimitedRepeatable,
		Active:        true,
	}

	ContestInactive = &entity.Contest{
		Base:          entity.Base{ID: "contest_inactive"},
		Code:          "CLOSED",
		Name:          "Yesterday",
		PointsAwarded: 100,
		Mode:          entity.OnePerUser,
		Active:        false,
	}

	Contests = []*entity.Contest{ContestSingle, ContestOnce, ContestUnlimited, ContestInactive}
)

var (
	TriviaActive = &entity.Trivia{
		Base:        entity.Base{ID: "trivia_active"},
		Name:        "Morning quiz",
		WindowStart: FixtureNow.Add(-300 * time.Second),
		WindowEnd:   FixtureNow.Add(300 * time.Second),
		PointsMax:   300,
		PointsMin:   50,
		Active:      true,
	}

	TriviaUpcoming = &entity.Trivia{
		Base:        entity.Base{ID: "trivia_upcoming"},
		Name:        "Afternoon quiz",
		WindowStart: FixtureNow.Add(time.Hour),
		WindowEnd:   FixtureNow.Add(2 * time.Hour),
		PointsMax:   200,
		PointsMin:   20,
		Active:      true,
	}

	TriviaDisabled = &entity.Trivia{
		Base:        entity.Base{ID: "trivia_disabled"},
		Name:        "Cancelled quiz",
		WindowStart: FixtureNow.Add(-time.Hour),
		WindowEnd:   FixtureNow.Add(time.Hour),
		PointsMax:   100,
		PointsMin:   10,
		Active:      false,
	}

	Trivias = []*entity.Trivia{TriviaActive, TriviaUpcoming, TriviaDisabled}
)

var (
	Question1 = entity.TriviaQuestion{
		Base:         entity.Base{ID: "question1"},
		TriviaID:     TriviaActive.ID,
		Position:     1,
		Text:         "Which planet is known as the red planet?",
		OptionA:      "Venus",
		OptionB:      "Mars",
		OptionC:      "Jupiter",
		OptionD:      "Saturn",
		CorrectLabel: entity.AnswerB,
	}

	Question2 = entity.TriviaQuestion{
		Base:         entity.Base{ID: "question2"},
		TriviaID:     TriviaActive.ID,
		Position:     2,
		Text:         "How many sides does a hexagon have?",
		OptionA:      "Four",
		OptionB:      "Five",
		OptionC:      "Eight",
		OptionD:      "Six",
		CorrectLabel: entity.AnswerD,
	}

	Question3 = entity.TriviaQuestion{
		Base:         entity.Base{ID: "question3"},
		TriviaID:     TriviaUpcoming.ID,
		Position:     1,
		Text:         "What is the boiling point of water at sea level?",
		OptionA:      "100 C",
		OptionB:      "90 C",
		OptionC:      "80 C",
		OptionD:      "120 C",
		CorrectLabel: entity.AnswerA,
	}
)

// CreateFixtureDb fills the database of ctx with the fixtures above.
func CreateFixtureDb(ctx context.Context) {
	InsertIdentities(ctx)
	InsertCompanionLinks(ctx)
	InsertContests(ctx)
	InsertTrivias(ctx)
}

func InsertIdentities(ctx context.Context) {
	identityRepo := repository.NewIdentityRepository()
	for _, identity := range Identities {
		// Copy so that tests mutating the result never touch the fixture.
		row := *identity
		if err := identityRepo.Create(ctx, &row); err != nil {
			panic(err)
		}
	}
}

func InsertCompanionLinks(ctx context.Context) {
	link := *CompanionLink1
	if err := repository.NewCompanionLinkRepository().Create(ctx, &link); err != nil {
		panic(err)
	}
}

func InsertContests(ctx context.Context) {
	contestRepo := repository.NewContestRepository()
	for _, contest := range Contests {
		row := *contest
		if err := contestRepo.Create(ctx, &row); err != nil {
			panic(err)
		}
	}
}

func InsertTrivias(ctx context.Context) {
	triviaRepo := repository.NewTriviaRepository()
	for _, trivia := range Trivias {
		row := *trivia
		if err := triviaRepo.Create(ctx, &row); err != nil {
			panic(err)
		}
	}

	err := triviaRepo.CreateQuestions(ctx, []entity.TriviaQuestion{Question1, Question2, Question3})
	if err != nil {
		panic(err)
	}
}

// SamplePhoto returns a tiny png. Different seeds give different bytes.
func SamplePhoto(seed uint8) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: seed, G: uint8(x * 16), B: uint8(y * 16), A: 255})
		}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		panic(err)
	}

	return buf.Bytes()
}

// NewFixtureOracle returns an oracle that recognizes SamplePhoto(1),
// SamplePhoto(2) and SamplePhoto(3) as Identity1, Identity2 and Identity3.
func NewFixtureOracle() *MockOracle {
	oracle := NewMockOracle()
	for i, identity := range Identities {
		oracle.Register(SamplePhoto(uint8(i+1)), identity.BiometricRef)
	}

	return oracle
}
