package domain

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/facepass-lab/backend/internal/domain/statistic"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/authenticator"
	"github.com/facepass-lab/backend/pkg/dateutil"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/recognition"
	"github.com/facepass-lab/backend/pkg/testutil"
	"github.com/facepass-lab/backend/pkg/xredis"
	"github.com/stretchr/testify/require"
)

type suite struct {
	Oracle    *testutil.MockOracle
	Storage   *testutil.MockStorage
	Publisher *testutil.MockPublisher

	IdentityRepo       repository.IdentityRepository
	CompanionLinkRepo  repository.CompanionLinkRepository
	ContestRepo        repository.ContestRepository
	ParticipationRepo  repository.ParticipationRepository
	TriviaRepo         repository.TriviaRepository
	TriviaResponseRepo repository.TriviaResponseRepository

	Session     *sessionDomain
	Leaderboard statistic.Leaderboard
}

func newSuite() *suite {
	s := &suite{
		Oracle:    testutil.NewFixtureOracle(),
		Storage:   testutil.NewMemoryStorage(),
		Publisher: &testutil.MockPublisher{},

		IdentityRepo:       repository.NewIdentityRepository(),
		CompanionLinkRepo:  repository.NewCompanionLinkRepository(),
		ContestRepo:        repository.NewContestRepository(),
		ParticipationRepo:  repository.NewParticipationRepository(),
		TriviaRepo:         repository.NewTriviaRepository(),
		TriviaResponseRepo: repository.NewTriviaResponseRepository(),
	}

	s.Session = NewSessionDomain(
		authenticator.NewTokenEngine[SessionClaims]("secret", 24*time.Hour),
		xredis.NewNoopClient(),
	)

	s.Leaderboard = statistic.New(
		s.IdentityRepo, s.CompanionLinkRepo, s.ParticipationRepo, s.TriviaResponseRepo,
		xredis.NewNoopClient(),
	)

	return s
}

func (s *suite) identityDomain(oracle recognition.Oracle) *identityDomain {
	if oracle == nil {
		oracle = s.Oracle
	}

	return NewIdentityDomain(
		s.IdentityRepo, s.CompanionLinkRepo, s.ParticipationRepo, s.TriviaResponseRepo,
		oracle, s.Storage, s.Session,
	)
}

func (s *suite) companionDomain() *companionDomain {
	return NewCompanionDomain(s.IdentityRepo, s.CompanionLinkRepo, s.Oracle, s.Storage, s.Session)
}

func (s *suite) contestDomain(identityRepo repository.IdentityRepository) *contestDomain {
	if identityRepo == nil {
		identityRepo = s.IdentityRepo
	}

	return NewContestDomain(
		s.ContestRepo, s.ParticipationRepo, identityRepo, s.CompanionLinkRepo,
		s.Oracle, s.Storage, s.Session, s.Leaderboard, s.Publisher,
		dateutil.NewFixedClock(testutil.FixtureNow),
	)
}

func (s *suite) triviaDomain(clock dateutil.Clock) *triviaDomain {
	return NewTriviaDomain(
		s.TriviaRepo, s.TriviaResponseRepo, s.IdentityRepo, s.CompanionLinkRepo,
		s.Session, s.Leaderboard, s.Publisher, clock,
	)
}

func (s *suite) rankingDomain() *rankingDomain {
	return NewRankingDomain(
		s.IdentityRepo, s.CompanionLinkRepo, s.ParticipationRepo, s.TriviaResponseRepo, s.Leaderboard)
}

func encodePhoto(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()

	var errx errorx.Error
	require.True(t, errors.As(err, &errx), "expected errorx.Error, got %v", err)
	require.Equal(t, code, errx.Code, errx.Message)
}
