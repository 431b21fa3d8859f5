package domain

import (
	"context"
	"errors"
	"time"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	historyTypeContest = "contest"
	historyTypeTrivia  = "trivia"
)

type history struct {
	Entries   []model.HistoryEntry
	Summary   model.HistorySummary
	Companion *entity.Identity
	Principal *entity.Identity
}

type historyEntry struct {
	entry model.HistoryEntry
	at    time.Time
}

// historyBuilder merges the activity of an identity with the activity of its
// companion, if it has one.
type historyBuilder struct {
	identityRepo       repository.IdentityRepository
	companionLinkRepo  repository.CompanionLinkRepository
	participationRepo  repository.ParticipationRepository
	triviaResponseRepo repository.TriviaResponseRepository
}

func newHistoryBuilder(
	identityRepo repository.IdentityRepository,
	companionLinkRepo repository.CompanionLinkRepository,
	participationRepo repository.ParticipationRepository,
	triviaResponseRepo repository.TriviaResponseRepository,
) *historyBuilder {
	return &historyBuilder{
		identityRepo:       identityRepo,
		companionLinkRepo:  companionLinkRepo,
		participationRepo:  participationRepo,
		triviaResponseRepo: triviaResponseRepo,
	}
}

func (b *historyBuilder) build(ctx context.Context, identity *entity.Identity) (*history, error) {
	result := &history{}
	participants := map[string]*entity.Identity{identity.ID: identity}

	if identity.IsCompanion {
		link, err := b.companionLinkRepo.GetByCompanionID(ctx, identity.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get companion link: %v", err)
			return nil, errorx.Unknown
		}

		if err == nil {
			principal, err := b.identityRepo.GetByID(ctx, link.PrincipalID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get principal: %v", err)
				return nil, errorx.Unknown
			}
			result.Principal = principal
		}
	} else {
		links, err := b.companionLinkRepo.GetByPrincipalIDs(ctx, []string{identity.ID})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get companion links: %v", err)
			return nil, errorx.Unknown
		}

		if len(links) > 0 {
			companion := links[0].Companion
			result.Companion = &companion
			participants[companion.ID] = &companion
		}
	}

	ids := []string{identity.ID}
	if result.Companion != nil {
		ids = append(ids, result.Companion.ID)
	}

	participations, err := b.participationRepo.GetByIdentityIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participations: %v", err)
		return nil, errorx.Unknown
	}

	responses, err := b.triviaResponseRepo.GetByIdentityIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get trivia responses: %v", err)
		return nil, errorx.Unknown
	}

	entries := []historyEntry{}
	summary := model.HistorySummary{PointBalance: identity.PointBalance}
	for _, p := range participations {
		participant := participants[p.IdentityID]
		entries = append(entries, historyEntry{
			at: p.AwardedAt,
			entry: model.HistoryEntry{
				Type:            historyTypeContest,
				ID:              p.ID,
				Title:           p.Contest.Name,
				PointsAwarded:   p.PointsAwarded,
				ParticipantID:   participant.ID,
				ParticipantName: participant.DisplayName,
				IsCompanion:     participant.ID != identity.ID,
				MatchConfidence: p.MatchConfidence,
				At:              model.FormatTime(p.AwardedAt),
			},
		})

		if participant.ID == identity.ID {
			summary.ContestPoints += p.PointsAwarded
			summary.TotalContests++
		} else {
			summary.CompanionPoints += p.PointsAwarded
			summary.CompanionActivity++
		}
	}

	for _, r := range responses {
		participant := participants[r.IdentityID]
		entries = append(entries, historyEntry{
			at: r.AnsweredAt,
			entry: model.HistoryEntry{
				Type:            historyTypeTrivia,
				ID:              r.ID,
				Title:           r.Trivia.Name,
				PointsAwarded:   r.PointsAwarded,
				ParticipantID:   participant.ID,
				ParticipantName: participant.DisplayName,
				IsCompanion:     participant.ID != identity.ID,
				IsCorrect:       r.IsCorrect,
				At:              model.FormatTime(r.AnsweredAt),
			},
		})

		if participant.ID == identity.ID {
			summary.TriviaPoints += r.PointsAwarded
			summary.TotalTrivia++
		} else {
			summary.CompanionPoints += r.PointsAwarded
			summary.CompanionActivity++
		}
	}

	// Newest first.
	slices.SortStableFunc(entries, func(a, b historyEntry) bool {
		return a.at.After(b.at)
	})

	result.Entries = []model.HistoryEntry{}
	for _, e := range entries {
		result.Entries = append(result.Entries, e.entry)
	}

	summary.TotalParticipation = len(result.Entries)
	result.Summary = summary

	return result, nil
}
