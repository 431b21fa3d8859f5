package statistic

import (
	"context"
	"encoding/json"
	"time"

	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/pkg/pubsub"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

type PointAwardedHandler interface {
	Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time)
}

type pointAwardedHandler struct {
	leaderboard Leaderboard
}

// NewPointAwardedHandler drops the cached leaderboards whenever an award
// event arrives, so that readers in every process see the new balance.
func NewPointAwardedHandler(leaderboard Leaderboard) *pointAwardedHandler {
	return &pointAwardedHandler{leaderboard: leaderboard}
}

func (h *pointAwardedHandler) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.PointAwardedEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Unable to unmarshal award event: %v", err)
		return
	}

	if err := h.leaderboard.Invalidate(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot invalidate leaderboard: %v", err)
		return
	}

	xcontext.Logger(ctx).Debugf("Leaderboard invalidated by %s %s for %s (+%d) sent at %s",
		event.Source, event.SourceID, event.IdentityID, event.Points, t.UTC().Format(time.RFC3339))
}
