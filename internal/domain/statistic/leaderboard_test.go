package statistic

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/pubsub"
	"github.com/facepass-lab/backend/pkg/testutil"
	"github.com/facepass-lab/backend/pkg/xredis"
	"github.com/stretchr/testify/require"
)

// newMemoryRedis keeps values in a map, enough for the version counter and
// the cached objects.
func newMemoryRedis() *testutil.MockRedisClient {
	values := map[string]string{}

	return &testutil.MockRedisClient{
		GetFunc: func(ctx context.Context, key string) (string, error) {
			v, ok := values[key]
			if !ok {
				return "", xredis.ErrNil
			}
			return v, nil
		},
		SetObjFunc: func(ctx context.Context, key string, obj any, ttl time.Duration) error {
			b, err := json.Marshal(obj)
			if err != nil {
				return err
			}
			values[key] = string(b)
			return nil
		},
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			s, ok := values[key]
			if !ok {
				return xredis.ErrNil
			}
			return json.Unmarshal([]byte(s), v)
		},
		IncrFunc: func(ctx context.Context, key string) (int64, error) {
			n, _ := strconv.ParseInt(values[key], 10, 64)
			n++
			values[key] = strconv.FormatInt(n, 10)
			return n, nil
		},
	}
}

func newLeaderboard(redisClient xredis.Client) *leaderboard {
	return New(
		repository.NewIdentityRepository(),
		repository.NewCompanionLinkRepository(),
		repository.NewParticipationRepository(),
		repository.NewTriviaResponseRepository(),
		redisClient,
	)
}

func Test_leaderboard_Get(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	identityRepo := repository.NewIdentityRepository()
	require.NoError(t, identityRepo.IncreasePoint(ctx, testutil.Identity3.ID, 10))

	resp, err := newLeaderboard(xredis.NewNoopClient()).Get(ctx, 10)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)
	require.Equal(t, testutil.Identity3.ID, resp.Entries[0].Identity.ID)
	require.True(t, resp.Entries[0].Identity.IsCompanion)
	require.Equal(t, testutil.Identity1.ID, resp.Entries[1].Identity.ID)
	require.Equal(t, testutil.Identity2.ID, resp.Entries[2].Identity.ID)
	for i, entry := range resp.Entries {
		require.Equal(t, i+1, entry.Rank)
	}
}

func Test_leaderboard_Cache(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	identityRepo := repository.NewIdentityRepository()
	board := newLeaderboard(newMemoryRedis())

	resp, err := board.Get(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, resp.Entries[0].Identity.ID)

	// Without invalidation the cached board is served.
	require.NoError(t, identityRepo.IncreasePoint(ctx, testutil.Identity2.ID, 100))
	resp, err = board.Get(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, resp.Entries[0].Identity.ID)
	require.Equal(t, uint64(0), resp.Statistic.TotalPoints)

	require.NoError(t, board.Invalidate(ctx))
	resp, err = board.Get(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity2.ID, resp.Entries[0].Identity.ID)
	require.Equal(t, uint64(100), resp.Entries[0].Identity.PointBalance)
	require.Equal(t, uint64(100), resp.Statistic.TotalPoints)

	// Each limit is cached on its own.
	resp, err = board.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
}

func Test_pointAwardedHandler_Subscribe(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	redisClient := newMemoryRedis()
	lb := newLeaderboard(redisClient)
	handler := NewPointAwardedHandler(lb)

	resp, err := lb.Get(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, resp.Entries[0].Identity.ID)

	identityRepo := repository.NewIdentityRepository()
	require.NoError(t, identityRepo.IncreasePoint(ctx, testutil.Identity2.ID, 100))

	// Broken messages leave the cache alone.
	handler.Subscribe(ctx, &pubsub.Pack{Msg: []byte("{")}, testutil.FixtureNow)
	resp, err = lb.Get(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, resp.Entries[0].Identity.ID)

	msg, err := json.Marshal(model.PointAwardedEvent{
		IdentityID: testutil.Identity2.ID,
		Source:     model.AwardSourceContest,
		SourceID:   testutil.ContestOnce.ID,
		Points:     100,
		NewBalance: 100,
	})
	require.NoError(t, err)

	handler.Subscribe(ctx, &pubsub.Pack{Key: []byte(testutil.Identity2.ID), Msg: msg}, testutil.FixtureNow)
	resp, err = lb.Get(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity2.ID, resp.Entries[0].Identity.ID)
}
