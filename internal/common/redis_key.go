package common

import "fmt"

// RedisKeyLeaderboard includes the cache version, so bumping the version
// makes the cached leaderboards of every limit stale at once.
func RedisKeyLeaderboard(version string, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d", version, limit)
}

func RedisKeyLeaderboardVersion() string {
	return "leaderboard:version"
}

func RedisKeySession(tokenID string) string {
	return fmt.Sprintf("session:%s", tokenID)
}
