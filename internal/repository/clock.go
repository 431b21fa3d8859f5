package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facepass-lab/backend/pkg/xcontext"
)

var dbTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
}

// dbClock reads the current time from the database server, so every request
// agrees on one clock regardless of which process serves it.
type dbClock struct{}

func NewDBClock() *dbClock {
	return &dbClock{}
}

func (c *dbClock) Now(ctx context.Context) (time.Time, error) {
	db := xcontext.DB(ctx)

	var query string
	switch db.Dialector.Name() {
	case "mysql":
		query = "SELECT DATE_FORMAT(UTC_TIMESTAMP(6), '%Y-%m-%d %H:%i:%s.%f')"
	case "sqlite":
		query = "SELECT strftime('%Y-%m-%d %H:%M:%f', 'now')"
	default:
		return time.Time{}, fmt.Errorf("unsupported dialect %s", db.Dialector.Name())
	}

	var raw string
	if err := db.Raw(query).Row().Scan(&raw); err != nil {
		return time.Time{}, err
	}

	raw = strings.TrimSpace(raw)
	for _, layout := range dbTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse database time %q", raw)
}
