package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/router"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)
		if start := xcontext.StartTime(ctx); !start.IsZero() {
			info = fmt.Sprintf("%s | %s", info, time.Since(start))
		}

		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d | %v", info, -1, err)
			}
		} else {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
