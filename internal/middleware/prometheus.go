package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/router"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)

		status := http.StatusOK
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				status = errorx.HTTPStatus(errx.Code)
			} else {
				status = http.StatusInternalServerError
			}
		}
		statusCode := strconv.Itoa(status)

		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(req.Method, statusCode).Inc()

		startTime := xcontext.StartTime(ctx)
		if startTime.IsZero() {
			return
		}

		common.PromHistograms[common.HTTPRequestDurationSeconds].
			WithLabelValues(req.Method, statusCode).Observe(time.Since(startTime).Seconds())
	}
}
