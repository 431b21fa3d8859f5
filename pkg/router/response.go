package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return errorx.HTTPStatus(errx.Code), response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return http.StatusInternalServerError, response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func writeResponse(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)

	if err := xcontext.Error(ctx); err != nil {
		status, resp := newErrorResponse(err)
		if err := WriteJson(w, status, resp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
		return
	}

	if err := WriteJson(w, http.StatusOK, newResponse(xcontext.Response(ctx))); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
