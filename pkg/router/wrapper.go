package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
)

// Room for base64 overhead and the other fields of a photo request.
const bodyOverhead = 64 * 1024

func wrapHandler[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, httpReq *http.Request) {
		ctx := httpReq.Context()
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		maxBody := r.cfg.File.MaxSize*4/3 + bodyOverhead
		httpReq.Body = http.MaxBytesReader(w, httpReq.Body, maxBody)
		ctx = xcontext.WithHTTPRequest(ctx, httpReq)

		ctx = handle(ctx, r, method, handler)
		writeResponse(ctx)

		for _, closer := range r.closers {
			closer(ctx)
		}
	}
}

// handle runs the middleware chains around handler and stores either the
// response or the error in the returned context.
func handle[Request, Response any](
	ctx context.Context, r *Router, method string, handler HandlerFunc[Request, Response],
) context.Context {
	for _, before := range r.befores {
		newCtx, err := before(ctx)
		if err != nil {
			return xcontext.WithError(ctx, err)
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	req, err := parseRequest[Request](ctx, method)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	resp, err := handler(ctx, req)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}
	ctx = xcontext.WithResponse(ctx, resp)

	for _, after := range r.afters {
		newCtx, err := after(ctx)
		if err != nil {
			return xcontext.WithError(ctx, err)
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx
}

func parseRequest[Request any](ctx context.Context, method string) (*Request, error) {
	req := new(Request)
	httpReq := xcontext.HTTPRequest(ctx)

	switch method {
	case http.MethodGet:
		if err := decodeValues(httpReq.URL.Query(), req); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid query: %v", err)
		}

	case http.MethodPost:
		contentType, _, _ := mime.ParseMediaType(httpReq.Header.Get("Content-Type"))
		if contentType == "multipart/form-data" {
			maxMemory := xcontext.Configs(ctx).File.MaxSize + bodyOverhead
			if err := httpReq.ParseMultipartForm(maxMemory); err != nil {
				return nil, bodyError(err)
			}

			if err := decodeValues(httpReq.MultipartForm.Value, req); err != nil {
				return nil, errorx.New(errorx.BadRequest, "Invalid form: %v", err)
			}

			return req, nil
		}

		if err := json.NewDecoder(httpReq.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return nil, bodyError(err)
		}

	default:
		return nil, errorx.New(errorx.BadRequest, "Unsupported method %s", method)
	}

	return req, nil
}

// decodeValues fills the json-tagged fields of v from query or form values.
func decodeValues(values url.Values, v any) error {
	m := map[string]any{}
	for key, value := range values {
		if len(value) > 0 {
			m[key] = value[0]
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(m)
}

func bodyError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return errorx.New(errorx.ImageTooLarge, "Request body is too large")
	}

	return errorx.New(errorx.BadRequest, "Invalid body: %v", err)
}
