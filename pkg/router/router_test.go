package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/facepass-lab/backend/config"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/logger"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

type echoResponse struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Name is required")
	}

	return &echoResponse{Name: req.Name, Limit: req.Limit}, nil
}

func newTestRouter() *Router {
	return New(nil, config.Default(), logger.NewLogger(logger.SILENCE))
}

func serve(t *testing.T, r *Router, req *http.Request) (int, envelope) {
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestRouter_GET(t *testing.T) {
	r := newTestRouter()
	GET(r, "/echo", echo)

	status, resp := serve(t, r, httptest.NewRequest(http.MethodGet, "/echo?name=alice&limit=10", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, echoResponse{Name: "alice", Limit: 10}, resp.Data)

	status, resp = serve(t, r, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
	require.Equal(t, "Name is required", resp.Error)

	status, resp = serve(t, r, httptest.NewRequest(http.MethodGet, "/echo?name=a&limit=ten", nil))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
}

func TestRouter_POST(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", echo)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"bob","limit":3}`))
	req.Header.Set("Content-Type", "application/json")
	status, resp := serve(t, r, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, echoResponse{Name: "bob", Limit: 3}, resp.Data)

	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":`))
	status, resp = serve(t, r, req)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
}

func TestRouter_Multipart(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", echo)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("name", "carol"))
	require.NoError(t, writer.WriteField("limit", "7"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/echo", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	status, resp := serve(t, r, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, echoResponse{Name: "carol", Limit: 7}, resp.Data)
}

func TestRouter_BodyTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.File.MaxSize = 1024
	r := New(nil, cfg, logger.NewLogger(logger.SILENCE))
	POST(r, "/echo", echo)

	large := `{"name":"` + strings.Repeat("a", 2*bodyOverhead) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(large))
	status, resp := serve(t, r, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, status)
	require.Equal(t, int64(errorx.ImageTooLarge), resp.Code)
}

func TestRouter_Middlewares(t *testing.T) {
	type key struct{}

	r := newTestRouter()
	var closed []string

	r.Before(func(ctx context.Context) (context.Context, error) {
		return context.WithValue(ctx, key{}, "before"), nil
	})
	r.AddCloser(func(ctx context.Context) {
		closed = append(closed, xcontext.HTTPRequest(ctx).URL.Path)
	})

	guarded := r.Branch()
	guarded.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.PermissionDenied, "Denied")
	})

	GET(r, "/open", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		name, _ := ctx.Value(key{}).(string)
		return &echoResponse{Name: name}, nil
	})
	GET(guarded, "/guarded", echo)

	status, resp := serve(t, r, httptest.NewRequest(http.MethodGet, "/open", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "before", resp.Data.Name)

	status, resp = serve(t, r, httptest.NewRequest(http.MethodGet, "/guarded?name=x", nil))
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, int64(errorx.PermissionDenied), resp.Code)

	require.Equal(t, []string{"/open", "/guarded"}, closed)
}

func TestRouter_UnknownError(t *testing.T) {
	r := newTestRouter()
	GET(r, "/fail", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, context.DeadlineExceeded
	})

	status, resp := serve(t, r, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, int64(errorx.Unknown.Code), resp.Code)
	require.Equal(t, errorx.Unknown.Message, resp.Error)
}
