package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreToken(t *testing.T) {
	store := NewCookieStore("facepass_session", 24*time.Hour, []byte("0123456789abcdef0123456789abcdef"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, store.Token(req))

	w := httptest.NewRecorder()
	require.NoError(t, store.SaveToken(req, w, "token-1"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "facepass_session", cookies[0].Name)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	require.Equal(t, "token-1", store.Token(next))
}
