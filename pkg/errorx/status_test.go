package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(NotFound, "Not found contest %s", "QR01")
	require.Equal(t, "Not found contest QR01", err.Error())

	var errx Error
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &errx))
	require.Equal(t, NotFound, errx.Code)
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusNotFound, HTTPStatus(NotFound))
	require.Equal(t, http.StatusConflict, HTTPStatus(AlreadyHasCompanion))
	require.Equal(t, http.StatusServiceUnavailable, HTTPStatus(OracleUnavailable))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(Unknown.Code))
}
