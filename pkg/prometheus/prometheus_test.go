package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	common.PromCounters[common.PointsAwardedTotal].WithLabelValues("contest").Add(100)

	families, err := NewRegistry("test").Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, family := range families {
		names[family.GetName()] = true
	}

	require.True(t, names["build_info"])
	require.True(t, names["go_goroutines"])
	require.True(t, names[common.PointsAwardedTotal])
}

func TestNewHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	NewHandler("local").ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, strings.Contains(recorder.Body.String(), `build_info{env="local"} 1`))
}
