package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewLoggerWithWriter(WARNING, buf, false)

	l.Infof("enrolled %s", "id1")
	require.Empty(t, buf.String())

	l.Errorf("cannot enroll %s", "id2")
	require.Contains(t, buf.String(), "cannot enroll id2")
	require.Contains(t, buf.String(), "level=ERROR")
}

func TestLoggerSilence(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewLoggerWithWriter(SILENCE, buf, true)
	l.Errorf("hidden")
	require.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("debug"))
	require.Equal(t, WARNING, ParseLevel("WARN"))
	require.Equal(t, INFO, ParseLevel(""))
}
