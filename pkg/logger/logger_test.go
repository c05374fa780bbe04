package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReturnsUsableLogger(t *testing.T) {
	log := New("ignite-test")
	require.NotNil(t, log)

	// Must not panic; "service" should be attached to every line via With.
	log.Infow("smoke test line", "key", "value")
}

func TestNewBuildsLoggerPerService(t *testing.T) {
	a := New("service-a")
	b := New("service-b")
	require.NotNil(t, a)
	require.NotNil(t, b)
}
