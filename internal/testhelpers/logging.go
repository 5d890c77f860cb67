package testhelpers

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger routes the global logger through the test's output for the
// duration of the test, so log lines land next to the failures they explain.
func SetupLogger(t *testing.T) {
	t.Helper()

	previous := log.Logger
	log.Logger = zerolog.New(zerolog.NewTestWriter(t))
	t.Cleanup(func() {
		log.Logger = previous
	})
}
