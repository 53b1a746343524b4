package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/tallyhq/tally/internal/dependencies/mocks"
	"github.com/tallyhq/tally/internal/storage/memory"
	"github.com/tallyhq/tally/internal/sync"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, sync.NewHub(logger), mockClock, mockRandom, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
