package mocks

import (
	"fmt"

	"github.com/tallyhq/tally/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IDResults is a queue of results to return from ID
	IDResults []string
	idIndex   int

	// idCounter backs the fallback sequence when the ID queue is empty
	idCounter int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// ID returns the next queued result; with an empty queue it falls back to a
// deterministic prefixed sequence so ids stay unique within a test
func (r *MockRandom) ID(prefix string) string {
	if r.idIndex < len(r.IDResults) {
		result := r.IDResults[r.idIndex]
		r.idIndex++
		return result
	}
	r.idCounter++
	return fmt.Sprintf("%s%04d", prefix, r.idCounter)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.IDResults = append(r.IDResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IDResults = nil
	r.idIndex = 0
	r.idCounter = 0
}
