package testutil

import (
	"testing"

	"github.com/nhle/faqchat/internal/history"
)

// NewTestHistory creates an in-memory transcript store with all
// migrations applied. It automatically closes the store when the test
// completes.
func NewTestHistory(t *testing.T) *history.Store {
	t.Helper()

	s, err := history.Open(":memory:")
	if err != nil {
		t.Fatalf("creating test history store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test history store: %v", err)
		}
	})

	return s
}
