package zone

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies the indexer/lexer pipeline leaves no goroutines
// running after a parse completes or aborts — the dispatch selector and
// $INCLUDE handling are the two places a leaked goroutine would most
// plausibly hide.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
