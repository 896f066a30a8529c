package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/cashtimer/ledger"
)

func TestSummarize(t *testing.T) {
	f := newFixture(at(9, 0))

	sess := runFullCycle(t, f)

	s := ledger.Summarize(sess, at(23, 0))

	assert.Equal(t, sess.ID, s.ID)
	assert.Equal(t, at(9, 0), s.StartTime)
	assert.Equal(t, at(10, 45), s.EndTime)
	assert.Equal(t, 105*time.Minute, s.Total)
	assert.Equal(t, 15*time.Minute, s.Break)
	assert.Equal(t, 90*time.Minute, s.Active)
	assert.Equal(t, 1, s.Pauses)
	assert.Equal(t, "90.00", s.Earnings.StringFixed(2))
}
