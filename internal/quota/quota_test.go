package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAdmitsAtBoundary(t *testing.T) {
	d := Check(4700, 300, 5000)
	assert.True(t, d.Admitted)
	assert.Zero(t, d.Deficit)
}

func TestCheckRejectsWithDeficit(t *testing.T) {
	// Anonymous counter at 4800 of 5000, candidate 300 words.
	d := Check(4800, 300, 5000)
	assert.False(t, d.Admitted)
	assert.Equal(t, 100, d.Deficit)
}

func TestCheckZeroCandidate(t *testing.T) {
	assert.True(t, Check(5000, 0, 5000).Admitted)
	assert.False(t, Check(5001, 0, 5000).Admitted)
}

// Admitting then re-checking with the updated usage is equivalent to a single
// check with the combined candidate.
func TestCheckMonotonic(t *testing.T) {
	const limit = 5000
	for _, tc := range []struct{ u, w, w2 int }{
		{0, 1000, 2000},
		{3000, 1000, 1000},
		{3000, 1000, 1001},
		{4999, 1, 1},
	} {
		first := Check(tc.u, tc.w, limit)
		if !first.Admitted {
			continue
		}
		second := Check(tc.u+tc.w, tc.w2, limit)
		combined := Check(tc.u, tc.w+tc.w2, limit)
		assert.Equal(t, combined.Admitted, second.Admitted, "u=%d w=%d w2=%d", tc.u, tc.w, tc.w2)
		assert.Equal(t, combined.Deficit, second.Deficit, "u=%d w=%d w2=%d", tc.u, tc.w, tc.w2)
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t "))
	assert.Equal(t, 5, CountWords("these terms govern your use"))
	assert.Equal(t, 3, CountWords("  spaced\tout\nwords  "))
}
