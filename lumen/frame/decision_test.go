package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeIdempotent(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		d    Decision
	}{
		{"wait", Decision{Kind: Wait}},
		{"immediately", Decision{Kind: Immediately}},
		{"deadline", DeadlineAt(now)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.d, Merge(tt.d, tt.d))
		})
	}
}

func TestMergeImmediatelyDominates(t *testing.T) {
	now := time.Now()
	imm := Decision{Kind: Immediately}
	others := []Decision{
		{Kind: Wait},
		{Kind: Immediately},
		DeadlineAt(now),
	}

	for _, o := range others {
		assert.Equal(t, imm, Merge(imm, o))
		assert.Equal(t, imm, Merge(o, imm))
	}
}

func TestMergeDeadlinesKeepEarlier(t *testing.T) {
	base := time.Now()
	early := DeadlineAt(base.Add(2 * time.Millisecond))
	late := DeadlineAt(base.Add(5 * time.Millisecond))

	assert.Equal(t, early, Merge(late, early))
	assert.Equal(t, early, Merge(early, late))
}

func TestMergeWaitNeverWeakensDeadline(t *testing.T) {
	d := DeadlineAt(time.Now())
	wait := Decision{Kind: Wait}

	assert.Equal(t, d, Merge(wait, d))
	assert.Equal(t, d, Merge(d, wait))
	assert.Equal(t, wait, Merge(wait, wait))
}

func TestMergeOrderInsensitiveFold(t *testing.T) {
	base := time.Now()
	updates := []Decision{
		{Kind: Wait},
		DeadlineAt(base.Add(8 * time.Millisecond)),
		DeadlineAt(base.Add(3 * time.Millisecond)),
		{Kind: Wait},
	}

	forward := Decision{Kind: Wait}
	for _, u := range updates {
		forward.Update(u)
	}
	backward := Decision{Kind: Wait}
	for i := len(updates) - 1; i >= 0; i-- {
		backward.Update(updates[i])
	}

	assert.Equal(t, DeadlineAt(base.Add(3*time.Millisecond)), forward)
	assert.Equal(t, forward, backward)
}
