package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFOPerSource(t *testing.T) {
	q := NewQueue(16)
	q.Post(SetTitle{Title: "one"})
	q.Post(SetTitle{Title: "two"})
	q.Post(SetTitle{Title: "three"})

	var got []string
	for i := 0; i < 3; i++ {
		ev := <-q.Events()
		got = append(got, ev.(SetTitle).Title)
	}
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue(1024)

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Post(RedrawRequested{})
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 800, q.Len())
	for i := 0; i < 800; i++ {
		<-q.Events()
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueueOverflowPanics(t *testing.T) {
	q := NewQueue(1)
	q.Post(Exit{})
	assert.Panics(t, func() { q.Post(Exit{}) })
}
