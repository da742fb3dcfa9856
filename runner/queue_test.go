package runner

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/validationsim/core"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	q.Push(
		core.NewEvent("r", core.EventRunStarted, nil),
		core.NewEvent("r", core.EventRunStep, nil),
		core.NewEvent("r", core.EventRunCompleted, nil),
	)
	require.Equal(t, 3, q.Len())

	first, ok := q.Pop(time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, core.EventRunStarted, first.Type)
	second, ok := q.Pop(time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, core.EventRunStep, second.Type)
	third, ok := q.Pop(time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, core.EventRunCompleted, third.Type)
	assert.True(t, q.Empty())
}

func TestQueue_PopTimesOutWhenEmpty(t *testing.T) {
	q := NewQueue()
	start := time.Now()
	_, ok := q.Pop(50 * time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestQueue_PopWakesOnPush(t *testing.T) {
	q := NewQueue()
	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push(core.NewEvent("r", core.EventRunStep, nil))
	}()
	e, ok := q.Pop(2 * time.Second)
	require.True(t, ok)
	assert.Equal(t, core.EventRunStep, e.Type)
}

func TestQueue_ConcurrentProducersAndConsumer(t *testing.T) {
	q := NewQueue()
	const producers = 4
	const perProducer = 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(core.NewEvent(fmt.Sprintf("run-%d", p), core.EventRunStep, i))
			}
		}(p)
	}
	wg.Wait()

	got := 0
	for {
		_, ok := q.Pop(10 * time.Millisecond)
		if !ok {
			break
		}
		got++
	}
	assert.Equal(t, producers*perProducer, got)
}
