package server

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTickService_NonPositiveIntervalPanics(t *testing.T) {
	assert.Panics(t, func() { NewTickService(0) })
}

func TestTickService_FireRunsInNameOrder(t *testing.T) {
	s := NewTickService(time.Hour)
	var order []string
	s.Register("b", func() { order = append(order, "b") })
	s.Register("a", func() { order = append(order, "a") })
	s.Register("c", func() { order = append(order, "c") })
	s.Unregister("c")

	s.Fire()
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestTickService_StartStop(t *testing.T) {
	s := NewTickService(5 * time.Millisecond)
	var n atomic.Int32
	s.Register("count", func() { n.Add(1) })

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	require.Eventually(t, func() bool { return n.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("tick service did not stop")
	}
}
