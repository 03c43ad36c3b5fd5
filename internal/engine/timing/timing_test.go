package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEmptyWindow(t *testing.T) {
	w := NewWindow(0)
	assert.Equal(t, DefaultCapacity, w.Cap())
	assert.Equal(t, 0.0, w.FPS())
	assert.Equal(t, time.Duration(0), w.Average())
}

func TestConstantFrames(t *testing.T) {
	w := NewWindow(200)
	d := 16 * time.Millisecond
	for i := 0; i < 200; i++ {
		w.Push(d)
	}
	assert.Equal(t, 200, w.Len())
	assert.InDelta(t, 1/d.Seconds(), w.FPS(), 1e-6)
	assert.Equal(t, d, w.Average())
}

func TestWindowEvictsOldest(t *testing.T) {
	w := NewWindow(3)
	for _, ms := range []int{10, 20, 30, 40} {
		w.Push(time.Duration(ms) * time.Millisecond)
	}
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, 90*time.Millisecond, w.Sum())

	w.Push(-time.Second)
	assert.Equal(t, 70*time.Millisecond, w.Sum())

	w.Reset()
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 0.0, w.FPS())
}

func TestZeroDurationFrames(t *testing.T) {
	w := NewWindow(4)
	w.Push(0)
	assert.Equal(t, 0.0, w.FPS())
}

func TestReporterInterval(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := NewWindow(10)
	w.Push(10 * time.Millisecond)

	clock := time.Unix(1000, 0)
	r := NewReporter(zap.New(core), w, time.Second)
	r.now = func() time.Time { return clock }
	r.lastReport = clock

	clock = clock.Add(500 * time.Millisecond)
	assert.False(t, r.Tick())

	clock = clock.Add(600 * time.Millisecond)
	assert.True(t, r.Tick())
	assert.False(t, r.Tick())

	entries := logs.FilterMessage("frame stats").All()
	if assert.Len(t, entries, 1) {
		assert.InDelta(t, 100.0, entries[0].ContextMap()["fps"], 1e-6)
	}
}

func TestReporterDisabled(t *testing.T) {
	r := NewReporter(zap.NewNop(), NewWindow(1), 0)
	assert.False(t, r.Tick())
}
