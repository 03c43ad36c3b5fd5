package timing

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Reporter logs frame rate and memory statistics at a fixed interval.
type Reporter struct {
	log      *zap.Logger
	window   *Window
	interval time.Duration
	now      func() time.Time

	lastReport     time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewReporter creates a reporter reading fps from window. A non-positive
// interval disables reporting.
func NewReporter(log *zap.Logger, window *Window, interval time.Duration) *Reporter {
	r := &Reporter{log: log, window: window, interval: interval, now: time.Now}
	r.lastReport = r.now()
	return r
}

// Tick should be called once per frame. It returns true when a report was
// written.
func (r *Reporter) Tick() bool {
	if r.interval <= 0 {
		return false
	}
	current := r.now()
	elapsed := current.Sub(r.lastReport)
	if elapsed < r.interval {
		return false
	}

	runtime.ReadMemStats(&r.memStats)
	allocRate := float64(r.memStats.TotalAlloc-r.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses
	var maxPause time.Duration
	gcCount := r.memStats.NumGC
	start := r.lastGCCount
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	for i := start; i < gcCount; i++ {
		maxPause = max(maxPause, time.Duration(r.memStats.PauseNs[i%256]))
	}

	r.log.Info("frame stats",
		zap.Float64("fps", r.window.FPS()),
		zap.Duration("frame_avg", r.window.Average()),
		zap.Float64("heap_mb", float64(r.memStats.Alloc)/1024/1024),
		zap.Float64("alloc_rate_mb_s", allocRate),
		zap.Uint32("gc", gcCount),
		zap.Duration("gc_max_pause", maxPause),
		zap.Float64("sys_mb", float64(r.memStats.Sys)/1024/1024))

	r.lastReport = current
	r.lastGCCount = gcCount
	r.lastTotalAlloc = r.memStats.TotalAlloc
	return true
}
