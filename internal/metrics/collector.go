package metrics

import (
	"runtime"
	"sync"
	"time"

	"mp4-converter/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current statistics
type Stats struct {
	TrackedJobs   int
	LiveArtifacts int
	ScratchBytes  int64
}

// StatsFunc adapts a plain function to StatsProvider.
type StatsFunc func() Stats

// GetStats implements StatsProvider
func (f StatsFunc) GetStats() Stats {
	return f()
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection. Safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	GoMemAllocBytes.Set(float64(m.Alloc))
	GoGoroutines.Set(float64(runtime.NumGoroutine()))

	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	TrackedJobs.Set(float64(stats.TrackedJobs))
	ArtifactsLive.Set(float64(stats.LiveArtifacts))
	ScratchDirBytes.Set(float64(stats.ScratchBytes))

	logging.Debug("Metrics collected: jobs=%d artifacts=%d scratch=%d bytes",
		stats.TrackedJobs, stats.LiveArtifacts, stats.ScratchBytes)
}
