package renderer

import "time"

type WorkerStats struct {
	// The worker id.
	ID int

	// Number of rows rendered and the percentage of the frame they represent.
	Rows         int
	FramePercent float64

	// Time spent rendering the assigned rows
	RenderTime time.Duration
}

type RenderStats struct {
	// Frame dims and sampling settings used.
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int

	// Camera rays traced for the whole frame.
	TotalSamples int

	// Individual worker stats.
	Workers []WorkerStats

	// Total render time for entire frame.
	RenderTime time.Duration
}

// SamplesPerSecond returns the camera ray throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.RenderTime.Seconds()
}

// newRenderStats builds frame stats from per-worker row counts and durations
func newRenderStats(width, height int, config SamplingConfig, rows []int, times []time.Duration, total time.Duration) RenderStats {
	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: config.SamplesPerPixel,
		MaxDepth:        config.MaxDepth,
		RenderTime:      total,
	}

	for id := range rows {
		percent := 0.0
		if height > 0 {
			percent = 100 * float64(rows[id]) / float64(height)
		}
		stats.Workers = append(stats.Workers, WorkerStats{
			ID:           id,
			Rows:         rows[id],
			FramePercent: percent,
			RenderTime:   times[id],
		})
		stats.TotalSamples += rows[id] * width * config.SamplesPerPixel
	}

	return stats
}
