package common

import "time"

// ProcessingStats holds throughput statistics for a batch of work.
type ProcessingStats struct {
	TotalItems       int           `json:"total_items"`
	ProcessedItems   int           `json:"processed_items"`
	FailedItems      int           `json:"failed_items"`
	WorkerCount      int           `json:"worker_count"`
	TotalDuration    time.Duration `json:"total_duration_ns"`
	AveragePerItem   time.Duration `json:"average_per_item_ns"`
	ThroughputPerSec float64       `json:"throughput_per_sec"`
}

// CalculateProcessingStats calculates throughput statistics for a
// completed batch.
func CalculateProcessingStats(processed, failed, workers int, duration time.Duration) ProcessingStats {
	stats := ProcessingStats{
		TotalItems:     processed + failed,
		ProcessedItems: processed,
		FailedItems:    failed,
		WorkerCount:    workers,
		TotalDuration:  duration,
	}

	if processed > 0 && duration > 0 {
		stats.AveragePerItem = duration / time.Duration(processed)
		stats.ThroughputPerSec = float64(processed) / duration.Seconds()
	}

	return stats
}
