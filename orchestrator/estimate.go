package orchestrator

import "time"

const bytesPerMB = 1024 * 1024

// EstimateProcessingTime returns the expected captioning time in minutes:
// 0.2 minutes per megabyte plus 2 minutes per minute of video.
func EstimateProcessingTime(sizeMB float64, length time.Duration) float64 {
	if sizeMB < 0 {
		sizeMB = 0
	}
	if length < 0 {
		length = 0
	}
	return sizeMB*0.2 + length.Minutes()*2
}

// SizeMB converts a byte count to megabytes.
func SizeMB(bytes int64) float64 {
	return float64(bytes) / bytesPerMB
}
