package build

import (
	"sync"
	"time"
)

// PatternResult is the outcome of exporting one pattern.
type PatternResult struct {
	Pattern  string
	Error    error
	Duration time.Duration
}

// ExportMetrics tracks pattern export performance of an export.
type ExportMetrics struct {
	TotalPatterns   int64
	Exported        int64
	Failed          int64
	AverageDuration time.Duration
	TotalDuration   time.Duration
	mutex           sync.RWMutex
}

// NewExportMetrics creates a new metrics tracker
func NewExportMetrics() *ExportMetrics {
	return &ExportMetrics{}
}

// Record adds a pattern result to the metrics
func (m *ExportMetrics) Record(result PatternResult) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalPatterns++
	m.TotalDuration += result.Duration

	if result.Error != nil {
		m.Failed++
	} else {
		m.Exported++
	}

	m.AverageDuration = m.TotalDuration / time.Duration(m.TotalPatterns)
}

// GetSnapshot returns a copy of the current metrics
func (m *ExportMetrics) GetSnapshot() ExportMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return ExportMetrics{
		TotalPatterns:   m.TotalPatterns,
		Exported:        m.Exported,
		Failed:          m.Failed,
		AverageDuration: m.AverageDuration,
		TotalDuration:   m.TotalDuration,
	}
}

// Reset clears all metrics
func (m *ExportMetrics) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.TotalPatterns = 0
	m.Exported = 0
	m.Failed = 0
	m.AverageDuration = 0
	m.TotalDuration = 0
}

// GetSuccessRate returns the share of exported patterns as a percentage
func (m *ExportMetrics) GetSuccessRate() float64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.TotalPatterns == 0 {
		return 0.0
	}

	return float64(m.Exported) / float64(m.TotalPatterns) * 100.0
}
