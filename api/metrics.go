package api

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// boardRequestMetrics collects per-request timings for the board list
// endpoint, the hot read path, and emits them as one structured log line.
type boardRequestMetrics struct {
	logger         *log.Logger
	start          time.Time
	fetchDuration  time.Duration
	encodeDuration time.Duration
	boardsReturned int
	errorStage     string
}

func newBoardRequestMetrics(logger *log.Logger) *boardRequestMetrics {
	return &boardRequestMetrics{
		logger: logger,
		start:  time.Now(),
	}
}

func (m *boardRequestMetrics) ObserveFetch(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.fetchDuration = duration
}

func (m *boardRequestMetrics) ObserveEncode(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.encodeDuration = duration
}

func (m *boardRequestMetrics) SetBoardsReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.boardsReturned = count
}

func (m *boardRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *boardRequestMetrics) Log(status int, err error) {
	if m == nil || m.logger == nil {
		return
	}

	fields := log.Fields{
		"route":           "/api/workboards/",
		"status":          status,
		"total_ms":        durationToMillis(time.Since(m.start)),
		"boards_returned": m.boardsReturned,
	}

	if m.fetchDuration > 0 {
		fields["fetch_ms"] = durationToMillis(m.fetchDuration)
	}
	if m.encodeDuration > 0 {
		fields["encode_ms"] = durationToMillis(m.encodeDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	m.logger.WithFields(fields).Info("workboards.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
