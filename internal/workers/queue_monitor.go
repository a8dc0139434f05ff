package workers

import (
	"context"
	"time"

	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/logging"
	"clubaereo/bitacora/internal/metrics"
)

// QueueMonitor periodically reports the submission stream depth
type QueueMonitor struct {
	redisQueue *common.RedisQueueService
	metricsReg *metrics.MetricsRegistry
}

// NewQueueMonitor creates a new queue monitor
func NewQueueMonitor(redisQueue *common.RedisQueueService, metricsReg *metrics.MetricsRegistry) *QueueMonitor {
	return &QueueMonitor{
		redisQueue: redisQueue,
		metricsReg: metricsReg,
	}
}

// Start polls the queue depth until the context is cancelled
func (m *QueueMonitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			depth, err := m.redisQueue.QueueDepth(ctx)
			if err != nil {
				logging.Warn("Failed to read submission queue depth", "error", err.Error())
				continue
			}

			if m.metricsReg != nil {
				m.metricsReg.QueueDepth.Set(float64(depth))
			}

			if depth > 0 {
				logging.Info("Submission queue depth", "depth", depth)
			}
		}
	}
}
