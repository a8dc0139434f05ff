package workers

import (
	"context"
	"time"

	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/metrics"
	"clubaereo/bitacora/internal/services"
)

type WorkersContainer struct {
	QueueWorker *SubmissionQueueWorker
	Monitor     *QueueMonitor
}

func InitWorkers(
	redQ *common.RedisQueueService,
	submissionSvc *services.SubmissionService,
	metricsReg *metrics.MetricsRegistry,
) *WorkersContainer {
	qWorker := NewSubmissionQueueWorker("submission_queue", redQ, submissionSvc, metricsReg)
	monitor := NewQueueMonitor(redQ, metricsReg)

	go qWorker.Start(context.Background(), 3)
	go monitor.Start(context.Background(), 30*time.Second)

	return &WorkersContainer{
		QueueWorker: qWorker,
		Monitor:     monitor,
	}
}
