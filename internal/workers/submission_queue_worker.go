package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/logging"
	"clubaereo/bitacora/internal/metrics"
	"clubaereo/bitacora/internal/models/dtos"
	"clubaereo/bitacora/internal/services"
)

const submissionConsumerGroup = "submission-workers"

// SubmissionQueueWorker processes flight submissions from the Redis stream.
// The stream gives the asynchronous path the single-consumer-per-message
// guarantee; the ledger's per-aircraft row lock covers the rest.
type SubmissionQueueWorker struct {
	workerID    string
	redisQueue  *common.RedisQueueService
	submissions *services.SubmissionService
	metricsReg  *metrics.MetricsRegistry
}

// NewSubmissionQueueWorker creates a new submission queue worker
func NewSubmissionQueueWorker(
	workerID string,
	redisQueue *common.RedisQueueService,
	submissions *services.SubmissionService,
	metricsReg *metrics.MetricsRegistry,
) *SubmissionQueueWorker {
	return &SubmissionQueueWorker{
		workerID:    workerID,
		redisQueue:  redisQueue,
		submissions: submissions,
		metricsReg:  metricsReg,
	}
}

// Start spawns numWorkers consumers on the submission stream and blocks
// until the context is cancelled.
func (w *SubmissionQueueWorker) Start(ctx context.Context, numWorkers int) error {
	logging.Info("Starting submission queue workers",
		"worker_id", w.workerID,
		"num_workers", numWorkers,
	)

	if err := w.redisQueue.CreateConsumerGroup(ctx, common.SubmissionStream, submissionConsumerGroup); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		consumerName := fmt.Sprintf("%s-worker-%d", w.workerID, i)

		go func(consumerName string) {
			defer wg.Done()
			w.consume(ctx, consumerName)
		}(consumerName)
	}

	wg.Wait()
	logging.Info("All submission workers stopped", "worker_id", w.workerID)
	return nil
}

// consume continuously processes submissions from the stream
func (w *SubmissionQueueWorker) consume(ctx context.Context, consumerName string) {
	processedCount := 0
	errorCount := 0

	for {
		select {
		case <-ctx.Done():
			logging.Info("Submission worker shutting down",
				"consumer", consumerName,
				"processed", processedCount,
				"errors", errorCount,
			)
			return
		default:
			item, messageID, err := w.redisQueue.DequeueSubmission(
				ctx, submissionConsumerGroup, consumerName, 5*time.Second)
			if err != nil {
				logging.Error("Error dequeuing submission", "consumer", consumerName, "error", err.Error())
				time.Sleep(1 * time.Second) // back off on error
				continue
			}

			if item == nil {
				// No messages available (timeout), continue loop
				continue
			}

			status, err := w.submissions.ProcessSubmission(ctx, item.SubmissionID)
			if err != nil {
				logging.Error("Error processing queued submission",
					"consumer", consumerName,
					"submission_id", item.SubmissionID,
					"error", err.Error(),
				)
				errorCount++
				// Still acknowledge to avoid reprocessing indefinitely; the
				// submission itself carries its terminal state.
			} else {
				processedCount++
				w.recordOutcome(status)
			}

			if err := w.redisQueue.AckSubmission(ctx, submissionConsumerGroup, messageID); err != nil {
				logging.Error("Error acknowledging message",
					"consumer", consumerName,
					"message_id", messageID,
					"error", err.Error(),
				)
			}
		}
	}
}

func (w *SubmissionQueueWorker) recordOutcome(status *dtos.SubmissionStatusResponse) {
	if w.metricsReg == nil {
		return
	}
	w.metricsReg.SubmissionsProcessedTotal.WithLabelValues(status.Estado).Inc()
	if status.Estado == constants.StateCompletado.String() {
		w.metricsReg.FlightsCommittedTotal.Inc()
	}
	for _, img := range status.Images {
		if img.Confianza == 0 && img.ValorExtraido == nil {
			w.metricsReg.OCRFailuresTotal.Inc()
		}
	}
}
