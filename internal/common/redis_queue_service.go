package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmissionStream is the Redis Stream feeding the submission workers.
const SubmissionStream = "submissions:process"

// RedisQueueService provides queue functionality using Redis Streams
type RedisQueueService struct {
	client *redis.Client
}

// NewRedisQueueService creates a new Redis queue service
func NewRedisQueueService(client *redis.Client) *RedisQueueService {
	return &RedisQueueService{
		client: client,
	}
}

// SubmissionQueueItem represents a flight submission awaiting processing
type SubmissionQueueItem struct {
	SubmissionID string `json:"submission_id"`
	EnqueuedAt   string `json:"enqueued_at"`
}

// EnqueueSubmission adds a submission to the processing queue using Redis Stream
func (s *RedisQueueService) EnqueueSubmission(ctx context.Context, item *SubmissionQueueItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal submission item: %w", err)
	}

	// XADD stream * data <json>
	args := &redis.XAddArgs{
		Stream: SubmissionStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// CreateConsumerGroup ensures the consumer group exists for a stream.
// "BUSYGROUP" errors (group already exists) are swallowed.
func (s *RedisQueueService) CreateConsumerGroup(ctx context.Context, streamName, groupName string) error {
	err := s.client.XGroupCreateMkStream(ctx, streamName, groupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

// DequeueSubmission reads one submission from the queue using a consumer group.
// Returns (item, messageID, error); (nil, "", nil) means the block timed out.
func (s *RedisQueueService) DequeueSubmission(ctx context.Context, groupName, consumerName string, blockTime time.Duration) (*SubmissionQueueItem, string, error) {
	args := &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{SubmissionStream, ">"}, // ">" means new messages only
		Count:    1,
		Block:    blockTime,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, "", nil // timeout, no messages
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]
	raw, ok := msg.Values["data"].(string)
	if !ok {
		return nil, msg.ID, fmt.Errorf("malformed message %s: missing data field", msg.ID)
	}

	var item SubmissionQueueItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, msg.ID, fmt.Errorf("failed to unmarshal message %s: %w", msg.ID, err)
	}

	return &item, msg.ID, nil
}

// AckSubmission acknowledges a processed message
func (s *RedisQueueService) AckSubmission(ctx context.Context, groupName, messageID string) error {
	return s.client.XAck(ctx, SubmissionStream, groupName, messageID).Err()
}

// QueueDepth returns the number of entries currently in the stream
func (s *RedisQueueService) QueueDepth(ctx context.Context) (int64, error) {
	return s.client.XLen(ctx, SubmissionStream).Result()
}

// Ping verifies the Redis connection for health checks
func (s *RedisQueueService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
