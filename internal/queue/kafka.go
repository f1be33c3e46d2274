package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/ashestree87/socialize/pkg/logger"
)

const kafkaCloseTimeout = 10 * time.Second

// KafkaConfig holds Kafka queue settings
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
	ClientID      string
}

// KafkaQueue implements PublishQueue on Kafka. Jobs are keyed by
// upload ID so retries for one upload stay on one partition and
// arrive in order.
type KafkaQueue struct {
	client *kgo.Client
	topic  string
}

// NewKafkaQueue creates a new KafkaQueue
func NewKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: topic is required")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ClientID(cfg.ClientID),
		kgo.ConsumeTopics(cfg.Topic),
	}
	if cfg.ConsumerGroup != "" {
		opts = append(opts, kgo.ConsumerGroup(cfg.ConsumerGroup))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka: failed to create client: %w", err)
	}

	return &KafkaQueue{client: client, topic: cfg.Topic}, nil
}

// Enqueue submits a job for processing
func (q *KafkaQueue) Enqueue(ctx context.Context, job *Job) error {
	data, err := job.Marshal()
	if err != nil {
		return fmt.Errorf("kafka: failed to marshal job: %w", err)
	}

	record := &kgo.Record{
		Topic: q.topic,
		Key:   []byte(job.UploadID),
		Value: data,
	}
	if err := q.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka: failed to produce job: %w", err)
	}
	return nil
}

// Consume delivers jobs to the handler until ctx is cancelled. Jobs
// that fail to decode are skipped; handler errors are logged and the
// handler is expected to requeue with a bumped attempt count.
func (q *KafkaQueue) Consume(ctx context.Context, handler Handler) error {
	for {
		fetches := q.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			logger.WithContext(ctx).Error("kafka fetch error",
				zap.String("topic", topic),
				zap.Int32("partition", partition),
				zap.Error(err),
			)
		})

		fetches.EachRecord(func(record *kgo.Record) {
			job, err := UnmarshalJob(record.Value)
			if err != nil {
				logger.WithContext(ctx).Error("skipping undecodable publish job",
					zap.Int64("offset", record.Offset),
					zap.Error(err),
				)
				return
			}
			if err := handler(ctx, job); err != nil {
				logger.WithContext(ctx).Error("publish job failed",
					zap.String("upload_id", job.UploadID),
					zap.Int("attempt", job.Attempt),
					zap.Error(err),
				)
			}
		})
	}
}

// Close flushes pending produces and releases the client
func (q *KafkaQueue) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), kafkaCloseTimeout)
	defer cancel()
	if err := q.client.Flush(ctx); err != nil {
		q.client.Close()
		return err
	}
	q.client.Close()
	return nil
}
