package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/seedjob"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const (
	TopicSeedRequests = "seed.requests"
	TopicSeedProgress = "seed.progress"
)

// SeedProgressPayload is what consumers of seed.progress receive.
type SeedProgressPayload struct {
	JobID     uuid.UUID                `json:"job_id"`
	Progress  []content.UploadProgress `json:"progress"`
	Timestamp time.Time                `json:"timestamp"`
}

type KafkaProducerClient struct {
	SeedRequestsWriter *kafka.Writer
	SeedProgressWriter *kafka.Writer
	logger             logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'seed.requests'
	requestsWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicSeedRequests,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	// writer 'seed.progress'; keyed by job so one job's updates stay ordered
	progressWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicSeedProgress,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		SeedRequestsWriter: requestsWriter,
		SeedProgressWriter: progressWriter,
		logger:             log,
	}, nil
}

func (c *KafkaProducerClient) PublishSeedRequest(ctx context.Context, req seedjob.Request) error {
	value, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal seed request: %w", err)
	}
	return c.SeedRequestsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(req.JobID.String()),
		Value: value,
	})
}

func (c *KafkaProducerClient) PublishProgress(ctx context.Context, jobID uuid.UUID, snapshot []content.UploadProgress) error {
	value, err := json.Marshal(SeedProgressPayload{JobID: jobID, Progress: snapshot, Timestamp: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal seed progress: %w", err)
	}
	return c.SeedProgressWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(jobID.String()),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.SeedRequestsWriter != nil {
		c.SeedRequestsWriter.Close()
	}
	if c.SeedProgressWriter != nil {
		c.SeedProgressWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}

// DecodeSeedRequest parses a message read from seed.requests.
func DecodeSeedRequest(msg kafka.Message) (seedjob.Request, error) {
	var req seedjob.Request
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return seedjob.Request{}, fmt.Errorf("decode seed request: %w", err)
	}
	if req.JobID == uuid.Nil {
		return seedjob.Request{}, fmt.Errorf("decode seed request: missing job_id")
	}
	return req, nil
}
