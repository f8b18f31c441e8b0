// Package events publishes domain events about generated recommendations to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jonathan/skill-monitor/internal/types"
)

// TopicRecommendationGenerated receives one message per generated recommendation
const TopicRecommendationGenerated = "recommendation.generated"

// RecommendationEvent is the message body published for a recommendation
type RecommendationEvent struct {
	UserID         string    `json:"user_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	SkillsCritical []string  `json:"skills_critical"`
	NextStep       string    `json:"next_step"`
}

// Publisher announces generated recommendations
type Publisher interface {
	PublishRecommendation(ctx context.Context, rec *types.Recommendation) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer used by KafkaPublisher
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes recommendation events keyed by user id
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher writing to brokers
func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicRecommendationGenerated,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaPublisher{writer: writer}, nil
}

// PublishRecommendation sends one event for rec
func (p *KafkaPublisher) PublishRecommendation(ctx context.Context, rec *types.Recommendation) error {
	msg, err := NewRecommendationMessage(rec)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish recommendation for %s: %w", rec.UserID, err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NewRecommendationMessage builds the kafka message for rec
func NewRecommendationMessage(rec *types.Recommendation) (kafka.Message, error) {
	if rec == nil {
		return kafka.Message{}, fmt.Errorf("recommendation is required")
	}

	body, err := json.Marshal(RecommendationEvent{
		UserID:         rec.UserID,
		GeneratedAt:    rec.GeneratedAt,
		SkillsCritical: rec.SkillsCritical,
		NextStep:       rec.NextStep,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode recommendation event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(rec.UserID),
		Value: body,
		Time:  rec.GeneratedAt,
	}, nil
}

// NopPublisher drops every event; used when no brokers are configured
type NopPublisher struct{}

// PublishRecommendation does nothing
func (NopPublisher) PublishRecommendation(context.Context, *types.Recommendation) error { return nil }

// Close does nothing
func (NopPublisher) Close() error { return nil }
