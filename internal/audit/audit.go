package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Auth security event types
const (
	EventLoginSucceeded       = "login_succeeded"
	EventLoginFailed          = "login_failed"
	EventDoctorRegistered     = "doctor_registered"
	EventRefreshRotated       = "refresh_rotated"
	EventRefreshReuseDetected = "refresh_reuse_detected"
	EventLogout               = "logout"
)

// Event is one auth security event
type Event struct {
	Type     string    `json:"type"`
	DoctorID string    `json:"doctor_id,omitempty"`
	RegNo    string    `json:"reg_no,omitempty"`
	JTI      string    `json:"jti,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher publishes auth security events. Publishing is best-effort and
// must never fail the in-flight request.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NopPublisher discards events. Used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// KafkaPublisher publishes events to a Kafka topic
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	log    *zap.Logger
}

// NewKafkaPublisher creates a KafkaPublisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{client: client, topic: topic, log: log}, nil
}

// Publish produces the event asynchronously; failures are logged, not
// propagated.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	value, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("audit event marshal failed", zap.String("type", event.Type), zap.Error(err))
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.DoctorID),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.log.Warn("audit event publish failed", zap.String("type", event.Type), zap.Error(err))
		}
	})
}

// Close flushes buffered records and closes the client
func (p *KafkaPublisher) Close(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		return err
	}
	p.client.Close()
	return nil
}
