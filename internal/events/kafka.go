package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafka returns a Publisher writing JSON StageChanged events keyed by lecture id
func NewKafka(brokers []string, topic string) (Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: brokers list is empty")
	}
	if topic == "" {
		return nil, errors.New("kafka: topic is empty")
	}

	return &kafkaPublisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
		},
		now: time.Now,
	}, nil
}

func (p *kafkaPublisher) PublishStageChanged(ctx context.Context, lectureID string, stage models.Stage, errMsg string) error {
	evt := StageChanged{
		EventID:    uuid.NewString(),
		LectureID:  lectureID,
		Stage:      stage,
		Error:      errMsg,
		OccurredAt: p.now().UTC(),
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("kafka encode: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(lectureID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
