package kafka

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

const gameFinishedEvent = "game_finished"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type event struct {
	Event     string            `json:"event"`
	Payload   domain.GameResult `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

// Producer publishes finished games for analytics consumers.
type Producer struct {
	writer messageWriter
	now    func() time.Time
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		now: time.Now,
	}
}

// Save publishes the result keyed by session so one session's events stay
// ordered within a partition.
func (p *Producer) Save(ctx context.Context, result domain.GameResult) error {
	data, err := jsoniter.Marshal(event{
		Event:     gameFinishedEvent,
		Payload:   result,
		Timestamp: p.now().UTC(),
	})
	if err != nil {
		return errors.WithMessage(err, "marshal event")
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(result.Session),
		Value: data,
	})
	if err != nil {
		return errors.WithMessage(err, "write kafka message")
	}
	return nil
}

func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return errors.WithMessage(err, "close kafka writer")
	}
	return nil
}
