package kafka

import (
	"context"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducerSave(t *testing.T) {
	writer := &fakeWriter{}
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p := &Producer{writer: writer, now: func() time.Time { return ts }}

	result := domain.GameResult{ID: "r1", Session: "s1", Score: 77, Level: 2, LinesRemoved: 5, PiecesDropped: 27}
	require.NoError(t, p.Save(context.Background(), result))
	require.Len(t, writer.msgs, 1)
	assert.Equal(t, []byte("s1"), writer.msgs[0].Key)

	var got event
	require.NoError(t, jsoniter.Unmarshal(writer.msgs[0].Value, &got))
	assert.Equal(t, gameFinishedEvent, got.Event)
	assert.Equal(t, result.Score, got.Payload.Score)
	assert.Equal(t, result.PiecesDropped, got.Payload.PiecesDropped)
	assert.True(t, ts.Equal(got.Timestamp))

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestProducerSaveError(t *testing.T) {
	cause := errors.New("no brokers")
	p := &Producer{writer: &fakeWriter{err: cause}, now: time.Now}
	err := p.Save(context.Background(), domain.GameResult{})
	assert.ErrorIs(t, err, cause)
}

func TestNewProducerConfiguresWriter(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "game-events")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "game-events", w.Topic)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}
