package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

type feedRecord struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(RecordCreated, EntityFeed, 7, feedRecord{ID: 7, Name: "Hay"})

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "feed/7", event.Key())
	assert.False(t, event.OccurredAt.IsZero())
}

func TestProducer_Produce(t *testing.T) {
	t.Run("queued", func(t *testing.T) {
		producer := &Producer{events: make(chan Event, 2), logger: zaptest.NewLogger(t)}

		producer.Produce(NewEvent(RecordCreated, EntitySpecies, 1, nil))

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{events: make(chan Event, 1), logger: zap.New(core)}
		event := NewEvent(RecordDeleted, EntityAnimal, 3, nil)

		producer.Produce(event)
		producer.Produce(event)

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("record", "animal/3")).Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	event := NewEvent(RecordUpdated, EntityFeed, 7, feedRecord{ID: 7, Name: "Hay"})

	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
		producer := &Producer{writer: mockWriter, logger: zaptest.NewLogger(t)}

		producer.sendEvent(context.Background(), event)

		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{Key: []byte("feed/7"), Value: mustMarshal(t, event)},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer := &Producer{writer: new(MockKafkaWriter), logger: zap.New(core)}

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))
		producer := &Producer{writer: mockWriter, logger: zap.New(core)}

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_CloseFlushesQueue(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	mockWriter.On("Close").Return(nil)

	producer := newProducer(mockWriter, zaptest.NewLogger(t))
	for i := uint(1); i <= 3; i++ {
		producer.Produce(NewEvent(RecordCreated, EntitySpecies, i, nil))
	}
	producer.Close()

	mockWriter.AssertNumberOfCalls(t, "WriteMessages", 3)
	mockWriter.AssertCalled(t, "Close")
}

func TestNopProducer(t *testing.T) {
	var p NopProducer
	p.Produce(NewEvent(RecordCreated, EntitySpecies, 1, nil))
	p.Close()
}

func mustMarshal(t *testing.T, event Event) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}
