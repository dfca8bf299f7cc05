package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	RecordCreated EventType = "record_created"
	RecordUpdated EventType = "record_updated"
	RecordDeleted EventType = "record_deleted"
)

// Entity names the kind of record an event is about.
type Entity string

const (
	EntitySpecies      Entity = "species"
	EntityEnclosure    Entity = "enclosure"
	EntityEmployee     Entity = "employee"
	EntityFeed         Entity = "feed"
	EntityAnimal       Entity = "animal"
	EntityFeeding      Entity = "feeding"
	EntityHealthRecord Entity = "health_record"
)

// Event describes a committed change to one record.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	Entity     Entity    `json:"entity"`
	RecordID   uint      `json:"record_id"`
	Record     any       `json:"record,omitempty"`
	// Actor is the authenticated user that made the change, if known.
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps a change with a fresh id and the current time.
func NewEvent(eventType EventType, entity Entity, recordID uint, record any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Entity:     entity,
		RecordID:   recordID,
		Record:     record,
		OccurredAt: time.Now().UTC(),
	}
}

// Key is the partition key of the event. Changes to one record stay ordered.
func (e Event) Key() string {
	return string(e.Entity) + "/" + strconv.FormatUint(uint64(e.RecordID), 10)
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	return newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger)
}

func newProducer(writer KafkaWriter, logger *zap.Logger) *Producer {
	p := &Producer{
		writer:    writer,
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// EnsureTopic creates the topic on the first broker if it does not exist yet.
func EnsureTopic(brokers []string, topic string, logger *zap.Logger) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	return nil
}

// Produce queues the event. It never blocks; when the queue is full the
// event is dropped and logged.
func (p *Producer) Produce(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("record", event.Key()),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			p.flush()
			return
		}
	}
}

// flush sends whatever is still queued.
func (p *Producer) flush() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		default:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("record", event.Key()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("record", event.Key()),
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer discards every event. It is used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Produce(Event) {}

func (NopProducer) Close() {}
