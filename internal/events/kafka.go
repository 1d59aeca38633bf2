package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher forwards cart events to a Kafka topic, keyed by cart id.
// Handle never blocks: when the inbox is full the event is dropped and logged.
type KafkaPublisher struct {
	w      messageWriter
	log    *zap.Logger
	inbox  chan kafka.Message
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewKafkaPublisher creates a publisher writing to topic on brokers
func NewKafkaPublisher(brokers []string, topic string, buf int, log *zap.Logger) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}, buf, log)
}

func newKafkaPublisher(w messageWriter, buf int, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		w:     w,
		log:   log,
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
	}
}

// Start runs the write loop until Close drains the inbox
func (p *KafkaPublisher) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.log.Warn("cart event publish failed", zap.String("key", string(m.Key)), zap.Error(err))
			}
		}
		if err := p.w.Close(); err != nil {
			p.log.Warn("kafka writer close failed", zap.Error(err))
		}
	}()
}

func (p *KafkaPublisher) Handle(_ context.Context, ev Event) {
	msg, err := encode(ev)
	if err != nil {
		p.log.Warn("cart event encode failed", zap.String("kind", string(ev.Kind)), zap.Error(err))
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.inbox <- msg:
	default:
		p.log.Warn("cart event dropped, inbox full", zap.String("kind", string(ev.Kind)))
	}
}

// Close flushes queued events and waits for the writer to shut down.
// Start must have been called.
func (p *KafkaPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.done
}

func encode(ev Event) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	var key []byte
	if ev.Cart != nil {
		key = []byte(ev.Cart.ID)
	}
	return kafka.Message{
		Key:   key,
		Value: value,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "event-kind", Value: []byte(ev.Kind)},
		},
	}, nil
}
