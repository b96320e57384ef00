// Package eventbus forwards adapter lifecycle events to Kafka.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"genbridge/internal/adapter"
)

// Defaults applied when corresponding KafkaConfig fields are unset.
const (
	DefaultTopic        = "genbridge-events"
	defaultBatchSize    = 100
	defaultBatchTimeout = time.Second
	defaultBuffer       = 256
	defaultWriteTimeout = 5 * time.Second
	source              = "genbridge"
)

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	// Buffer is the number of events queued before Publish starts dropping.
	Buffer       int
	WriteTimeout time.Duration
}

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// message is the JSON value written for each event.
type message struct {
	Name      string         `json:"name"`
	CallID    string         `json:"call_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// KafkaPublisher implements adapter.EventPublisher. Publish never blocks:
// events are queued and written by a background goroutine, and dropped when
// the queue is full.
type KafkaPublisher struct {
	w            messageWriter
	writeTimeout time.Duration
	log          zerolog.Logger

	ch      chan adapter.Event
	quit    chan struct{}
	done    chan struct{}
	closed  atomic.Bool
	once    sync.Once
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewKafkaPublisher builds a publisher writing to cfg.Brokers.
func NewKafkaPublisher(cfg KafkaConfig, log zerolog.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher: no brokers configured")
	}
	cfg = withDefaults(cfg)
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	return newPublisher(w, cfg, log), nil
}

func withDefaults(cfg KafkaConfig) KafkaConfig {
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = defaultBatchTimeout
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	return cfg
}

func newPublisher(w messageWriter, cfg KafkaConfig, log zerolog.Logger) *KafkaPublisher {
	cfg = withDefaults(cfg)
	p := &KafkaPublisher{
		w:            w,
		writeTimeout: cfg.WriteTimeout,
		log:          log.With().Str("component", "eventbus").Str("topic", cfg.Topic).Logger(),
		ch:           make(chan adapter.Event, cfg.Buffer),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues e for delivery.
func (p *KafkaPublisher) Publish(e adapter.Event) {
	if p.closed.Load() {
		p.dropped.Add(1)
		return
	}
	select {
	case p.ch <- e:
	default:
		p.dropped.Add(1)
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for {
		select {
		case e := <-p.ch:
			p.write(e)
		case <-p.quit:
			for {
				select {
				case e := <-p.ch:
					p.write(e)
				default:
					return
				}
			}
		}
	}
}

func (p *KafkaPublisher) write(e adapter.Event) {
	msg, err := encode(e)
	if err != nil {
		p.failed.Add(1)
		p.log.Warn().Err(err).Str("event", e.Name).Msg("encode event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		p.log.Warn().Err(err).Str("event", e.Name).Msg("write event")
	}
}

func encode(e adapter.Event) (kafka.Message, error) {
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	value, err := json.Marshal(message{Name: e.Name, CallID: e.CallID, Timestamp: ts, Source: source, Fields: e.Fields})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	key := e.CallID
	if key == "" {
		key = e.Name
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  ts,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(source)},
			{Key: "event", Value: []byte(e.Name)},
		},
	}, nil
}

// Dropped returns the number of events discarded because the queue was full
// or the publisher was closed.
func (p *KafkaPublisher) Dropped() uint64 { return p.dropped.Load() }

// Failed returns the number of events that could not be encoded or written.
func (p *KafkaPublisher) Failed() uint64 { return p.failed.Load() }

// Close flushes queued events and closes the writer.
func (p *KafkaPublisher) Close() error {
	var err error
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.quit)
		<-p.done
		err = p.w.Close()
	})
	return err
}
