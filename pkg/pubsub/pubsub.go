package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/everse/unified-api/pkg/logging"
)

// Event is one published message on a topic.
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // per-topic ordering
}

// GenerationStatus is the payload published on the generation_status topic
// while the pipeline reruns in watch mode.
type GenerationStatus struct {
	State   string `json:"state"` // fetching, building, generating, ready, failed
	Message string `json:"message"`
	Step    int    `json:"step"`
	Total   int    `json:"total"`
}

// Publisher fans events out to per-topic subscribers. Each topic buffers its
// last event and replays it to new subscribers so a late-connecting client
// sees the current state immediately.
type Publisher struct {
	mu            sync.RWMutex
	subscriptions map[string]map[*Subscription]bool
	version       map[string]int
	lastEvent     map[string]*Event
	closed        bool
}

// NewPublisher creates an empty publisher.
func NewPublisher() *Publisher {
	return &Publisher{
		subscriptions: make(map[string]map[*Subscription]bool),
		version:       make(map[string]int),
		lastEvent:     make(map[string]*Event),
	}
}

// Subscribe registers for a topic. Context cancellation closes the
// subscription.
func (p *Publisher) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("publisher is closed")
	}

	sub := &Subscription{
		topic:     topic,
		events:    make(chan Event, 64),
		publisher: p,
	}
	if p.subscriptions[topic] == nil {
		p.subscriptions[topic] = make(map[*Subscription]bool)
	}
	p.subscriptions[topic][sub] = true

	last := p.lastEvent[topic]
	p.mu.Unlock()

	if last != nil {
		sub.events <- *last
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub, nil
}

// Publish sends an event to all subscribers of a topic, non-blocking. A full
// subscriber channel drops the event rather than stalling the pipeline.
func (p *Publisher) Publish(topic, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event data: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publisher is closed")
	}

	p.version[topic]++
	event := Event{
		Topic:   topic,
		Type:    eventType,
		Data:    payload,
		Version: p.version[topic],
	}
	p.lastEvent[topic] = &event

	for sub := range p.subscriptions[topic] {
		select {
		case sub.events <- event:
		default:
			logging.Warn("subscription channel full, dropping event", "topic", topic)
		}
	}
	return nil
}

// Close shuts down the publisher and all subscriptions.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, subs := range p.subscriptions {
		for sub := range subs {
			close(sub.events)
		}
	}
	p.subscriptions = make(map[string]map[*Subscription]bool)
	return nil
}

func (p *Publisher) unsubscribe(sub *Subscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if subs := p.subscriptions[sub.topic]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(p.subscriptions, sub.topic)
		}
	}
}

// Subscription is one client's registration on a topic.
type Subscription struct {
	topic     string
	events    chan Event
	publisher *Publisher
	closed    bool
	mu        sync.Mutex
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() string {
	return s.topic
}

// Events returns the event channel. It is closed when the subscription or
// publisher closes.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close detaches the subscription from the publisher.
func (s *Subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.publisher.unsubscribe(s)
	return nil
}
