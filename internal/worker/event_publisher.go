package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/config"
)

const eventQueueSize = 256

// EventPublisher relays countdown events to Redis PubSub so other processes
// can follow a candidate's interview. Enqueue never blocks; events are dropped
// when the queue is full.
type EventPublisher struct {
	rdb   *redis.Client
	log   zerolog.Logger
	queue chan Event
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(rdb *redis.Client, log zerolog.Logger) *EventPublisher {
	return &EventPublisher{
		rdb:   rdb,
		log:   log.With().Str("component", "event_publisher").Logger(),
		queue: make(chan Event, eventQueueSize),
	}
}

// Enqueue schedules an event for publishing. Suitable as a countdown listener.
func (p *EventPublisher) Enqueue(ev Event) {
	select {
	case p.queue <- ev:
	default:
		p.log.Warn().Str("type", string(ev.Type)).Msg("Event queue full, dropping event")
	}
}

// Start publishes queued events until ctx is cancelled. Call in a goroutine.
func (p *EventPublisher) Start(ctx context.Context) {
	p.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			p.drain(context.Background())
			p.log.Info().Msg("Worker stopped")
			return
		case ev := <-p.queue:
			p.publish(ctx, ev)
		}
	}
}

func (p *EventPublisher) publish(ctx context.Context, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("Marshal error")
		return
	}

	channel := config.CacheKey.CandidateEventsChannel(ev.CandidateID.String())
	if err := p.rdb.Publish(ctx, channel, data).Err(); err != nil && ctx.Err() == nil {
		p.log.Error().Err(err).Str("channel", channel).Msg("Publish error")
	}
}

// drain publishes whatever is still queued before shutdown.
func (p *EventPublisher) drain(ctx context.Context) {
	drained := 0
	for {
		select {
		case ev := <-p.queue:
			p.publish(ctx, ev)
			drained++
		default:
			if drained > 0 {
				p.log.Info().Int("count", drained).Msg("Drained remaining events")
			}
			return
		}
	}
}
