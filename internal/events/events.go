package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectFollowed   = "user.followed"
	SubjectUnfollowed = "user.unfollowed"
)

type FollowEvent struct {
	EventType  string    `json:"event_type"`
	TargetID   string    `json:"target_id"`
	FollowerID string    `json:"follower_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NATSPublisher publishes follow graph changes as JSON messages.
type NATSPublisher struct {
	conn *nats.Conn
	now  func() time.Time
}

func Connect(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("nutrilog"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: conn, now: time.Now}, nil
}

func (p *NATSPublisher) publish(subject, targetID, followerID string) error {
	data, err := json.Marshal(FollowEvent{
		EventType:  subject,
		TargetID:   targetID,
		FollowerID: followerID,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

func (p *NATSPublisher) PublishFollowed(_ context.Context, targetID, followerID string) error {
	return p.publish(SubjectFollowed, targetID, followerID)
}

func (p *NATSPublisher) PublishUnfollowed(_ context.Context, targetID, followerID string) error {
	return p.publish(SubjectUnfollowed, targetID, followerID)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	p.conn.Drain()
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) PublishFollowed(context.Context, string, string) error   { return nil }
func (Noop) PublishUnfollowed(context.Context, string, string) error { return nil }
