package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects to Redis at addr and pings it.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// EventSink receives post status events published by any instance.
type EventSink interface {
	Deliver(evt dto.PostStatusEvent)
}

// PostRelay publishes post status events on a Redis channel so every
// instance's stream hub sees posts finalized elsewhere.
type PostRelay struct {
	client  redis.UniversalClient
	channel string
	sink    EventSink
}

var _ repository.IPostNotifier = (*PostRelay)(nil)

func NewPostRelay(client redis.UniversalClient, channel string, sink EventSink) *PostRelay {
	return &PostRelay{client: client, channel: channel, sink: sink}
}

// NotifyPostStatus publishes the event. When Redis is unreachable the event is
// still delivered to the local sink.
func (r *PostRelay) NotifyPostStatus(ctx context.Context, post *model.ScheduledPost) {
	if post == nil {
		return
	}
	evt := dto.NewPostStatusEvent(post)
	payload, err := json.Marshal(evt)
	if err == nil {
		err = r.client.Publish(ctx, r.channel, payload).Err()
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("post_id", post.ID).Warn("Redis relay publish failed; delivering locally")
		r.sink.Deliver(evt)
	}
}

// Run forwards channel messages to the sink until ctx is done.
func (r *PostRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()
	if _, err := sub.Receive(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	logger.GetLogger().WithField("channel", r.channel).Info("Redis relay subscribed")

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := r.deliver(msg.Payload); err != nil {
				logger.GetLogger().WithField("error", err).Warn("Dropping malformed relay message")
			}
		}
	}
}

func (r *PostRelay) deliver(payload string) error {
	var evt dto.PostStatusEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return err
	}
	if evt.UserID == "" {
		return errors.New("event without user_id")
	}
	r.sink.Deliver(evt)
	return nil
}
