package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// PostEventPublisher publishes finalized posts to a Pub/Sub topic.
type PostEventPublisher struct {
	PubSubClient *pubsub.Client
	TopicName    string
	topic        *pubsub.Topic
}

var _ repository.IPostNotifier = (*PostEventPublisher)(nil)

// NewPubSub connects to Pub/Sub for projectID using application default credentials.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, errors.New("pubsub project id not configured")
	}
	return pubsub.NewClient(ctx, projectID)
}

func NewPostEventPublisher(pubSubClient *pubsub.Client, topicName string) *PostEventPublisher {
	return &PostEventPublisher{PubSubClient: pubSubClient, TopicName: topicName}
}

// Publish sends payload to the topic, creating the topic on first use.
func (p *PostEventPublisher) Publish(ctx context.Context, payload []byte, attrs map[string]string) (string, error) {
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return "", err
	}
	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload, Attributes: attrs}).Get(ctx)
	if err != nil {
		return "", err
	}
	logger.GetLogger().WithField("server ID", serverID).Info("Message published")
	return serverID, nil
}

func (p *PostEventPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	if p.topic != nil {
		return p.topic, nil
	}
	topic := p.PubSubClient.Topic(p.TopicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.TopicName).Info("Topic doesn't exist - creating it")
		if topic, err = p.PubSubClient.CreateTopic(ctx, p.TopicName); err != nil {
			return nil, err
		}
	}
	p.topic = topic
	return topic, nil
}

// NotifyPostStatus publishes the post event; failures are only logged.
func (p *PostEventPublisher) NotifyPostStatus(ctx context.Context, post *model.ScheduledPost) {
	if p == nil || p.PubSubClient == nil || post == nil {
		return
	}
	payload, err := json.Marshal(dto.NewPostStatusEvent(post))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to encode post event")
		return
	}
	attrs := map[string]string{
		"status":  string(post.Status),
		"post_id": strconv.FormatInt(post.ID, 10),
	}
	if _, err := p.Publish(ctx, payload, attrs); err != nil {
		logger.GetLogger().WithField("error", err).WithField("post_id", post.ID).Error("Failed to publish post event")
	}
}

// Stop flushes pending messages.
func (p *PostEventPublisher) Stop() {
	if p != nil && p.topic != nil {
		p.topic.Stop()
	}
}
