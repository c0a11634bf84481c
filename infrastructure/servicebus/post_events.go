package servicebus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewServiceBus builds a client from a connection string when one is given,
// otherwise from the namespace with the default Azure credential chain.
func NewServiceBus(namespace, connectionString string) (*azservicebus.Client, error) {
	if connectionString != "" {
		return azservicebus.NewClientFromConnectionString(connectionString, nil)
	}
	if namespace == "" {
		return nil, errors.New("service bus namespace not configured")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	return azservicebus.NewClient(namespace, cred, nil)
}

// PostEventSender sends finalized posts to a Service Bus queue.
type PostEventSender struct {
	AzservicebusClient *azservicebus.Client
	Queue              string
}

var _ repository.IPostNotifier = (*PostEventSender)(nil)

func NewPostEventSender(client *azservicebus.Client, queue string) *PostEventSender {
	return &PostEventSender{AzservicebusClient: client, Queue: queue}
}

// NotifyPostStatus sends the event; failures are only logged.
func (s *PostEventSender) NotifyPostStatus(ctx context.Context, post *model.ScheduledPost) {
	if s == nil || s.AzservicebusClient == nil || post == nil {
		return
	}
	msg, err := newPostMessage(post)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to encode post event")
		return
	}
	if err := s.send(ctx, msg); err != nil {
		logger.GetLogger().WithField("error", err).WithField("post_id", post.ID).Error("Error while sending post event.")
	}
}

func (s *PostEventSender) send(ctx context.Context, msg *azservicebus.Message) error {
	sender, err := s.AzservicebusClient.NewSender(s.Queue, nil)
	if err != nil {
		return fmt.Errorf("new sender: %w", err)
	}
	defer func() {
		if err := sender.Close(context.Background()); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing sender.")
		}
	}()
	return sender.SendMessage(ctx, msg, nil)
}

// newPostMessage builds the queue message. MessageID is stable per post and
// status so duplicate detection on the queue can drop resends.
func newPostMessage(post *model.ScheduledPost) (*azservicebus.Message, error) {
	body, err := json.Marshal(dto.NewPostStatusEvent(post))
	if err != nil {
		return nil, err
	}
	contentType := "application/json"
	subject := "post_status"
	messageID := fmt.Sprintf("post-%d-%s", post.ID, post.Status)
	return &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		MessageID:   &messageID,
		ApplicationProperties: map[string]any{
			"status":  string(post.Status),
			"post_id": post.ID,
			"user_id": post.UserID,
		},
	}, nil
}
