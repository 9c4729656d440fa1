package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/config"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/models"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ProgressEvent is published to downstream consumers after a progress batch
// has been persisted.
type ProgressEvent struct {
	OperationID string                 `json:"operation_id"`
	OrderNumber string                 `json:"order_number"`
	ItemID      string                 `json:"item_id"`
	OrderStatus string                 `json:"order_status"`
	Updates     []models.UpdateSummary `json:"updates"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Publisher sends progress events to interested consumers. Publish failures
// never fail the originating request; callers log and move on.
type Publisher interface {
	PublishProgress(ctx context.Context, event ProgressEvent) error
	Close() error
}

// serviceBusPublisher implements Publisher on an Azure Service Bus queue.
type serviceBusPublisher struct {
	client    *azservicebus.Client
	sender    *azservicebus.Sender
	queueName string
}

// NewServiceBusPublisher creates a sender-only Service Bus client. When no
// connection string is configured a no-op publisher is returned.
func NewServiceBusPublisher(cfg config.AzureConfig) (Publisher, error) {
	if cfg.QueueConnStr == "" {
		log.Warn().Msg("Service Bus connection string not provided, progress events will not be published")
		return &noopPublisher{}, nil
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.QueueConnStr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus client")
	}

	sender, err := client.NewSender(cfg.QueueName, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Service Bus sender")
	}

	return &serviceBusPublisher{
		client:    client,
		sender:    sender,
		queueName: cfg.QueueName,
	}, nil
}

// PublishProgress sends a progress event to the queue.
func (p *serviceBusPublisher) PublishProgress(ctx context.Context, event ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal progress event")
	}

	msg := &azservicebus.Message{
		Body: data,
		ApplicationProperties: map[string]interface{}{
			"source": "production-tracking",
			"order":  event.OrderNumber,
			"time":   event.Timestamp.UTC().Format(time.RFC3339),
		},
	}

	return p.sender.SendMessage(ctx, msg, nil)
}

// Close closes the sender and the underlying client.
func (p *serviceBusPublisher) Close() error {
	if p.sender != nil {
		if err := p.sender.Close(context.Background()); err != nil {
			return err
		}
	}
	if p.client != nil {
		return p.client.Close(context.Background())
	}
	return nil
}

type noopPublisher struct{}

func (*noopPublisher) PublishProgress(context.Context, ProgressEvent) error { return nil }
func (*noopPublisher) Close() error                                         { return nil }
