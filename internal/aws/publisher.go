package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// OrderEvent is the payload published after an order mutation succeeds.
type OrderEvent struct {
	OrderID    string `json:"order_id"`
	Event      string `json:"event"` // e.g. "ORDER_CREATED", "ORDER_DELETED"
	OccurredAt string `json:"occurred_at"`
}

// Publisher wraps an SQS client and a queue URL. A Publisher with an empty
// queue URL is a no-op, so callers never need to branch on configuration.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
	nowFunc  func() time.Time
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
		nowFunc:  time.Now,
	}
}

// PublishOrderEvent sends an order lifecycle event to the configured queue.
// attributes are attached as string message attributes.
func (p *Publisher) PublishOrderEvent(ctx context.Context, orderID, event string, attributes map[string]string) error {
	if p.QueueURL == "" {
		return nil
	}

	body, err := json.Marshal(OrderEvent{
		OrderID:    orderID,
		Event:      event,
		OccurredAt: p.nowFunc().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	messageBody := string(body)
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &messageBody,
	}
	if len(attributes) > 0 {
		msgAttrs := map[string]sqstypes.MessageAttributeValue{}
		for k, v := range attributes {
			// using string type for all attrs
			msgAttrs[k] = sqstypes.MessageAttributeValue{
				DataType:    awsString("String"),
				StringValue: &v,
			}
		}
		input.MessageAttributes = msgAttrs
	}

	_, err = p.SQS.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
