package sqs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// ConsumerAPI defines the interface for SQS operations used by Consumer.
type ConsumerAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Consumer reads product changes from AWS SQS and passes them to a ChangeHandler.
type Consumer struct {
	client   ConsumerAPI
	queueURL string
	handler  ChangeHandler
}

// NewConsumer creates a new SQS Consumer for queueURL.
// A nil handler logs changes through a StockNotifier with a zero threshold.
func NewConsumer(client ConsumerAPI, queueURL string, handler ChangeHandler) *Consumer {
	if handler == nil {
		handler = NewStockNotifier(nil, 0)
	}
	return &Consumer{
		client:   client,
		queueURL: queueURL,
		handler:  handler,
	}
}

// Start begins consuming messages from the SQS queue until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("Starting SQS consumer", slog.String("queue_url", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping SQS consumer")
			return ctx.Err()
		default:
			if err := c.receiveMessages(ctx); err != nil {
				slog.Error("Error receiving messages", slog.Any("err", err))
			}
		}
	}
}

func (c *Consumer) receiveMessages(ctx context.Context) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20, // Long polling
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, message := range result.Messages {
		err := c.processMessage(ctx, message)
		switch {
		case errors.Is(err, ErrInvalidMessage):
			// Redelivery cannot fix a malformed body.
			slog.Warn("Discarding invalid message", slog.Any("err", err), slog.String("message_id", aws.ToString(message.MessageId)))
		case err != nil:
			slog.Error("Error processing message", slog.Any("err", err), slog.String("message_id", aws.ToString(message.MessageId)))
			continue
		}

		if err := c.deleteMessage(ctx, message); err != nil {
			slog.Error("Error deleting message", slog.Any("err", err))
		}
	}

	return nil
}

func (c *Consumer) processMessage(ctx context.Context, message types.Message) error {
	if message.Body == nil {
		return fmt.Errorf("%w: message body is nil", ErrInvalidMessage)
	}

	msg, err := DecodeProductMessage(*message.Body)
	if err != nil {
		return err
	}

	if err := c.handler.HandleChange(ctx, msg); err != nil {
		return fmt.Errorf("failed to handle %s change for product %d: %w", msg.Action, msg.ProductID, err)
	}
	return nil
}

func (c *Consumer) deleteMessage(ctx context.Context, message types.Message) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
