package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrInvalidMessage is returned for bodies that do not describe a product change.
	ErrInvalidMessage = errors.New("invalid product message")
)

// ChangeHandler reacts to a product change read from the queue.
// A non-nil error leaves the message on the queue for redelivery.
type ChangeHandler interface {
	HandleChange(ctx context.Context, msg ProductMessage) error
}

// ChangeHandlerFunc adapts a function to ChangeHandler.
type ChangeHandlerFunc func(ctx context.Context, msg ProductMessage) error

// HandleChange calls f(ctx, msg).
func (f ChangeHandlerFunc) HandleChange(ctx context.Context, msg ProductMessage) error {
	return f(ctx, msg)
}

// DecodeProductMessage parses a queue body and checks that it names a known
// action and a stored product.
func DecodeProductMessage(body string) (ProductMessage, error) {
	var msg ProductMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return ProductMessage{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	switch msg.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return ProductMessage{}, fmt.Errorf("%w: unknown action %q", ErrInvalidMessage, msg.Action)
	}
	if msg.ProductID <= 0 {
		return ProductMessage{}, fmt.Errorf("%w: missing product id", ErrInvalidMessage)
	}
	return msg, nil
}

// StockNotifier logs inventory changes and warns when a product's quantity
// drops to the low stock threshold or below.
type StockNotifier struct {
	logger            *slog.Logger
	lowStockThreshold int64
}

// NewStockNotifier returns a StockNotifier writing to logger.
// A nil logger means slog.Default().
func NewStockNotifier(logger *slog.Logger, lowStockThreshold int64) *StockNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &StockNotifier{
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
	}
}

// HandleChange implements ChangeHandler.
func (n *StockNotifier) HandleChange(ctx context.Context, msg ProductMessage) error {
	if msg.Action == ActionDeleted {
		n.logger.InfoContext(ctx, "Product removed from inventory", slog.Int64("product_id", msg.ProductID))
		return nil
	}

	n.logger.InfoContext(ctx, "Received inventory change",
		slog.String("action", msg.Action),
		slog.Int64("product_id", msg.ProductID),
		slog.String("name", msg.Name),
		slog.Int64("quantity", msg.Quantity),
		slog.Float64("price", msg.Price),
	)

	switch {
	case msg.Quantity == 0:
		n.logger.WarnContext(ctx, "Product out of stock",
			slog.Int64("product_id", msg.ProductID),
			slog.String("name", msg.Name),
		)
	case msg.Quantity <= n.lowStockThreshold:
		n.logger.WarnContext(ctx, "Product low on stock",
			slog.Int64("product_id", msg.ProductID),
			slog.String("name", msg.Name),
			slog.Int64("quantity", msg.Quantity),
			slog.Int64("threshold", n.lowStockThreshold),
		)
	}
	return nil
}
