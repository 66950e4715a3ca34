// Package jobs defines the asynq task types shared by the API and the worker.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TypeOrderConfirmation is the task type for post-checkout notifications.
const TypeOrderConfirmation = "order:confirmation"

// OrderConfirmationPayload carries what the notification needs.
type OrderConfirmationPayload struct {
	OrderID      string   `json:"orderId"`
	UserID       string   `json:"userId"`
	Total        int64    `json:"total"`
	Currency     string   `json:"currency"`
	NearestStore string   `json:"nearestStore"`
	Stores       []string `json:"stores"`
}

// NewOrderConfirmationTask builds the asynq task for a placed order.
func NewOrderConfirmationTask(p OrderConfirmationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal order confirmation: %w", err)
	}
	return asynq.NewTask(TypeOrderConfirmation, data, asynq.MaxRetry(5)), nil
}

// Enqueuer is the subset of asynq.Client checkout depends on.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueOrderConfirmation submits the notification task. A nil client is a
// no-op so tests and minimal deployments can skip the queue.
func EnqueueOrderConfirmation(ctx context.Context, client Enqueuer, p OrderConfirmationPayload) error {
	if client == nil {
		return nil
	}
	task, err := NewOrderConfirmationTask(p)
	if err != nil {
		return err
	}
	_, err = client.EnqueueContext(ctx, task)
	return err
}

// OrderConfirmationHandler processes confirmation tasks on the worker.
type OrderConfirmationHandler struct {
	Log zerolog.Logger
}

// ProcessTask logs the confirmation. Delivery channels (email, SMS) hang off
// this handler as they land.
func (h *OrderConfirmationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p OrderConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal order confirmation: %w", err)
	}
	h.Log.Info().
		Str("order_id", p.OrderID).
		Str("user_id", p.UserID).
		Int64("total", p.Total).
		Str("nearest_store", p.NearestStore).
		Strs("stores", p.Stores).
		Msg("order confirmation dispatched")
	return nil
}
