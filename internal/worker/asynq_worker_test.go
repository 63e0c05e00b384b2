package worker

import (
	"context"
	"testing"

	"github.com/kaddo-next/internal/provider"
	"github.com/kaddo-next/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleReceiptEmailInvalidPayload(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskReceiptEmail, []byte("not json"))
	if err := c.handleReceiptEmail(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestHandleReceiptEmailZeroSaleID(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task, err := queue.NewReceiptEmailTask(queue.ReceiptEmailPayload{SaleID: 0})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := c.handleReceiptEmail(context.Background(), task); err != nil {
		t.Fatalf("zero sale id should be dropped, got %v", err)
	}
}

func TestHandleReceiptEmailMissingService(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task, err := queue.NewReceiptEmailTask(queue.ReceiptEmailPayload{SaleID: 42})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := c.handleReceiptEmail(context.Background(), task); err != nil {
		t.Fatalf("missing receipt service should not retry the task, got %v", err)
	}
}

func TestRegisterNilMux(t *testing.T) {
	c := NewConsumer(&provider.Container{})
	c.Register(nil)
}
