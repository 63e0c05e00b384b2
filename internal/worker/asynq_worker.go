package worker

import (
	"context"
	"encoding/json"

	"github.com/kaddo-next/internal/logger"
	"github.com/kaddo-next/internal/provider"
	"github.com/kaddo-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReceiptEmail, c.handleReceiptEmail)
}

func (c *Consumer) handleReceiptEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_receipt_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReceiptEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_receipt_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.SaleID == 0 {
		logger.Debugw("worker_receipt_email_skip_invalid_payload", "sale_id", payload.SaleID)
		return nil
	}
	if c.ReceiptService == nil {
		logger.Warnw("worker_receipt_email_skip_service_nil", "sale_id", payload.SaleID)
		return nil
	}
	if err := c.ReceiptService.SendReceipt(payload.SaleID); err != nil {
		logger.Warnw("worker_receipt_email_send_failed", "sale_id", payload.SaleID, "error", err)
		return err
	}
	return nil
}
