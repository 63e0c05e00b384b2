package queue

import (
	"encoding/json"

	"github.com/kaddo-next/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskReceiptEmail 购买回执邮件任务
const TaskReceiptEmail = constants.TaskReceiptEmail

// ReceiptEmailPayload 回执邮件任务载荷
type ReceiptEmailPayload struct {
	SaleID uint `json:"sale_id"`
}

// NewReceiptEmailTask 创建回执邮件任务
func NewReceiptEmailTask(payload ReceiptEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReceiptEmail, body), nil
}
