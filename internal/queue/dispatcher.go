package queue

// ReceiptEnqueuer 把回执派发转成队列任务，实现支付服务的派发接口
type ReceiptEnqueuer struct {
	client *Client
}

// NewReceiptEnqueuer 创建回执任务入队器
func NewReceiptEnqueuer(client *Client) *ReceiptEnqueuer {
	return &ReceiptEnqueuer{client: client}
}

// DispatchReceipt 推送回执邮件任务
func (e *ReceiptEnqueuer) DispatchReceipt(saleID uint) error {
	return e.client.EnqueueReceiptEmail(ReceiptEmailPayload{SaleID: saleID})
}
