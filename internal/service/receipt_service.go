package service

import (
	"github.com/kaddo-next/internal/logger"
	"github.com/kaddo-next/internal/repository"
)

// ReceiptService 购买回执邮件组装与发送，既供 worker 消费任务调用，
// 也可在队列停用时作为同步派发的回落实现。
type ReceiptService struct {
	voucherRepo     repository.VoucherRepository
	distributorRepo repository.DistributorRepository
	email           *EmailService
	publicBaseURL   string
	currency        string
}

// NewReceiptService 创建回执服务
func NewReceiptService(
	voucherRepo repository.VoucherRepository,
	distributorRepo repository.DistributorRepository,
	email *EmailService,
	publicBaseURL, currency string,
) *ReceiptService {
	if currency == "" {
		currency = "EUR"
	}
	return &ReceiptService{
		voucherRepo:     voucherRepo,
		distributorRepo: distributorRepo,
		email:           email,
		publicBaseURL:   publicBaseURL,
		currency:        currency,
	}
}

// SendReceipt 加载礼券并发送回执邮件
func (s *ReceiptService) SendReceipt(saleID uint) error {
	voucher, err := s.voucherRepo.GetBySaleID(saleID)
	if err != nil {
		return err
	}
	if voucher == nil {
		return ErrVoucherNotFound
	}

	input := ReceiptEmailInput{
		ReceiverName:   voucher.ReceiverName,
		Amount:         voucher.Balance,
		Currency:       s.currency,
		NumberCode:     voucher.NumberCode,
		HashCode:       voucher.HashCode,
		ExpirationDate: voucher.ExpirationDate.Format("02-01-2006"),
		VoucherURL:     s.publicBaseURL + "/voucher/" + voucher.HashCode,
	}
	if voucher.Template != nil {
		distributor, err := s.distributorRepo.GetByID(voucher.Template.DistributorID)
		if err == nil && distributor != nil {
			input.Distributor = distributor.Name
		}
	}

	toEmail := voucher.ReceiverEmail
	if toEmail == "" && voucher.Sale != nil && voucher.Sale.Client != nil {
		toEmail = voucher.Sale.Client.Email
	}
	if err := s.email.SendReceiptEmail(toEmail, input); err != nil {
		return err
	}
	logger.Infow("receipt_email_sent", "sale_id", saleID, "voucher_id", voucher.ID)
	return nil
}

// DispatchReceipt 同步派发回执，实现支付服务的派发接口
func (s *ReceiptService) DispatchReceipt(saleID uint) error {
	return s.SendReceipt(saleID)
}
