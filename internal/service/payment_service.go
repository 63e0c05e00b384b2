package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/logger"
	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/repository"
)

// GatewayPayment 支付网关侧的支付对象
type GatewayPayment struct {
	ID          string
	Status      string
	CheckoutURL string
}

// PaymentGateway 支付网关接口
type PaymentGateway interface {
	CreatePayment(ctx context.Context, amount models.Money, description, redirectURL, webhookURL string) (*GatewayPayment, error)
	UpdateRedirectURL(ctx context.Context, paymentID, redirectURL string) error
	GetPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
}

// ReceiptDispatcher 支付确认后的回执邮件派发接口
type ReceiptDispatcher interface {
	DispatchReceipt(saleID uint) error
}

// PaymentServiceConfig 支付服务配置
type PaymentServiceConfig struct {
	TransactionFee models.Money
	Description    string
	PublicBaseURL  string
}

// PaymentService 支付对账服务
type PaymentService struct {
	saleRepo        repository.SaleRepository
	voucherRepo     repository.VoucherRepository
	distributorRepo repository.DistributorRepository
	gateway         PaymentGateway
	receipts        ReceiptDispatcher
	cfg             PaymentServiceConfig
}

// NewPaymentService 创建支付对账服务
func NewPaymentService(
	saleRepo repository.SaleRepository,
	voucherRepo repository.VoucherRepository,
	distributorRepo repository.DistributorRepository,
	gateway PaymentGateway,
	receipts ReceiptDispatcher,
	cfg PaymentServiceConfig,
) *PaymentService {
	return &PaymentService{
		saleRepo:        saleRepo,
		voucherRepo:     voucherRepo,
		distributorRepo: distributorRepo,
		gateway:         gateway,
		receipts:        receipts,
		cfg:             cfg,
	}
}

// InitiatePaymentResult 发起支付结果
type InitiatePaymentResult struct {
	PaymentID   string `json:"payment_id"`
	CheckoutURL string `json:"checkout_url"`
}

// InitiatePayment 在网关侧创建支付：金额为销售额加交易费，创建成功后
// 先落库交易号，再把跳转地址改写为带交易号的状态页。
func (s *PaymentService) InitiatePayment(ctx context.Context, saleID uint) (*InitiatePaymentResult, error) {
	sale, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	if sale.Paid {
		return nil, ErrSaleAlreadyPaid
	}
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}

	total := sale.Amount.Add(s.cfg.TransactionFee)
	payment, err := s.gateway.CreatePayment(ctx, total, s.cfg.Description,
		s.cfg.PublicBaseURL+"/", s.cfg.PublicBaseURL+"/webhook/payment")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if err := s.saleRepo.UpdatePaymentID(sale.ID, payment.ID); err != nil {
		return nil, err
	}
	redirect := s.cfg.PublicBaseURL + "/check/" + payment.ID
	if err := s.gateway.UpdateRedirectURL(ctx, payment.ID, redirect); err != nil {
		logger.Warnw("payment_redirect_update_failed", "payment_id", payment.ID, "error", err)
	}
	return &InitiatePaymentResult{PaymentID: payment.ID, CheckoutURL: payment.CheckoutURL}, nil
}

// ConfirmPayment 回调路径：回调体只携带交易号，支付状态必须从网关重新拉取。
// 已确认过的销售单直接返回，不会重复写库或重发邮件。
func (s *PaymentService) ConfirmPayment(ctx context.Context, paymentID string) error {
	sale, err := s.saleRepo.GetByPaymentID(paymentID)
	if err != nil {
		return err
	}
	if sale == nil {
		return ErrSaleNotFound
	}
	if sale.Paid {
		return nil
	}
	if s.gateway == nil {
		return ErrGatewayUnavailable
	}

	payment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if payment.Status != "paid" {
		logger.Infow("payment_not_paid_yet", "payment_id", paymentID, "status", payment.Status)
		return nil
	}

	// 条件写入保证并发到达的同一回调只有一个赢家派发回执
	won, err := s.saleRepo.MarkPaid(sale.ID, time.Now())
	if err != nil {
		return err
	}
	if !won {
		logger.Infow("payment_already_confirmed", "sale_id", sale.ID, "payment_id", paymentID)
		return nil
	}
	// 邮件失败只记录，不回滚已确认的支付
	if s.receipts != nil {
		if err := s.receipts.DispatchReceipt(sale.ID); err != nil {
			logger.Errorw("receipt_dispatch_failed", "sale_id", sale.ID, "error", err)
		}
	}
	logger.Infow("payment_confirmed", "sale_id", sale.ID, "payment_id", paymentID)
	return nil
}

// PollPaymentStatus 查询支付状态，仅读取，永不写库
func (s *PaymentService) PollPaymentStatus(ctx context.Context, paymentID string) (constants.PaymentStatus, error) {
	sale, err := s.saleRepo.GetByPaymentID(paymentID)
	if err != nil {
		return "", err
	}
	if sale == nil {
		return "", ErrSaleNotFound
	}
	if sale.Paid {
		return constants.PaymentStatusPaid, nil
	}
	if s.gateway == nil {
		return "", ErrGatewayUnavailable
	}

	payment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	switch payment.Status {
	case "paid":
		return constants.PaymentStatusPaid, nil
	case "open", "pending", "authorized":
		return constants.PaymentStatusPending, nil
	default:
		return constants.PaymentStatusFailed, nil
	}
}

// ConfirmationView 订单确认页数据
type ConfirmationView struct {
	VoucherID   uint         `json:"voucher_id"`
	Price       models.Money `json:"price"`
	Fee         models.Money `json:"fee"`
	Total       models.Money `json:"total"`
	FromName    string       `json:"from_name"`
	ToName      string       `json:"to_name"`
	CheckoutURL string       `json:"checkout_url"`
	PaymentID   string       `json:"payment_id"`
	Distributor string       `json:"distributor,omitempty"`
}

// ConfirmationPage 购买确认页：汇总订单并确保网关侧存在待支付的支付对象
func (s *PaymentService) ConfirmationPage(ctx context.Context, hash string) (*ConfirmationView, error) {
	voucher, err := s.voucherRepo.GetByHash(hash)
	if err != nil {
		return nil, err
	}
	if voucher == nil || voucher.Sale == nil {
		return nil, ErrVoucherNotFound
	}
	sale := voucher.Sale
	if sale.Paid {
		return nil, ErrSaleAlreadyPaid
	}

	view := &ConfirmationView{
		VoucherID: voucher.ID,
		Price:     sale.Amount,
		Fee:       s.cfg.TransactionFee,
		Total:     sale.Amount.Add(s.cfg.TransactionFee),
		ToName:    voucher.ReceiverName,
	}
	if sale.Client != nil {
		view.FromName = sale.Client.FullName()
	}
	if voucher.Template != nil && s.distributorRepo != nil {
		distributor, err := s.distributorRepo.GetByID(voucher.Template.DistributorID)
		if err == nil && distributor != nil {
			view.Distributor = distributor.Name
		}
	}

	if sale.PaymentID == "" {
		initiated, err := s.InitiatePayment(ctx, sale.ID)
		if err != nil {
			return nil, err
		}
		view.PaymentID = initiated.PaymentID
		view.CheckoutURL = initiated.CheckoutURL
		return view, nil
	}

	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	payment, err := s.gateway.GetPayment(ctx, sale.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	view.PaymentID = payment.ID
	view.CheckoutURL = payment.CheckoutURL
	return view, nil
}
