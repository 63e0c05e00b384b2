package service

import (
	"time"

	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/repository"
)

// RedemptionService 礼券核销服务
type RedemptionService struct {
	voucherRepo     repository.VoucherRepository
	distributorRepo repository.DistributorRepository
}

// NewRedemptionService 创建核销服务
func NewRedemptionService(voucherRepo repository.VoucherRepository, distributorRepo repository.DistributorRepository) *RedemptionService {
	return &RedemptionService{voucherRepo: voucherRepo, distributorRepo: distributorRepo}
}

// RedemptionView 扫码端看到的礼券视图
type RedemptionView struct {
	ID           uint         `json:"id"`
	Paid         bool         `json:"paid"`
	OneUseOnly   bool         `json:"one_use_only"`
	Used         bool         `json:"used"`
	Balance      models.Money `json:"balance"`
	ReceiverName string       `json:"receiver_name"`
	HashCode     string       `json:"hash_code"`
}

// VoucherPageView 礼券持有人页面视图
type VoucherPageView struct {
	Balance        models.Money `json:"balance"`
	NumberCode     string       `json:"number_code"`
	ExpirationDate time.Time    `json:"expiration_date"`
	ReceiverName   string       `json:"receiver_name"`
	Used           bool         `json:"used"`
	Distributor    string       `json:"distributor,omitempty"`
}

// Lookup 按哈希码或编号码查找礼券
func (s *RedemptionService) Lookup(method, value string) (*RedemptionView, error) {
	voucher, err := s.findVoucher(method, value)
	if err != nil {
		return nil, err
	}
	view := &RedemptionView{
		ID:           voucher.ID,
		OneUseOnly:   voucher.Template != nil && voucher.Template.OneUseOnly,
		Used:         voucher.Used,
		Balance:      voucher.Balance,
		ReceiverName: voucher.ReceiverName,
		HashCode:     voucher.HashCode,
	}
	if voucher.Sale != nil {
		view.Paid = voucher.Sale.Paid
	}
	return view, nil
}

// Apply 核销一次消费：按固定顺序检查前置条件后做版本条件写入，
// 写入未命中说明有并发核销，返回冲突错误由调用方重试。
func (s *RedemptionService) Apply(hash string, newUsed bool, newBalance models.Money) (*RedemptionView, error) {
	voucher, err := s.findVoucher(constants.VoucherLookupByHash, hash)
	if err != nil {
		return nil, err
	}
	if voucher.Sale == nil || !voucher.Sale.Paid {
		return nil, ErrVoucherNotPaid
	}
	oneUseOnly := voucher.Template != nil && voucher.Template.OneUseOnly
	if oneUseOnly && voucher.Used {
		return nil, ErrVoucherAlreadyUsed
	}
	if voucher.Expired(time.Now()) {
		return nil, ErrVoucherExpired
	}
	if newBalance.IsNegative() || newBalance.GreaterThan(voucher.Sale.Amount) {
		return nil, ErrBalanceOutOfRange
	}
	// 整张使用的礼券核销后余额归零
	if oneUseOnly && newUsed {
		newBalance = models.ZeroMoney()
	}
	if newBalance.IsZero() {
		newUsed = true
	}

	ok, err := s.voucherRepo.UpdateRedemption(voucher.ID, voucher.Version, newUsed, newBalance)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRedemptionConflict
	}

	return &RedemptionView{
		ID:           voucher.ID,
		Paid:         true,
		OneUseOnly:   oneUseOnly,
		Used:         newUsed,
		Balance:      newBalance,
		ReceiverName: voucher.ReceiverName,
		HashCode:     voucher.HashCode,
	}, nil
}

// VoucherPage 礼券持有人页面：凭哈希码访问
func (s *RedemptionService) VoucherPage(hash string) (*VoucherPageView, error) {
	voucher, err := s.findVoucher(constants.VoucherLookupByHash, hash)
	if err != nil {
		return nil, err
	}
	view := &VoucherPageView{
		Balance:        voucher.Balance,
		NumberCode:     voucher.NumberCode,
		ExpirationDate: voucher.ExpirationDate,
		ReceiverName:   voucher.ReceiverName,
		Used:           voucher.Used,
	}
	if voucher.Template != nil && s.distributorRepo != nil {
		distributor, err := s.distributorRepo.GetByID(voucher.Template.DistributorID)
		if err == nil && distributor != nil {
			view.Distributor = distributor.Name
		}
	}
	return view, nil
}

func (s *RedemptionService) findVoucher(method, value string) (*models.Voucher, error) {
	var voucher *models.Voucher
	var err error
	switch method {
	case constants.VoucherLookupByNumberCode:
		voucher, err = s.voucherRepo.GetByNumberCode(value)
	default:
		voucher, err = s.voucherRepo.GetByHash(value)
	}
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	return voucher, nil
}
