package repository

import (
	"errors"
	"time"

	"github.com/kaddo-next/internal/models"

	"gorm.io/gorm"
)

// SaleRepository 销售单数据访问接口
type SaleRepository interface {
	Create(sale *models.Sale) error
	GetByID(id uint) (*models.Sale, error)
	GetByPaymentID(paymentID string) (*models.Sale, error)
	UpdatePaymentID(id uint, paymentID string) error
	MarkPaid(id uint, purchaseDate time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormSaleRepository
}

// GormSaleRepository GORM 实现
type GormSaleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售单仓库
func NewSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSaleRepository) WithTx(tx *gorm.DB) *GormSaleRepository {
	if tx == nil {
		return r
	}
	return &GormSaleRepository{db: tx}
}

// Create 创建销售单
func (r *GormSaleRepository) Create(sale *models.Sale) error {
	return r.db.Create(sale).Error
}

// GetByID 根据 ID 获取销售单
func (r *GormSaleRepository) GetByID(id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.Preload("Client").First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// GetByPaymentID 根据支付网关交易号获取销售单
func (r *GormSaleRepository) GetByPaymentID(paymentID string) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.Preload("Client").Where("payment_id = ?", paymentID).First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// UpdatePaymentID 写入支付网关交易号
func (r *GormSaleRepository) UpdatePaymentID(id uint, paymentID string) error {
	return r.db.Model(&models.Sale{}).Where("id = ?", id).Update("payment_id", paymentID).Error
}

// MarkPaid 标记销售单已支付并写入支付时间。条件写入：已支付的销售单不会
// 被二次更新，返回值指示本次调用是否真正完成了标记。
func (r *GormSaleRepository) MarkPaid(id uint, purchaseDate time.Time) (bool, error) {
	result := r.db.Model(&models.Sale{}).Where("id = ? AND paid = ?", id, false).Updates(map[string]interface{}{
		"paid":          true,
		"purchase_date": purchaseDate,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
