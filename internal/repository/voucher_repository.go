package repository

import (
	"errors"

	"github.com/kaddo-next/internal/models"

	"gorm.io/gorm"
)

// VoucherRepository 礼券数据访问接口
type VoucherRepository interface {
	Create(voucher *models.Voucher) error
	GetByID(id uint) (*models.Voucher, error)
	GetBySaleID(saleID uint) (*models.Voucher, error)
	GetByHash(hash string) (*models.Voucher, error)
	GetByNumberCode(numberCode string) (*models.Voucher, error)
	CodeExists(hash, numberCode string) (bool, error)
	UpdateRedemption(id uint, version int64, used bool, balance models.Money) (bool, error)
	WithTx(tx *gorm.DB) *GormVoucherRepository
}

// GormVoucherRepository GORM 实现
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository 创建礼券仓库
func NewVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVoucherRepository) WithTx(tx *gorm.DB) *GormVoucherRepository {
	if tx == nil {
		return r
	}
	return &GormVoucherRepository{db: tx}
}

func (r *GormVoucherRepository) withRelations(query *gorm.DB) *gorm.DB {
	return query.Preload("Sale").Preload("Sale.Client").Preload("Template")
}

// Create 创建礼券
func (r *GormVoucherRepository) Create(voucher *models.Voucher) error {
	return r.db.Create(voucher).Error
}

// GetByID 根据 ID 获取礼券
func (r *GormVoucherRepository) GetByID(id uint) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.withRelations(r.db).First(&voucher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetBySaleID 根据销售单获取礼券
func (r *GormVoucherRepository) GetBySaleID(saleID uint) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.withRelations(r.db).Where("sale_id = ?", saleID).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetByHash 根据哈希码获取礼券
func (r *GormVoucherRepository) GetByHash(hash string) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.withRelations(r.db).Where("hash_code = ?", hash).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// GetByNumberCode 根据编号码获取礼券
func (r *GormVoucherRepository) GetByNumberCode(numberCode string) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := r.withRelations(r.db).Where("number_code = ?", numberCode).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// CodeExists 检查哈希码或编号码是否已被占用
func (r *GormVoucherRepository) CodeExists(hash, numberCode string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Voucher{}).
		Where("hash_code = ? OR number_code = ?", hash, numberCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateRedemption 条件更新核销状态：仅当版本号未变时写入，返回是否命中。
// 未命中说明存在并发核销，由调用方转换为冲突错误。
func (r *GormVoucherRepository) UpdateRedemption(id uint, version int64, used bool, balance models.Money) (bool, error) {
	result := r.db.Model(&models.Voucher{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"used":    used,
			"balance": balance,
			"version": version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
