package repository

import (
	"errors"

	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/models"

	"gorm.io/gorm"
)

// TemplateRepository 礼券模板数据访问接口
type TemplateRepository interface {
	GetByID(id uint) (*models.VoucherTemplate, error)
	ListActive(distributorID uint) ([]models.VoucherTemplate, error)
	ListMostRecent(distributorID uint) ([]models.VoucherTemplate, error)
	MostRecentActiveTemplate(distributorID uint) (*models.VoucherTemplate, error)
	PublishSet(distributorID uint, kind constants.VoucherKind, drafts []models.VoucherTemplate) error
	WithTx(tx *gorm.DB) *GormTemplateRepository
}

// GormTemplateRepository GORM 实现
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository 创建模板仓库
func NewTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTemplateRepository) WithTx(tx *gorm.DB) *GormTemplateRepository {
	if tx == nil {
		return r
	}
	return &GormTemplateRepository{db: tx}
}

// GetByID 根据 ID 获取模板
func (r *GormTemplateRepository) GetByID(id uint) (*models.VoucherTemplate, error) {
	var template models.VoucherTemplate
	if err := r.db.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// ListActive 获取经销商当前在售的模板
func (r *GormTemplateRepository) ListActive(distributorID uint) ([]models.VoucherTemplate, error) {
	var templates []models.VoucherTemplate
	err := r.db.Where("distributor_id = ? AND active = ?", distributorID, true).
		Order("amount ASC, id ASC").
		Find(&templates).Error
	return templates, err
}

// ListMostRecent 获取经销商每类模板的最新版本
func (r *GormTemplateRepository) ListMostRecent(distributorID uint) ([]models.VoucherTemplate, error) {
	var templates []models.VoucherTemplate
	err := r.db.Where("distributor_id = ? AND most_recent_version = ?", distributorID, true).
		Order("kind ASC, amount ASC, id ASC").
		Find(&templates).Error
	return templates, err
}

// MostRecentActiveTemplate 获取最近一次发布的在售模板（同一次发布共享同一
// create_date，取 create_date 与 id 倒序的首条以消除并发发布的歧义）
func (r *GormTemplateRepository) MostRecentActiveTemplate(distributorID uint) (*models.VoucherTemplate, error) {
	var template models.VoucherTemplate
	err := r.db.Where("distributor_id = ? AND active = ?", distributorID, true).
		Order("create_date DESC, id DESC").
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// PublishSet 发布一组新模板：同类旧版本摘除最新标记，全经销商旧模板下架，
// 新模板以在售+最新身份插入。三步在同一事务内完成。
func (r *GormTemplateRepository) PublishSet(distributorID uint, kind constants.VoucherKind, drafts []models.VoucherTemplate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.VoucherTemplate{}).
			Where("distributor_id = ? AND kind = ?", distributorID, kind).
			Update("most_recent_version", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.VoucherTemplate{}).
			Where("distributor_id = ?", distributorID).
			Update("active", false).Error; err != nil {
			return err
		}
		for i := range drafts {
			drafts[i].DistributorID = distributorID
			drafts[i].Kind = kind
			drafts[i].Active = true
			drafts[i].MostRecentVersion = true
		}
		return tx.Create(&drafts).Error
	})
}
