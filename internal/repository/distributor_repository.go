package repository

import (
	"errors"

	"github.com/kaddo-next/internal/models"

	"gorm.io/gorm"
)

// DistributorRepository 经销商数据访问接口
type DistributorRepository interface {
	GetByID(id uint) (*models.Distributor, error)
	GetBySubdomain(subdomain string) (*models.Distributor, error)
	Create(distributor *models.Distributor) error
	Update(id uint, updates map[string]interface{}) error
	UpsertLocation(location *models.Location) error
	WithTx(tx *gorm.DB) *GormDistributorRepository
}

// GormDistributorRepository GORM 实现
type GormDistributorRepository struct {
	db *gorm.DB
}

// NewDistributorRepository 创建经销商仓库
func NewDistributorRepository(db *gorm.DB) *GormDistributorRepository {
	return &GormDistributorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDistributorRepository) WithTx(tx *gorm.DB) *GormDistributorRepository {
	if tx == nil {
		return r
	}
	return &GormDistributorRepository{db: tx}
}

// GetByID 根据 ID 获取经销商
func (r *GormDistributorRepository) GetByID(id uint) (*models.Distributor, error) {
	var distributor models.Distributor
	if err := r.db.Preload("Location").First(&distributor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &distributor, nil
}

// GetBySubdomain 根据子域名获取经销商
func (r *GormDistributorRepository) GetBySubdomain(subdomain string) (*models.Distributor, error) {
	var distributor models.Distributor
	if err := r.db.Preload("Location").Where("subdomain = ?", subdomain).First(&distributor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &distributor, nil
}

// Create 创建经销商
func (r *GormDistributorRepository) Create(distributor *models.Distributor) error {
	return r.db.Create(distributor).Error
}

// Update 更新经销商资料
func (r *GormDistributorRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Distributor{}).Where("id = ?", id).Updates(updates).Error
}

// UpsertLocation 创建或更新所在地
func (r *GormDistributorRepository) UpsertLocation(location *models.Location) error {
	if location.ID == 0 {
		return r.db.Create(location).Error
	}
	return r.db.Save(location).Error
}
