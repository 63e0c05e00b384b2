package repository

import (
	"errors"

	"github.com/kaddo-next/internal/models"

	"gorm.io/gorm"
)

// DistributorUserRepository 员工账号数据访问接口
type DistributorUserRepository interface {
	GetByID(id uint) (*models.DistributorUser, error)
	GetByUsername(username string) (*models.DistributorUser, error)
	Create(user *models.DistributorUser) error
	WithTx(tx *gorm.DB) *GormDistributorUserRepository
}

// GormDistributorUserRepository GORM 实现
type GormDistributorUserRepository struct {
	db *gorm.DB
}

// NewDistributorUserRepository 创建员工账号仓库
func NewDistributorUserRepository(db *gorm.DB) *GormDistributorUserRepository {
	return &GormDistributorUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDistributorUserRepository) WithTx(tx *gorm.DB) *GormDistributorUserRepository {
	if tx == nil {
		return r
	}
	return &GormDistributorUserRepository{db: tx}
}

// GetByID 根据 ID 获取员工账号
func (r *GormDistributorUserRepository) GetByID(id uint) (*models.DistributorUser, error) {
	var user models.DistributorUser
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取员工账号
func (r *GormDistributorUserRepository) GetByUsername(username string) (*models.DistributorUser, error) {
	var user models.DistributorUser
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建员工账号
func (r *GormDistributorUserRepository) Create(user *models.DistributorUser) error {
	return r.db.Create(user).Error
}
