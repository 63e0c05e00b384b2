package repository

import (
	"errors"

	"github.com/kaddo-next/internal/models"

	"gorm.io/gorm"
)

// ClientRepository 购买人数据访问接口
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id uint) (*models.Client, error)
	WithTx(tx *gorm.DB) *GormClientRepository
}

// GormClientRepository GORM 实现
type GormClientRepository struct {
	db *gorm.DB
}

// NewClientRepository 创建购买人仓库
func NewClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// WithTx 绑定事务
func (r *GormClientRepository) WithTx(tx *gorm.DB) *GormClientRepository {
	if tx == nil {
		return r
	}
	return &GormClientRepository{db: tx}
}

// Create 创建购买人
func (r *GormClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByID 根据 ID 获取购买人
func (r *GormClientRepository) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}
