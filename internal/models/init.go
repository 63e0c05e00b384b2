package models

import (
	"errors"

	"github.com/kaddo-next/internal/logger"

	"gorm.io/gorm"
)

// InitDefaultStaff 初始化默认员工账号（仅在没有任何账号时执行）。
// 员工必须隶属于某个经销商，没有经销商时先建一个演示经销商。
func InitDefaultStaff(username, password string, distributorID uint) error {
	var count int64
	DB.Model(&DistributorUser{}).Count(&count)
	if count > 0 {
		return nil
	}

	if username == "" {
		username = "staff"
	}
	if password == "" {
		password = "staff123"
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	if distributorID == 0 {
		distributorID, err = ensureDefaultDistributor()
		if err != nil {
			return err
		}
	}

	user := DistributorUser{
		Username:      username,
		PasswordHash:  hash,
		DistributorID: distributorID,
		DisplayName:   username,
	}
	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	if password == "staff123" {
		logger.Warnw("default_staff_created_with_default_password", "username", username)
		logger.Warnw("default_staff_password_change_required", "username", username)
	} else {
		logger.Warnw("default_staff_created", "username", username, "password_hidden", true)
	}

	return nil
}

// ensureDefaultDistributor 返回第一个经销商的 ID，没有则创建演示经销商
func ensureDefaultDistributor() (uint, error) {
	var distributor Distributor
	err := DB.Order("id ASC").First(&distributor).Error
	if err == nil {
		return distributor.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	distributor = Distributor{
		Name:      "Demo winkel",
		Email:     "demo@kaddo.local",
		Subdomain: "demo",
	}
	if err := DB.Create(&distributor).Error; err != nil {
		return 0, err
	}
	logger.Warnw("default_distributor_created", "subdomain", distributor.Subdomain)
	return distributor.ID, nil
}
