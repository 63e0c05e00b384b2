package main

import (
	"time"

	"github.com/kaddo-next/internal/config"
	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/logger"
	"github.com/kaddo-next/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加示例地点
	location := models.Location{Postalcode: "2000", City: "Antwerpen"}
	var existingLocation models.Location
	if err := models.DB.Where("postalcode = ? AND city = ?", location.Postalcode, location.City).First(&existingLocation).Error; err != nil {
		if err := models.DB.Create(&location).Error; err != nil {
			stdLog.Fatalf("Failed to create location: %v", err)
		}
		stdLog.Printf("Created location: %s %s", location.Postalcode, location.City)
	} else {
		location = existingLocation
		stdLog.Printf("Location already exists: %s %s", location.Postalcode, location.City)
	}

	// 添加示例经销商
	distributor := models.Distributor{
		Name:          "Boekhandel De Pagina",
		Email:         "info@depagina.be",
		Tel:           "+32 3 123 45 67",
		Address:       "Meir 12",
		LocationID:    location.ID,
		Subdomain:     "depagina",
		Description:   "Onafhankelijke boekhandel in het hart van Antwerpen.",
		BankAccountNr: "BE68 5390 0754 7034",
		BTWNr:         "BE 0123.456.789",
	}
	var existingDistributor models.Distributor
	if err := models.DB.Where("subdomain = ?", distributor.Subdomain).First(&existingDistributor).Error; err != nil {
		if err := models.DB.Create(&distributor).Error; err != nil {
			stdLog.Fatalf("Failed to create distributor: %v", err)
		}
		stdLog.Printf("Created distributor: %s", distributor.Subdomain)
	} else {
		distributor = existingDistributor
		stdLog.Printf("Distributor already exists: %s", distributor.Subdomain)
	}

	// 添加示例员工账号
	staff := []struct {
		Username    string
		Password    string
		DisplayName string
	}{
		{Username: "demo-staff", Password: "demo-staff123", DisplayName: "Demo medewerker"},
		{Username: "demo-scanner", Password: "demo-scanner123", DisplayName: "Demo kassascanner"},
	}
	for _, s := range staff {
		var existing models.DistributorUser
		if err := models.DB.Where("username = ?", s.Username).First(&existing).Error; err == nil {
			stdLog.Printf("Staff user already exists: %s", s.Username)
			continue
		}
		hash, err := models.HashPassword(s.Password)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", s.Username, err)
			continue
		}
		user := models.DistributorUser{
			Username:      s.Username,
			PasswordHash:  hash,
			DistributorID: distributor.ID,
			DisplayName:   s.DisplayName,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create staff user %s: %v", s.Username, err)
		} else {
			stdLog.Printf("Created staff user: %s", s.Username)
		}
	}

	// 添加示例模板（经销商已有生效模板时跳过）
	var activeCount int64
	models.DB.Model(&models.VoucherTemplate{}).
		Where("distributor_id = ? AND active = ?", distributor.ID, true).
		Count(&activeCount)
	if activeCount > 0 {
		stdLog.Printf("Distributor %s already has active templates, skip template seed", distributor.Subdomain)
		return
	}

	now := time.Now()
	templates := []models.VoucherTemplate{
		{
			DistributorID:     distributor.ID,
			Kind:              constants.VoucherKindThreeOption,
			Amount:            models.MustMoney("10.00"),
			Description:       "Cadeaubon 10 euro",
			DaysValid:         365,
			Active:            true,
			MostRecentVersion: true,
			CreateDate:        now,
		},
		{
			DistributorID:     distributor.ID,
			Kind:              constants.VoucherKindThreeOption,
			Amount:            models.MustMoney("25.00"),
			Description:       "Cadeaubon 25 euro",
			DaysValid:         365,
			Active:            true,
			MostRecentVersion: true,
			CreateDate:        now,
		},
		{
			DistributorID:     distributor.ID,
			Kind:              constants.VoucherKindThreeOption,
			Amount:            models.MustMoney("50.00"),
			Description:       "Cadeaubon 50 euro",
			DaysValid:         365,
			Active:            true,
			MostRecentVersion: true,
			CreateDate:        now,
		},
		{
			DistributorID:     distributor.ID,
			Kind:              constants.VoucherKindRange,
			Amount:            models.MustMoney("20.00"),
			MinAmount:         models.MustMoney("10.00"),
			MaxAmount:         models.MustMoney("150.00"),
			Description:       "Kies zelf een bedrag",
			DaysValid:         365,
			Active:            true,
			MostRecentVersion: true,
			CreateDate:        now,
		},
		{
			DistributorID:     distributor.ID,
			Kind:              constants.VoucherKindLabel,
			Amount:            models.MustMoney("35.00"),
			Label:             "Verjaardag",
			Description:       "Verjaardagsbon met vaste waarde",
			DaysValid:         180,
			Active:            true,
			OneUseOnly:        true,
			MostRecentVersion: true,
			CreateDate:        now,
		},
	}
	for _, tpl := range templates {
		if err := models.DB.Create(&tpl).Error; err != nil {
			stdLog.Printf("Failed to create template %s: %v", tpl.Kind, err)
		} else {
			stdLog.Printf("Created template: kind=%s amount=%s", tpl.Kind, tpl.Amount.String())
		}
	}

	stdLog.Println("Seed data created successfully")
}
