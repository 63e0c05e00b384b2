package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupVoucherRepositoryTest(t *testing.T) (*GormVoucherRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:voucher_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.VoucherTemplate{},
		&models.Client{},
		&models.Sale{},
		&models.Voucher{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewVoucherRepository(db), db
}

func seedVoucherRow(t *testing.T, db *gorm.DB, hashCode, numberCode string) *models.Voucher {
	t.Helper()
	client := models.Client{FirstName: "Jan", LastName: "Peeters", Email: "jan@example.com"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	template := models.VoucherTemplate{
		DistributorID: 1,
		Kind:          constants.VoucherKindThreeOption,
		Amount:        models.MustMoney("50.00"),
		DaysValid:     90,
		CreateDate:    time.Now(),
	}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("create template failed: %v", err)
	}
	now := time.Now()
	sale := models.Sale{ClientID: client.ID, Amount: models.MustMoney("50.00"), Paid: true, PurchaseDate: &now}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
	voucher := models.Voucher{
		SaleID:         sale.ID,
		TemplateID:     template.ID,
		ReceiverName:   "Mia Peeters",
		Balance:        models.MustMoney("50.00"),
		ExpirationDate: time.Now().AddDate(0, 0, 90),
		HashCode:       hashCode,
		NumberCode:     numberCode,
	}
	if err := db.Create(&voucher).Error; err != nil {
		t.Fatalf("create voucher failed: %v", err)
	}
	return &voucher
}

func TestVoucherRepositoryUpdateRedemption(t *testing.T) {
	repo, db := setupVoucherRepositoryTest(t)
	voucher := seedVoucherRow(t, db, "hash-update", "1-00001")

	ok, err := repo.UpdateRedemption(voucher.ID, voucher.Version, false, models.MustMoney("30.00"))
	if err != nil {
		t.Fatalf("update redemption failed: %v", err)
	}
	if !ok {
		t.Fatal("matching version must hit exactly one row")
	}

	var stored models.Voucher
	if err := db.First(&stored, voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher failed: %v", err)
	}
	if !stored.Balance.Equal(models.MustMoney("30.00")) || stored.Version != voucher.Version+1 {
		t.Fatalf("unexpected stored state: balance=%s version=%d", stored.Balance.String(), stored.Version)
	}

	// 旧版本号重放必须未命中且不改动数据
	ok, err = repo.UpdateRedemption(voucher.ID, voucher.Version, true, models.ZeroMoney())
	if err != nil {
		t.Fatalf("stale update failed: %v", err)
	}
	if ok {
		t.Fatal("stale version must not match")
	}
	if err := db.First(&stored, voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher failed: %v", err)
	}
	if stored.Used || !stored.Balance.Equal(models.MustMoney("30.00")) {
		t.Fatalf("stale update must not change the row: %+v", stored)
	}
}

func TestVoucherRepositoryCodeExists(t *testing.T) {
	repo, db := setupVoucherRepositoryTest(t)
	seedVoucherRow(t, db, "hash-taken", "1-11111")

	for _, tc := range []struct {
		hash       string
		numberCode string
		want       bool
	}{
		{hash: "hash-taken", numberCode: "9-99999", want: true},
		{hash: "hash-free", numberCode: "1-11111", want: true},
		{hash: "hash-free", numberCode: "9-99999", want: false},
	} {
		exists, err := repo.CodeExists(tc.hash, tc.numberCode)
		if err != nil {
			t.Fatalf("code exists failed: %v", err)
		}
		if exists != tc.want {
			t.Fatalf("CodeExists(%q, %q) = %v, want %v", tc.hash, tc.numberCode, exists, tc.want)
		}
	}
}

func TestVoucherRepositoryLookupsPreloadRelations(t *testing.T) {
	repo, db := setupVoucherRepositoryTest(t)
	voucher := seedVoucherRow(t, db, "hash-preload", "1-22222")

	byHash, err := repo.GetByHash("hash-preload")
	if err != nil {
		t.Fatalf("get by hash failed: %v", err)
	}
	if byHash == nil || byHash.Sale == nil || byHash.Sale.Client == nil || byHash.Template == nil {
		t.Fatalf("lookup must preload sale, client and template: %+v", byHash)
	}

	byCode, err := repo.GetByNumberCode("1-22222")
	if err != nil {
		t.Fatalf("get by number code failed: %v", err)
	}
	if byCode == nil || byCode.ID != voucher.ID {
		t.Fatalf("unexpected voucher by number code: %+v", byCode)
	}

	missing, err := repo.GetByHash("hash-missing")
	if err != nil {
		t.Fatalf("get missing voucher failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing voucher must return nil, got: %+v", missing)
	}
}
