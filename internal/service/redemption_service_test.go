package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRedemptionServiceTest(t *testing.T) (*RedemptionService, *repository.GormVoucherRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:redemption_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Distributor{},
		&models.VoucherTemplate{},
		&models.Client{},
		&models.Sale{},
		&models.Voucher{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	repo := repository.NewVoucherRepository(db)
	return NewRedemptionService(repo, repository.NewDistributorRepository(db)), repo, db
}

type redemptionSeed struct {
	Paid       bool
	OneUseOnly bool
	Used       bool
	Amount     string
	Balance    string
	Expired    bool
}

func seedRedemptionVoucher(t *testing.T, db *gorm.DB, seed redemptionSeed) *models.Voucher {
	t.Helper()
	client := models.Client{FirstName: "An", LastName: "Vermeulen", Email: "an@example.com"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	template := models.VoucherTemplate{
		DistributorID: 1,
		Kind:          constants.VoucherKindThreeOption,
		Amount:        models.MustMoney(seed.Amount),
		DaysValid:     90,
		OneUseOnly:    seed.OneUseOnly,
		CreateDate:    time.Now(),
	}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("create template failed: %v", err)
	}
	sale := models.Sale{ClientID: client.ID, Amount: models.MustMoney(seed.Amount), Paid: seed.Paid}
	if seed.Paid {
		now := time.Now()
		sale.PaymentID = fmt.Sprintf("tr_%d", now.UnixNano())
		sale.PurchaseDate = &now
	}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("create sale failed: %v", err)
	}

	expiration := time.Now().AddDate(0, 0, 90)
	if seed.Expired {
		expiration = time.Now().Add(-time.Hour)
	}
	voucher := models.Voucher{
		SaleID:         sale.ID,
		TemplateID:     template.ID,
		ReceiverName:   "An Vermeulen",
		ReceiverEmail:  "an@example.com",
		Balance:        models.MustMoney(seed.Balance),
		Used:           seed.Used,
		ExpirationDate: expiration,
		HashCode:       fmt.Sprintf("hash_%d", time.Now().UnixNano()),
		NumberCode:     fmt.Sprintf("%d-%05d", client.ID, time.Now().UnixNano()%100000),
	}
	if err := db.Create(&voucher).Error; err != nil {
		t.Fatalf("create voucher failed: %v", err)
	}
	return &voucher
}

func TestRedemptionServiceApplyPartial(t *testing.T) {
	svc, _, db := setupRedemptionServiceTest(t)
	voucher := seedRedemptionVoucher(t, db, redemptionSeed{Paid: true, Amount: "50.00", Balance: "50.00"})

	view, err := svc.Apply(voucher.HashCode, false, models.MustMoney("30.00"))
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if view.Used {
		t.Fatal("partial redemption must not mark voucher used")
	}
	if !view.Balance.Equal(models.MustMoney("30.00")) {
		t.Fatalf("expected balance 30.00, got: %s", view.Balance.String())
	}

	var stored models.Voucher
	if err := db.First(&stored, voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher failed: %v", err)
	}
	if !stored.Balance.Equal(models.MustMoney("30.00")) {
		t.Fatalf("stored balance mismatch: %s", stored.Balance.String())
	}
	if stored.Version != voucher.Version+1 {
		t.Fatalf("expected version bump to %d, got: %d", voucher.Version+1, stored.Version)
	}
}

func TestRedemptionServiceApplyZeroBalanceMarksUsed(t *testing.T) {
	svc, _, db := setupRedemptionServiceTest(t)
	voucher := seedRedemptionVoucher(t, db, redemptionSeed{Paid: true, Amount: "50.00", Balance: "20.00"})

	view, err := svc.Apply(voucher.HashCode, false, models.ZeroMoney())
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !view.Used {
		t.Fatal("zero balance must mark the voucher used")
	}
}

func TestRedemptionServiceApplyOneUseOnlyZeroesBalance(t *testing.T) {
	svc, _, db := setupRedemptionServiceTest(t)
	voucher := seedRedemptionVoucher(t, db, redemptionSeed{Paid: true, OneUseOnly: true, Amount: "35.00", Balance: "35.00"})

	view, err := svc.Apply(voucher.HashCode, true, models.MustMoney("35.00"))
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !view.Used || !view.Balance.IsZero() {
		t.Fatalf("one-use-only redemption must consume the full balance: used=%v balance=%s", view.Used, view.Balance.String())
	}
}

func TestRedemptionServiceApplyPreconditions(t *testing.T) {
	svc, _, db := setupRedemptionServiceTest(t)

	cases := []struct {
		name    string
		seed    redemptionSeed
		used    bool
		balance string
		want    error
	}{
		{
			name:    "unpaid voucher",
			seed:    redemptionSeed{Paid: false, Amount: "50.00", Balance: "50.00"},
			balance: "10.00",
			want:    ErrVoucherNotPaid,
		},
		{
			name:    "one-use-only already used",
			seed:    redemptionSeed{Paid: true, OneUseOnly: true, Used: true, Amount: "35.00", Balance: "0.00"},
			used:    true,
			balance: "0.00",
			want:    ErrVoucherAlreadyUsed,
		},
		{
			name:    "expired voucher",
			seed:    redemptionSeed{Paid: true, Amount: "50.00", Balance: "50.00", Expired: true},
			balance: "10.00",
			want:    ErrVoucherExpired,
		},
		{
			name:    "balance above sale amount",
			seed:    redemptionSeed{Paid: true, Amount: "50.00", Balance: "50.00"},
			balance: "50.01",
			want:    ErrBalanceOutOfRange,
		},
		{
			name:    "negative balance",
			seed:    redemptionSeed{Paid: true, Amount: "50.00", Balance: "50.00"},
			balance: "-0.01",
			want:    ErrBalanceOutOfRange,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			voucher := seedRedemptionVoucher(t, db, tc.seed)
			_, err := svc.Apply(voucher.HashCode, tc.used, models.MustMoney(tc.balance))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got: %v", tc.want, err)
			}
		})
	}

	if _, err := svc.Apply("no-such-hash", false, models.ZeroMoney()); !errors.Is(err, ErrVoucherNotFound) {
		t.Fatalf("expected ErrVoucherNotFound, got: %v", err)
	}
}

func TestRedemptionServiceApplyConflictOnStaleVersion(t *testing.T) {
	svc, repo, db := setupRedemptionServiceTest(t)
	voucher := seedRedemptionVoucher(t, db, redemptionSeed{Paid: true, Amount: "50.00", Balance: "50.00"})

	// 模拟另一台扫码端抢先核销，版本号前移
	ok, err := repo.UpdateRedemption(voucher.ID, voucher.Version, false, models.MustMoney("40.00"))
	if err != nil || !ok {
		t.Fatalf("concurrent update setup failed: ok=%v err=%v", ok, err)
	}

	lookup, err := svc.Lookup(constants.VoucherLookupByHash, voucher.HashCode)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !lookup.Balance.Equal(models.MustMoney("40.00")) {
		t.Fatalf("expected refreshed balance 40.00, got: %s", lookup.Balance.String())
	}

	// 基于过期版本的第二次写入必须未命中
	ok, err = repo.UpdateRedemption(voucher.ID, voucher.Version, false, models.MustMoney("10.00"))
	if err != nil {
		t.Fatalf("stale update failed: %v", err)
	}
	if ok {
		t.Fatal("stale version update must not match any row")
	}

	var stored models.Voucher
	if err := db.First(&stored, voucher.ID).Error; err != nil {
		t.Fatalf("reload voucher failed: %v", err)
	}
	if !stored.Balance.Equal(models.MustMoney("40.00")) {
		t.Fatalf("conflicting write must not change balance, got: %s", stored.Balance.String())
	}
}

func TestRedemptionServiceLookupByNumberCode(t *testing.T) {
	svc, _, db := setupRedemptionServiceTest(t)
	voucher := seedRedemptionVoucher(t, db, redemptionSeed{Paid: true, OneUseOnly: true, Amount: "35.00", Balance: "35.00"})

	view, err := svc.Lookup(constants.VoucherLookupByNumberCode, voucher.NumberCode)
	if err != nil {
		t.Fatalf("lookup by number code failed: %v", err)
	}
	if view.ID != voucher.ID {
		t.Fatalf("expected voucher %d, got: %d", voucher.ID, view.ID)
	}
	if !view.Paid || !view.OneUseOnly {
		t.Fatalf("unexpected lookup view: %+v", view)
	}
}

func TestRedemptionServiceVoucherPageShowsDistributor(t *testing.T) {
	svc, _, db := setupRedemptionServiceTest(t)
	if err := db.Create(&models.Distributor{Name: "Boekhandel De Pagina", Subdomain: "depagina"}).Error; err != nil {
		t.Fatalf("create distributor failed: %v", err)
	}
	voucher := seedRedemptionVoucher(t, db, redemptionSeed{Paid: true, Amount: "50.00", Balance: "50.00"})

	view, err := svc.VoucherPage(voucher.HashCode)
	if err != nil {
		t.Fatalf("voucher page failed: %v", err)
	}
	if view.Distributor != "Boekhandel De Pagina" {
		t.Fatalf("expected distributor name on voucher page, got: %q", view.Distributor)
	}
	if view.NumberCode != voucher.NumberCode || view.ReceiverName != "An Vermeulen" {
		t.Fatalf("unexpected voucher page view: %+v", view)
	}
	if !view.Balance.Equal(models.MustMoney("50.00")) {
		t.Fatalf("expected balance 50.00, got: %s", view.Balance.String())
	}
}
