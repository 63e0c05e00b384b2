package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/kaddo-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSaleRepositoryTest(t *testing.T) (*GormSaleRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:sale_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Sale{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewSaleRepository(db), db
}

func TestSaleRepositoryMarkPaidOnlyOnce(t *testing.T) {
	repo, db := setupSaleRepositoryTest(t)
	client := models.Client{FirstName: "Jan", LastName: "Peeters", Email: "jan@example.com"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	sale := models.Sale{ClientID: client.ID, Amount: models.MustMoney("25.00"), PaymentID: "tr_mark_once"}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("create sale failed: %v", err)
	}

	first := time.Now().Add(-time.Minute)
	won, err := repo.MarkPaid(sale.ID, first)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if !won {
		t.Fatalf("first mark must win")
	}

	won, err = repo.MarkPaid(sale.ID, time.Now())
	if err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	if won {
		t.Fatalf("already paid sale must not be marked again")
	}

	var stored models.Sale
	if err := db.First(&stored, sale.ID).Error; err != nil {
		t.Fatalf("load sale failed: %v", err)
	}
	if !stored.Paid || stored.PurchaseDate == nil {
		t.Fatalf("sale must be paid with a purchase date: %+v", stored)
	}
	if diff := stored.PurchaseDate.Sub(first); diff > time.Second || diff < -time.Second {
		t.Fatalf("purchase date must keep the winning timestamp, diff: %v", diff)
	}
}

func TestSaleRepositoryMarkPaidUnknownID(t *testing.T) {
	repo, _ := setupSaleRepositoryTest(t)
	won, err := repo.MarkPaid(9999, time.Now())
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if won {
		t.Fatalf("unknown sale must not report a win")
	}
}
