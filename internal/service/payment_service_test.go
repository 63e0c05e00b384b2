package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeGateway struct {
	payments      map[string]*GatewayPayment
	createCalls   int
	redirectCalls int
	lastRedirect  string
	failCreate    bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{payments: map[string]*GatewayPayment{}}
}

func (g *fakeGateway) CreatePayment(ctx context.Context, amount models.Money, description, redirectURL, webhookURL string) (*GatewayPayment, error) {
	g.createCalls++
	if g.failCreate {
		return nil, errors.New("gateway down")
	}
	payment := &GatewayPayment{
		ID:          fmt.Sprintf("tr_fake_%d", g.createCalls),
		Status:      "open",
		CheckoutURL: "https://pay.example.com/checkout/" + fmt.Sprint(g.createCalls),
	}
	g.payments[payment.ID] = payment
	return payment, nil
}

func (g *fakeGateway) UpdateRedirectURL(ctx context.Context, paymentID, redirectURL string) error {
	g.redirectCalls++
	g.lastRedirect = redirectURL
	return nil
}

func (g *fakeGateway) GetPayment(ctx context.Context, paymentID string) (*GatewayPayment, error) {
	payment, ok := g.payments[paymentID]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return payment, nil
}

func (g *fakeGateway) setStatus(paymentID, status string) {
	if payment, ok := g.payments[paymentID]; ok {
		payment.Status = status
	}
}

type fakeDispatcher struct {
	saleIDs []uint
	fail    bool
}

func (d *fakeDispatcher) DispatchReceipt(saleID uint) error {
	d.saleIDs = append(d.saleIDs, saleID)
	if d.fail {
		return errors.New("smtp down")
	}
	return nil
}

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *fakeGateway, *fakeDispatcher, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	gateway := newFakeGateway()
	dispatcher := &fakeDispatcher{}
	svc := NewPaymentService(
		repository.NewSaleRepository(db),
		repository.NewVoucherRepository(db),
		repository.NewDistributorRepository(db),
		gateway,
		dispatcher,
		PaymentServiceConfig{
			TransactionFee: models.MustMoney("1.50"),
			Description:    "Kaddo cadeaubon",
			PublicBaseURL:  "https://demo.kaddo.test",
		},
	)
	return svc, gateway, dispatcher, db
}

func seedPaymentSale(t *testing.T, db *gorm.DB, amount string) (*models.Sale, *models.Voucher) {
	t.Helper()
	client := models.Client{FirstName: "Jan", LastName: "Peeters", Email: "jan@example.com"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	template := models.VoucherTemplate{
		DistributorID: 1,
		Kind:          constants.VoucherKindThreeOption,
		Amount:        models.MustMoney(amount),
		DaysValid:     90,
		CreateDate:    time.Now(),
	}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("create template failed: %v", err)
	}
	sale := models.Sale{ClientID: client.ID, Amount: models.MustMoney(amount)}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
	voucher := models.Voucher{
		SaleID:         sale.ID,
		TemplateID:     template.ID,
		ReceiverName:   "Mia Peeters",
		Balance:        models.MustMoney(amount),
		ExpirationDate: time.Now().AddDate(0, 0, 90),
		HashCode:       fmt.Sprintf("hash_%d", time.Now().UnixNano()),
		NumberCode:     fmt.Sprintf("%d-%05d", client.ID, time.Now().UnixNano()%100000),
	}
	if err := db.Create(&voucher).Error; err != nil {
		t.Fatalf("create voucher failed: %v", err)
	}
	return &sale, &voucher
}

func TestPaymentServiceInitiatePayment(t *testing.T) {
	svc, gateway, _, db := setupPaymentServiceTest(t)
	sale, _ := seedPaymentSale(t, db, "25.00")

	result, err := svc.InitiatePayment(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("initiate payment failed: %v", err)
	}
	if result.PaymentID == "" || result.CheckoutURL == "" {
		t.Fatalf("invalid initiate result: %+v", result)
	}

	var stored models.Sale
	if err := db.First(&stored, sale.ID).Error; err != nil {
		t.Fatalf("reload sale failed: %v", err)
	}
	if stored.PaymentID != result.PaymentID {
		t.Fatalf("payment id must be stored on the sale, got: %s", stored.PaymentID)
	}
	if gateway.redirectCalls != 1 || !strings.HasSuffix(gateway.lastRedirect, "/check/"+result.PaymentID) {
		t.Fatalf("redirect must point to the status page, got: %s", gateway.lastRedirect)
	}
}

func TestPaymentServiceInitiatePaymentGatewayFailure(t *testing.T) {
	svc, gateway, _, db := setupPaymentServiceTest(t)
	sale, _ := seedPaymentSale(t, db, "25.00")
	gateway.failCreate = true

	_, err := svc.InitiatePayment(context.Background(), sale.ID)
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got: %v", err)
	}

	var stored models.Sale
	if err := db.First(&stored, sale.ID).Error; err != nil {
		t.Fatalf("reload sale failed: %v", err)
	}
	if stored.PaymentID != "" {
		t.Fatalf("failed initiate must not store a payment id, got: %s", stored.PaymentID)
	}
}

func TestPaymentServiceConfirmPayment(t *testing.T) {
	svc, gateway, dispatcher, db := setupPaymentServiceTest(t)
	sale, _ := seedPaymentSale(t, db, "25.00")

	result, err := svc.InitiatePayment(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("initiate payment failed: %v", err)
	}
	gateway.setStatus(result.PaymentID, "paid")

	if err := svc.ConfirmPayment(context.Background(), result.PaymentID); err != nil {
		t.Fatalf("confirm payment failed: %v", err)
	}

	var stored models.Sale
	if err := db.First(&stored, sale.ID).Error; err != nil {
		t.Fatalf("reload sale failed: %v", err)
	}
	if !stored.Paid || stored.PurchaseDate == nil {
		t.Fatalf("confirmed sale must be paid with purchase date: %+v", stored)
	}
	if len(dispatcher.saleIDs) != 1 || dispatcher.saleIDs[0] != sale.ID {
		t.Fatalf("expected one receipt dispatch for sale %d, got: %v", sale.ID, dispatcher.saleIDs)
	}

	// 网关重试回调不得重复写库或重发邮件
	if err := svc.ConfirmPayment(context.Background(), result.PaymentID); err != nil {
		t.Fatalf("repeated confirm failed: %v", err)
	}
	if len(dispatcher.saleIDs) != 1 {
		t.Fatalf("repeated confirm must not dispatch again, got: %v", dispatcher.saleIDs)
	}
}

func TestPaymentServiceConfirmPaymentIgnoresUnpaidStatus(t *testing.T) {
	svc, _, dispatcher, db := setupPaymentServiceTest(t)
	sale, _ := seedPaymentSale(t, db, "25.00")

	result, err := svc.InitiatePayment(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("initiate payment failed: %v", err)
	}

	// 网关侧仍是 open，确认不得写库
	if err := svc.ConfirmPayment(context.Background(), result.PaymentID); err != nil {
		t.Fatalf("confirm with open status failed: %v", err)
	}

	var stored models.Sale
	if err := db.First(&stored, sale.ID).Error; err != nil {
		t.Fatalf("reload sale failed: %v", err)
	}
	if stored.Paid {
		t.Fatal("open payment must not mark the sale paid")
	}
	if len(dispatcher.saleIDs) != 0 {
		t.Fatalf("open payment must not dispatch receipts, got: %v", dispatcher.saleIDs)
	}
}

func TestPaymentServiceConfirmPaymentUnknownID(t *testing.T) {
	svc, _, _, _ := setupPaymentServiceTest(t)
	if err := svc.ConfirmPayment(context.Background(), "tr_unknown"); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got: %v", err)
	}
}

func TestPaymentServiceReceiptFailureDoesNotRollBack(t *testing.T) {
	svc, gateway, dispatcher, db := setupPaymentServiceTest(t)
	sale, _ := seedPaymentSale(t, db, "25.00")
	dispatcher.fail = true

	result, err := svc.InitiatePayment(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("initiate payment failed: %v", err)
	}
	gateway.setStatus(result.PaymentID, "paid")

	if err := svc.ConfirmPayment(context.Background(), result.PaymentID); err != nil {
		t.Fatalf("confirm must succeed despite receipt failure: %v", err)
	}

	var stored models.Sale
	if err := db.First(&stored, sale.ID).Error; err != nil {
		t.Fatalf("reload sale failed: %v", err)
	}
	if !stored.Paid {
		t.Fatal("receipt failure must not roll back the confirmed payment")
	}
}

func TestPaymentServicePollPaymentStatus(t *testing.T) {
	svc, gateway, _, db := setupPaymentServiceTest(t)
	sale, _ := seedPaymentSale(t, db, "25.00")

	result, err := svc.InitiatePayment(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("initiate payment failed: %v", err)
	}

	cases := []struct {
		gatewayStatus string
		want          constants.PaymentStatus
	}{
		{gatewayStatus: "open", want: constants.PaymentStatusPending},
		{gatewayStatus: "pending", want: constants.PaymentStatusPending},
		{gatewayStatus: "authorized", want: constants.PaymentStatusPending},
		{gatewayStatus: "canceled", want: constants.PaymentStatusFailed},
		{gatewayStatus: "expired", want: constants.PaymentStatusFailed},
		{gatewayStatus: "paid", want: constants.PaymentStatusPaid},
	}
	for _, tc := range cases {
		gateway.setStatus(result.PaymentID, tc.gatewayStatus)
		status, err := svc.PollPaymentStatus(context.Background(), result.PaymentID)
		if err != nil {
			t.Fatalf("poll status %s failed: %v", tc.gatewayStatus, err)
		}
		if status != tc.want {
			t.Fatalf("gateway status %s: expected %s, got: %s", tc.gatewayStatus, tc.want, status)
		}
	}

	// 轮询只读，网关报 paid 也不改写销售单
	var stored models.Sale
	if err := db.First(&stored, sale.ID).Error; err != nil {
		t.Fatalf("reload sale failed: %v", err)
	}
	if stored.Paid {
		t.Fatal("polling must never mark the sale paid")
	}
}

func TestPaymentServiceConfirmationPageInitiatesPayment(t *testing.T) {
	svc, gateway, _, db := setupPaymentServiceTest(t)
	_, voucher := seedPaymentSale(t, db, "25.00")

	view, err := svc.ConfirmationPage(context.Background(), voucher.HashCode)
	if err != nil {
		t.Fatalf("confirmation page failed: %v", err)
	}
	if gateway.createCalls != 1 {
		t.Fatalf("first visit must create the gateway payment, calls: %d", gateway.createCalls)
	}
	if !view.Total.Equal(models.MustMoney("26.50")) {
		t.Fatalf("expected total 26.50 including fee, got: %s", view.Total.String())
	}
	if view.FromName != "Jan Peeters" || view.ToName != "Mia Peeters" {
		t.Fatalf("unexpected confirmation names: %s -> %s", view.FromName, view.ToName)
	}

	// 二次访问复用已存在的支付对象
	again, err := svc.ConfirmationPage(context.Background(), voucher.HashCode)
	if err != nil {
		t.Fatalf("second confirmation page failed: %v", err)
	}
	if gateway.createCalls != 1 {
		t.Fatalf("second visit must not create a new payment, calls: %d", gateway.createCalls)
	}
	if again.PaymentID != view.PaymentID {
		t.Fatalf("expected same payment id, got: %s vs %s", again.PaymentID, view.PaymentID)
	}

	gateway.setStatus(view.PaymentID, "paid")
	if err := svc.ConfirmPayment(context.Background(), view.PaymentID); err != nil {
		t.Fatalf("confirm payment failed: %v", err)
	}
	if _, err := svc.ConfirmationPage(context.Background(), voucher.HashCode); !errors.Is(err, ErrSaleAlreadyPaid) {
		t.Fatalf("paid sale must not render a confirmation page, got: %v", err)
	}
}

func TestPaymentServiceNilGateway(t *testing.T) {
	_, _, _, db := setupPaymentServiceTest(t)
	sale, _ := seedPaymentSale(t, db, "25.00")

	svc := NewPaymentService(
		repository.NewSaleRepository(db),
		repository.NewVoucherRepository(db),
		repository.NewDistributorRepository(db),
		nil,
		nil,
		PaymentServiceConfig{TransactionFee: models.MustMoney("1.50")},
	)
	if _, err := svc.InitiatePayment(context.Background(), sale.ID); !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got: %v", err)
	}
}

func TestPaymentServiceConfirmationPageShowsDistributor(t *testing.T) {
	svc, _, _, db := setupPaymentServiceTest(t)
	if err := db.Create(&models.Distributor{Name: "Boekhandel De Pagina", Subdomain: "depagina"}).Error; err != nil {
		t.Fatalf("create distributor failed: %v", err)
	}
	_, voucher := seedPaymentSale(t, db, "25.00")

	view, err := svc.ConfirmationPage(context.Background(), voucher.HashCode)
	if err != nil {
		t.Fatalf("confirmation page failed: %v", err)
	}
	if view.Distributor != "Boekhandel De Pagina" {
		t.Fatalf("expected distributor name on confirmation page, got: %q", view.Distributor)
	}
}

// racingSaleRepo 在读取后立刻把销售单标记为已支付，模拟另一个并发回调抢先落库
type racingSaleRepo struct {
	repository.SaleRepository
	db *gorm.DB
}

func (r *racingSaleRepo) GetByPaymentID(paymentID string) (*models.Sale, error) {
	sale, err := r.SaleRepository.GetByPaymentID(paymentID)
	if err == nil && sale != nil && !sale.Paid {
		now := time.Now()
		if updateErr := r.db.Model(&models.Sale{}).Where("id = ?", sale.ID).Updates(map[string]interface{}{
			"paid":          true,
			"purchase_date": now,
		}).Error; updateErr != nil {
			return nil, updateErr
		}
	}
	return sale, err
}

func TestPaymentServiceConfirmPaymentConcurrentDelivery(t *testing.T) {
	svc, gateway, _, db := setupPaymentServiceTest(t)
	sale, _ := seedPaymentSale(t, db, "25.00")

	result, err := svc.InitiatePayment(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("initiate payment failed: %v", err)
	}
	gateway.setStatus(result.PaymentID, "paid")

	dispatcher := &fakeDispatcher{}
	racing := NewPaymentService(
		&racingSaleRepo{SaleRepository: repository.NewSaleRepository(db), db: db},
		repository.NewVoucherRepository(db),
		repository.NewDistributorRepository(db),
		gateway,
		dispatcher,
		PaymentServiceConfig{TransactionFee: models.MustMoney("1.50")},
	)

	if err := racing.ConfirmPayment(context.Background(), result.PaymentID); err != nil {
		t.Fatalf("losing delivery must still succeed: %v", err)
	}
	if len(dispatcher.saleIDs) != 0 {
		t.Fatalf("losing delivery must not dispatch a receipt, got %d", len(dispatcher.saleIDs))
	}

	var stored models.Sale
	if err := db.First(&stored, sale.ID).Error; err != nil {
		t.Fatalf("load sale failed: %v", err)
	}
	if !stored.Paid || stored.PurchaseDate == nil {
		t.Fatalf("sale must stay confirmed: paid=%v date=%v", stored.Paid, stored.PurchaseDate)
	}
}
