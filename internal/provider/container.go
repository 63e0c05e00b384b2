package provider

import (
	"github.com/kaddo-next/internal/cache"
	"github.com/kaddo-next/internal/config"
	"github.com/kaddo-next/internal/logger"
	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/payment/mollie"
	"github.com/kaddo-next/internal/queue"
	"github.com/kaddo-next/internal/repository"
	"github.com/kaddo-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	DistributorRepo     repository.DistributorRepository
	DistributorUserRepo repository.DistributorUserRepository
	ClientRepo          *repository.GormClientRepository
	SaleRepo            *repository.GormSaleRepository
	TemplateRepo        repository.TemplateRepository
	VoucherRepo         *repository.GormVoucherRepository
	OrderQueryRepo      repository.OrderQueryRepository

	// Services
	AuthService        *service.AuthService
	CatalogService     *service.CatalogService
	IssuanceService    *service.IssuanceService
	PaymentService     *service.PaymentService
	RedemptionService  *service.RedemptionService
	OrderQueryService  *service.OrderQueryService
	DistributorService *service.DistributorService
	EmailService       *service.EmailService
	ReceiptService     *service.ReceiptService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.DistributorRepo = repository.NewDistributorRepository(db)
	c.DistributorUserRepo = repository.NewDistributorUserRepository(db)
	c.ClientRepo = repository.NewClientRepository(db)
	c.SaleRepo = repository.NewSaleRepository(db)
	c.TemplateRepo = repository.NewTemplateRepository(db)
	c.VoucherRepo = repository.NewVoucherRepository(db)
	c.OrderQueryRepo = repository.NewOrderQueryRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.AuthService = service.NewAuthService(c.DistributorUserRepo, cfg.JWT.SecretKey, cfg.JWT.ExpireHours)
	c.CatalogService = service.NewCatalogService(c.TemplateRepo)
	c.IssuanceService = service.NewIssuanceService(models.DB, c.TemplateRepo, c.ClientRepo, c.SaleRepo, c.VoucherRepo)
	c.OrderQueryService = service.NewOrderQueryService(c.OrderQueryRepo, c.TemplateRepo)
	c.RedemptionService = service.NewRedemptionService(c.VoucherRepo, c.DistributorRepo)
	c.DistributorService = service.NewDistributorService(c.DistributorRepo, c.TemplateRepo)
	c.EmailService = service.NewEmailService(&cfg.Email)
	c.ReceiptService = service.NewReceiptService(c.VoucherRepo, c.DistributorRepo, c.EmailService,
		cfg.Server.PublicBaseURL, cfg.Payment.Currency)

	gateway, err := mollie.NewClient(mollie.Config{
		APIKey:         cfg.Payment.APIKey,
		BaseURL:        cfg.Payment.BaseURL,
		Currency:       cfg.Payment.Currency,
		TimeoutSeconds: cfg.Payment.TimeoutSeconds,
	})
	if err != nil {
		logger.Warnw("provider_init_gateway_failed", "error", err)
	}

	fee, err := models.NewMoney(cfg.Payment.TransactionFee)
	if err != nil {
		logger.Warnw("provider_invalid_transaction_fee", "value", cfg.Payment.TransactionFee)
		fee = models.MustMoney("1.50")
	}

	// 队列可用时回执邮件走异步任务，否则同步发送
	var receipts service.ReceiptDispatcher = c.ReceiptService
	if c.QueueClient.Enabled() {
		receipts = queue.NewReceiptEnqueuer(c.QueueClient)
	}

	var paymentGateway service.PaymentGateway
	if gateway != nil {
		paymentGateway = gateway
	}
	c.PaymentService = service.NewPaymentService(c.SaleRepo, c.VoucherRepo, c.DistributorRepo, paymentGateway, receipts,
		service.PaymentServiceConfig{
			TransactionFee: fee,
			Description:    cfg.Payment.Description,
			PublicBaseURL:  cfg.Server.PublicBaseURL,
		})
}
