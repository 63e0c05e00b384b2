package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/repository"

	"gorm.io/gorm"
)

// 编号码碰撞重试上限
const codeGenerationAttempts = 5

// codeChecker 编号码唯一性检查
type codeChecker interface {
	CodeExists(hashCode, numberCode string) (bool, error)
}

// IssuanceService 礼券签发服务
type IssuanceService struct {
	db           *gorm.DB
	templateRepo repository.TemplateRepository
	clientRepo   *repository.GormClientRepository
	saleRepo     *repository.GormSaleRepository
	voucherRepo  *repository.GormVoucherRepository
}

// NewIssuanceService 创建礼券签发服务
func NewIssuanceService(
	db *gorm.DB,
	templateRepo repository.TemplateRepository,
	clientRepo *repository.GormClientRepository,
	saleRepo *repository.GormSaleRepository,
	voucherRepo *repository.GormVoucherRepository,
) *IssuanceService {
	return &IssuanceService{
		db:           db,
		templateRepo: templateRepo,
		clientRepo:   clientRepo,
		saleRepo:     saleRepo,
		voucherRepo:  voucherRepo,
	}
}

// PurchaserInput 购买人信息
type PurchaserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Tel       string `json:"tel"`
}

// ReceiverInput 收礼人信息，留空时回落到购买人
type ReceiverInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IssueVoucherInput 签发请求
type IssueVoucherInput struct {
	DistributorID uint
	TemplateID    uint
	Amount        models.Money
	Purchaser     PurchaserInput
	Receiver      ReceiverInput
}

// IssueVoucherResult 签发结果
type IssueVoucherResult struct {
	Voucher *models.Voucher
	Sale    *models.Sale
	Client  *models.Client
}

// IssueVoucher 签发一张礼券：服务端复核金额、生成唯一编号码与哈希码，
// 购买人、销售单、礼券在同一事务内写入。
func (s *IssuanceService) IssueVoucher(input IssueVoucherInput) (*IssueVoucherResult, error) {
	if err := validatePurchaser(input.Purchaser); err != nil {
		return nil, err
	}

	template, err := s.templateRepo.GetByID(input.TemplateID)
	if err != nil {
		return nil, err
	}
	if template == nil || template.DistributorID != input.DistributorID || !template.Active {
		return nil, ErrTemplateNotFound
	}
	// 金额以服务端存储的模板为准，不信任客户端展示值
	if !template.AcceptsAmount(input.Amount) {
		return nil, ErrTamperedAmount
	}

	receiverName := strings.TrimSpace(input.Receiver.Name)
	receiverEmail := strings.TrimSpace(input.Receiver.Email)
	if receiverName == "" {
		receiverName = strings.TrimSpace(input.Purchaser.FirstName) + " " + strings.TrimSpace(input.Purchaser.LastName)
	}
	if receiverEmail == "" {
		receiverEmail = strings.TrimSpace(input.Purchaser.Email)
	}

	now := time.Now()
	result := &IssueVoucherResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		clientRepo := s.clientRepo.WithTx(tx)
		saleRepo := s.saleRepo.WithTx(tx)
		voucherRepo := s.voucherRepo.WithTx(tx)

		client := &models.Client{
			FirstName: strings.TrimSpace(input.Purchaser.FirstName),
			LastName:  strings.TrimSpace(input.Purchaser.LastName),
			Email:     strings.TrimSpace(input.Purchaser.Email),
			Tel:       strings.TrimSpace(input.Purchaser.Tel),
		}
		if err := clientRepo.Create(client); err != nil {
			return err
		}

		numberCode, hashCode, err := generateCodes(voucherRepo, client.ID)
		if err != nil {
			return err
		}

		sale := &models.Sale{
			ClientID: client.ID,
			Amount:   input.Amount,
			Paid:     false,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		voucher := &models.Voucher{
			SaleID:         sale.ID,
			TemplateID:     template.ID,
			ReceiverName:   receiverName,
			ReceiverEmail:  receiverEmail,
			Balance:        input.Amount,
			Used:           false,
			ExpirationDate: now.AddDate(0, 0, template.DaysValid),
			HashCode:       hashCode,
			NumberCode:     numberCode,
		}
		if err := voucherRepo.Create(voucher); err != nil {
			return err
		}

		result.Client = client
		result.Sale = sale
		result.Voucher = voucher
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validatePurchaser(p PurchaserInput) error {
	if strings.TrimSpace(p.FirstName) == "" {
		return NewValidationError("first_name", "required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return NewValidationError("last_name", "required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return NewValidationError("email", "required")
	}
	return nil
}

// generateCodes 生成编号码与哈希码：编号码为“购买人ID-五位随机数”，
// 哈希码为编号码的 sha256 十六进制。碰撞时重新生成，超过上限返回错误。
func generateCodes(codes codeChecker, clientID uint) (string, string, error) {
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(100000))
		if err != nil {
			return "", "", err
		}
		numberCode := fmt.Sprintf("%d-%05d", clientID, n.Int64())
		sum := sha256.Sum256([]byte(numberCode))
		hashCode := hex.EncodeToString(sum[:])

		exists, err := codes.CodeExists(hashCode, numberCode)
		if err != nil {
			return "", "", err
		}
		if !exists {
			return numberCode, hashCode, nil
		}
	}
	return "", "", ErrCodeGenerationExhausted
}
