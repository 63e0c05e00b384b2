package service

import (
	"strings"

	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/repository"
)

// DistributorService 经销商资料服务
type DistributorService struct {
	distributorRepo repository.DistributorRepository
	templateRepo    repository.TemplateRepository
}

// NewDistributorService 创建经销商资料服务
func NewDistributorService(distributorRepo repository.DistributorRepository, templateRepo repository.TemplateRepository) *DistributorService {
	return &DistributorService{distributorRepo: distributorRepo, templateRepo: templateRepo}
}

// StorefrontDistributor 店面页公开的经销商资料，银行账号等内部字段不外露
type StorefrontDistributor struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Subdomain   string `json:"subdomain"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Tel         string `json:"tel"`
	Address     string `json:"address"`
	Postalcode  string `json:"postalcode"`
	City        string `json:"city"`
}

// StorefrontView 店面页数据：经销商资料加在售模板
type StorefrontView struct {
	Distributor *StorefrontDistributor   `json:"distributor"`
	Templates   []models.VoucherTemplate `json:"templates"`
}

func publicDistributorView(d *models.Distributor) *StorefrontDistributor {
	view := &StorefrontDistributor{
		ID:          d.ID,
		Name:        d.Name,
		Subdomain:   d.Subdomain,
		Description: d.Description,
		Email:       d.Email,
		Tel:         d.Tel,
		Address:     d.Address,
	}
	if d.Location != nil {
		view.Postalcode = d.Location.Postalcode
		view.City = d.Location.City
	}
	return view
}

// BySubdomain 根据子域名解析经销商
func (s *DistributorService) BySubdomain(subdomain string) (*models.Distributor, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if subdomain == "" {
		return nil, ErrDistributorNotFound
	}
	distributor, err := s.distributorRepo.GetBySubdomain(subdomain)
	if err != nil {
		return nil, err
	}
	if distributor == nil {
		return nil, ErrDistributorNotFound
	}
	return distributor, nil
}

// Storefront 店面页：经销商资料与在售模板
func (s *DistributorService) Storefront(subdomain string) (*StorefrontView, error) {
	distributor, err := s.BySubdomain(subdomain)
	if err != nil {
		return nil, err
	}
	templates, err := s.templateRepo.ListActive(distributor.ID)
	if err != nil {
		return nil, err
	}
	return &StorefrontView{Distributor: publicDistributorView(distributor), Templates: templates}, nil
}

// Profile 后台“我的店铺”资料读取
func (s *DistributorService) Profile(principal Principal) (*models.Distributor, error) {
	distributor, err := s.distributorRepo.GetByID(principal.DistributorID)
	if err != nil {
		return nil, err
	}
	if distributor == nil {
		return nil, ErrDistributorNotFound
	}
	return distributor, nil
}

// UpdateProfileInput 资料更新请求
type UpdateProfileInput struct {
	Description string `json:"description"`
	Email       string `json:"email"`
	Tel         string `json:"tel"`
	Address     string `json:"address"`
	Postalcode  string `json:"postalcode"`
	City        string `json:"city"`
}

// UpdateProfile 更新经销商资料，所在地按需创建或更新
func (s *DistributorService) UpdateProfile(principal Principal, input UpdateProfileInput) (*models.Distributor, error) {
	distributor, err := s.Profile(principal)
	if err != nil {
		return nil, err
	}

	location := distributor.Location
	if location == nil {
		location = &models.Location{}
	}
	location.Postalcode = strings.TrimSpace(input.Postalcode)
	location.City = strings.TrimSpace(input.City)
	if err := s.distributorRepo.UpsertLocation(location); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"description": strings.TrimSpace(input.Description),
		"email":       strings.TrimSpace(input.Email),
		"tel":         strings.TrimSpace(input.Tel),
		"address":     strings.TrimSpace(input.Address),
		"location_id": location.ID,
	}
	if err := s.distributorRepo.Update(distributor.ID, updates); err != nil {
		return nil, err
	}
	return s.Profile(principal)
}
