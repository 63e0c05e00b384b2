package service

import (
	"time"

	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/repository"
)

// CatalogService 礼券模板目录服务
type CatalogService struct {
	templateRepo repository.TemplateRepository
}

// NewCatalogService 创建模板目录服务
func NewCatalogService(templateRepo repository.TemplateRepository) *CatalogService {
	return &CatalogService{templateRepo: templateRepo}
}

// TemplateDraft 待发布模板草稿
type TemplateDraft struct {
	Amount      models.Money `json:"amount"`
	MinAmount   models.Money `json:"min_amount"`
	MaxAmount   models.Money `json:"max_amount"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	DaysValid   int          `json:"days_valid"`
	OneUseOnly  bool         `json:"one_use_only"`
}

// CatalogFormSummary 模板编辑表单的预填数据
type CatalogFormSummary struct {
	ActiveKind  constants.VoucherKind    `json:"active_kind"`
	ThreeOption []models.VoucherTemplate `json:"three_option"`
	Range       []models.VoucherTemplate `json:"range"`
	Label       []models.VoucherTemplate `json:"label"`
}

// ActiveTemplates 获取经销商当前在售的模板
func (s *CatalogService) ActiveTemplates(distributorID uint) ([]models.VoucherTemplate, error) {
	return s.templateRepo.ListActive(distributorID)
}

// LatestTemplates 获取经销商每类模板的最新版本
func (s *CatalogService) LatestTemplates(distributorID uint) ([]models.VoucherTemplate, error) {
	return s.templateRepo.ListMostRecent(distributorID)
}

// PublishSet 校验并发布一组新模板。旧版本保留为历史，已售礼券不受影响。
func (s *CatalogService) PublishSet(principal Principal, kind constants.VoucherKind, drafts []TemplateDraft) ([]models.VoucherTemplate, error) {
	if !kind.Valid() {
		return nil, NewValidationError("kind", "unknown voucher kind")
	}
	if len(drafts) == 0 {
		return nil, NewValidationError("drafts", "at least one template required")
	}
	now := time.Now()
	rows := make([]models.VoucherTemplate, 0, len(drafts))
	for _, draft := range drafts {
		if err := validateDraft(kind, draft); err != nil {
			return nil, err
		}
		row := models.VoucherTemplate{
			Kind:        kind,
			Amount:      draft.Amount,
			MinAmount:   draft.MinAmount,
			MaxAmount:   draft.MaxAmount,
			Label:       draft.Label,
			Description: draft.Description,
			DaysValid:   draft.DaysValid,
			OneUseOnly:  draft.OneUseOnly,
			CreateDate:  now,
		}
		// 标签券只能整张使用
		if kind == constants.VoucherKindLabel {
			row.OneUseOnly = true
		}
		rows = append(rows, row)
	}
	if err := s.templateRepo.PublishSet(principal.DistributorID, kind, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func validateDraft(kind constants.VoucherKind, draft TemplateDraft) error {
	if draft.DaysValid <= 0 {
		return NewValidationError("days_valid", "must be positive")
	}
	switch kind {
	case constants.VoucherKindRange:
		if draft.MinAmount.IsNegative() || draft.MinAmount.IsZero() {
			return NewValidationError("min_amount", "must be positive")
		}
		if !draft.MinAmount.LessThan(draft.MaxAmount) {
			return NewValidationError("max_amount", "must be greater than min_amount")
		}
	case constants.VoucherKindLabel:
		if draft.Label == "" {
			return NewValidationError("label", "required")
		}
		if draft.Amount.IsNegative() || draft.Amount.IsZero() {
			return NewValidationError("amount", "must be positive")
		}
	default:
		if draft.Amount.IsNegative() || draft.Amount.IsZero() {
			return NewValidationError("amount", "must be positive")
		}
	}
	return nil
}

// FormSummary 按类别汇总最新模板，缺失类别填充默认草稿供编辑表单预填
func (s *CatalogService) FormSummary(principal Principal) (*CatalogFormSummary, error) {
	latest, err := s.templateRepo.ListMostRecent(principal.DistributorID)
	if err != nil {
		return nil, err
	}
	summary := &CatalogFormSummary{}
	for _, t := range latest {
		if t.Active && summary.ActiveKind == "" {
			summary.ActiveKind = t.Kind
		}
		switch t.Kind {
		case constants.VoucherKindRange:
			summary.Range = append(summary.Range, t)
		case constants.VoucherKindLabel:
			summary.Label = append(summary.Label, t)
		default:
			summary.ThreeOption = append(summary.ThreeOption, t)
		}
	}
	if len(summary.ThreeOption) == 0 {
		for _, amount := range []string{"10.00", "25.00", "50.00"} {
			summary.ThreeOption = append(summary.ThreeOption, models.VoucherTemplate{
				Kind:      constants.VoucherKindThreeOption,
				Amount:    models.MustMoney(amount),
				DaysValid: 90,
			})
		}
	}
	if len(summary.Range) == 0 {
		summary.Range = append(summary.Range, models.VoucherTemplate{
			Kind:      constants.VoucherKindRange,
			Amount:    models.MustMoney("20.00"),
			MinAmount: models.MustMoney("10.00"),
			MaxAmount: models.MustMoney("50.00"),
			DaysValid: 90,
		})
	}
	if len(summary.Label) == 0 {
		summary.Label = append(summary.Label, models.VoucherTemplate{
			Kind:       constants.VoucherKindLabel,
			DaysValid:  90,
			OneUseOnly: true,
		})
	}
	return summary, nil
}
