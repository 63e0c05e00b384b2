package service

import (
	"strings"
	"time"

	"github.com/kaddo-next/internal/constants"
	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/repository"
)

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	orderRepo    repository.OrderQueryRepository
	templateRepo repository.TemplateRepository
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(orderRepo repository.OrderQueryRepository, templateRepo repository.TemplateRepository) *OrderQueryService {
	return &OrderQueryService{orderRepo: orderRepo, templateRepo: templateRepo}
}

// OrderQueryInput 订单查询条件。日期字段接受 yyyy-mm-dd、完整日期时间
// 以及 PREV_HOUR / MOST_RECENT_ACTIVATION 快捷符号。
type OrderQueryInput struct {
	AmountMin *models.Money `json:"amount_min"`
	AmountMax *models.Money `json:"amount_max"`
	DateMin   string        `json:"date_min"`
	DateMax   string        `json:"date_max"`
	Search    string        `json:"search"`
	Statuses  []string      `json:"statuses"`
	Page      int           `json:"page"`
}

// OrderListItem 订单列表项
type OrderListItem struct {
	VoucherID    uint         `json:"voucher_id"`
	Amount       models.Money `json:"amount"`
	Status       string       `json:"status"`
	PurchaseDate string       `json:"purchase_date"`
	ClientName   string       `json:"client_name"`
}

// OrderQueryResult 订单查询结果
type OrderQueryResult struct {
	Items    []OrderListItem `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// Query 查询经销商的订单：先解析快捷符号，再组装结构化谓词交给仓库层
func (s *OrderQueryService) Query(principal Principal, input OrderQueryInput) (*OrderQueryResult, error) {
	predicates := make([]repository.OrderPredicate, 0, 6)

	if input.AmountMin != nil {
		predicates = append(predicates, repository.OrderPredicate{
			Column: "sales.amount", Op: repository.PredicateGte, Value: *input.AmountMin,
		})
	}
	if input.AmountMax != nil {
		predicates = append(predicates, repository.OrderPredicate{
			Column: "sales.amount", Op: repository.PredicateLt, Value: *input.AmountMax,
		})
	}

	dateMin, err := s.resolveDateBound(principal.DistributorID, input.DateMin, true)
	if err != nil {
		return nil, err
	}
	if dateMin != nil {
		predicates = append(predicates, repository.OrderPredicate{
			Column: "sales.purchase_date", Op: repository.PredicateGte, Value: *dateMin,
		})
	}
	dateMax, err := s.resolveDateBound(principal.DistributorID, input.DateMax, false)
	if err != nil {
		return nil, err
	}
	if dateMax != nil {
		predicates = append(predicates, repository.OrderPredicate{
			Column: "sales.purchase_date", Op: repository.PredicateLte, Value: *dateMax,
		})
	}

	if term := strings.TrimSpace(input.Search); term != "" {
		predicates = append(predicates, repository.OrderPredicate{
			Op:    repository.PredicateOrLike,
			Value: term,
			Columns: []string{
				"clients.first_name",
				"clients.last_name",
				"clients.email",
				"clients.tel",
				"vouchers.number_code",
				"vouchers.hash_code",
				"vouchers.receiver_name",
				"vouchers.receiver_email",
				"sales.payment_id",
				s.orderRepo.FormattedPurchaseDateExpr(),
			},
		})
	}

	if paidValues := resolveStatuses(input.Statuses); paidValues != nil {
		predicates = append(predicates, repository.OrderPredicate{
			Column: "sales.paid", Op: repository.PredicateIn, Value: paidValues,
		})
	}

	rows, total, err := s.orderRepo.List(repository.OrderQueryFilter{
		DistributorID: principal.DistributorID,
		Predicates:    predicates,
		Page:          input.Page,
		PageSize:      constants.OrderQueryPageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]OrderListItem, 0, len(rows))
	for _, row := range rows {
		item := OrderListItem{
			VoucherID:  row.VoucherID,
			Amount:     row.Amount,
			ClientName: strings.TrimSpace(row.FirstName + " " + row.LastName),
		}
		if row.Paid {
			item.Status = string(constants.PaymentStatusPaid)
		} else {
			item.Status = string(constants.PaymentStatusPending)
		}
		if row.PurchaseDate != nil {
			item.PurchaseDate = row.PurchaseDate.Format("02-01-2006 15:04")
		}
		items = append(items, item)
	}
	page := input.Page
	if page < 1 {
		page = 1
	}
	return &OrderQueryResult{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: constants.OrderQueryPageSize,
	}, nil
}

// OrderDetail 获取单笔订单详情
func (s *OrderQueryService) OrderDetail(principal Principal, voucherID uint) (*models.Voucher, error) {
	voucher, err := s.orderRepo.Detail(principal.DistributorID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	return voucher, nil
}

// resolveDateBound 解析日期边界：快捷符号优先，纯日期补齐当天起止时刻
func (s *OrderQueryService) resolveDateBound(distributorID uint, raw string, isMin bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch raw {
	case constants.DateShortcutPrevHour:
		var t time.Time
		if isMin {
			t = time.Now().Add(-time.Hour)
		} else {
			t = time.Now().Add(120 * time.Second)
		}
		return &t, nil
	case constants.DateShortcutRecentActivation:
		if isMin {
			latest, err := s.templateRepo.MostRecentActiveTemplate(distributorID)
			if err != nil {
				return nil, err
			}
			if latest == nil {
				// 没有在售模板时不加下界
				return nil, nil
			}
			t := latest.CreateDate
			return &t, nil
		}
		t := time.Date(3000, time.January, 1, 23, 59, 59, 0, time.Local)
		return &t, nil
	}

	if t, err := time.ParseInLocation("2006-01-02 15:04:05", raw, time.Local); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, NewValidationError("date", "unrecognized date format")
	}
	var t time.Time
	if isMin {
		t = day
	} else {
		t = day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return &t, nil
}

// resolveStatuses 把状态筛选归一为 paid 布尔集合；全选或空选时不加谓词
func resolveStatuses(statuses []string) []bool {
	if len(statuses) == 0 {
		return nil
	}
	wantPaid, wantUnpaid := false, false
	for _, status := range statuses {
		switch strings.ToLower(strings.TrimSpace(status)) {
		case string(constants.PaymentStatusPaid):
			wantPaid = true
		case string(constants.PaymentStatusPending), string(constants.PaymentStatusFailed):
			wantUnpaid = true
		}
	}
	if wantPaid == wantUnpaid {
		return nil
	}
	if wantPaid {
		return []bool{true}
	}
	return []bool{false}
}
