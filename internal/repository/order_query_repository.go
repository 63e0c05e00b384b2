package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kaddo-next/internal/models"

	"gorm.io/gorm"
)

// OrderRow 订单列表查询结果行
type OrderRow struct {
	VoucherID    uint          `json:"voucher_id"`
	Amount       models.Money  `json:"amount"`
	Paid         bool          `json:"paid"`
	PurchaseDate *time.Time    `json:"purchase_date"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
}

// OrderQueryRepository 订单查询数据访问接口
type OrderQueryRepository interface {
	List(filter OrderQueryFilter) ([]OrderRow, int64, error)
	Detail(distributorID, voucherID uint) (*models.Voucher, error)
	FormattedPurchaseDateExpr() string
	WithTx(tx *gorm.DB) *GormOrderQueryRepository
}

// GormOrderQueryRepository GORM 实现
type GormOrderQueryRepository struct {
	db *gorm.DB
}

// NewOrderQueryRepository 创建订单查询仓库
func NewOrderQueryRepository(db *gorm.DB) *GormOrderQueryRepository {
	return &GormOrderQueryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderQueryRepository) WithTx(tx *gorm.DB) *GormOrderQueryRepository {
	if tx == nil {
		return r
	}
	return &GormOrderQueryRepository{db: tx}
}

// FormattedPurchaseDateExpr 按方言渲染“dd-mm-yyyy hh:mm”格式的支付时间表达式，
// 供模糊搜索匹配格式化日期使用。
func (r *GormOrderQueryRepository) FormattedPurchaseDateExpr() string {
	if r.db.Dialector.Name() == "postgres" {
		return "to_char(sales.purchase_date, 'DD-MM-YYYY HH24:MI')"
	}
	return "strftime('%d-%m-%Y %H:%M', sales.purchase_date)"
}

func (r *GormOrderQueryRepository) baseQuery(distributorID uint) *gorm.DB {
	return r.db.Table("vouchers").
		Joins("JOIN sales ON sales.id = vouchers.sale_id").
		Joins("JOIN clients ON clients.id = sales.client_id").
		Joins("JOIN distributorvoucher ON distributorvoucher.id = vouchers.template_id").
		Where("distributorvoucher.distributor_id = ?", distributorID)
}

// applyPredicates 将结构化谓词渲染为参数化查询条件
func applyPredicates(query *gorm.DB, predicates []OrderPredicate) (*gorm.DB, error) {
	for _, p := range predicates {
		switch p.Op {
		case PredicateGte:
			query = query.Where(p.Column+" >= ?", p.Value)
		case PredicateLt:
			query = query.Where(p.Column+" < ?", p.Value)
		case PredicateLte:
			query = query.Where(p.Column+" <= ?", p.Value)
		case PredicateIn:
			query = query.Where(p.Column+" IN ?", p.Value)
		case PredicateOrLike:
			term, ok := p.Value.(string)
			if !ok || len(p.Columns) == 0 {
				return nil, fmt.Errorf("invalid or_like predicate")
			}
			clauses := make([]string, 0, len(p.Columns))
			args := make([]interface{}, 0, len(p.Columns))
			pattern := "%" + strings.ToLower(term) + "%"
			for _, col := range p.Columns {
				clauses = append(clauses, "LOWER("+col+") LIKE ?")
				args = append(args, pattern)
			}
			query = query.Where(strings.Join(clauses, " OR "), args...)
		default:
			return nil, fmt.Errorf("unknown predicate op: %s", p.Op)
		}
	}
	return query, nil
}

// List 分页查询订单列表，按支付时间倒序、礼券 ID 倒序排列
func (r *GormOrderQueryRepository) List(filter OrderQueryFilter) ([]OrderRow, int64, error) {
	query := r.baseQuery(filter.DistributorID)
	query, err := applyPredicates(query, filter.Predicates)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []OrderRow
	err = applyPagination(query, filter.Page, filter.PageSize).
		Select("vouchers.id AS voucher_id, sales.amount AS amount, sales.paid AS paid, " +
			"sales.purchase_date AS purchase_date, clients.first_name AS first_name, clients.last_name AS last_name").
		Order("sales.purchase_date DESC, vouchers.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Detail 获取单笔订单的完整礼券、销售单与购买人信息
func (r *GormOrderQueryRepository) Detail(distributorID, voucherID uint) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.Preload("Sale").Preload("Sale.Client").Preload("Template").
		Joins("JOIN distributorvoucher ON distributorvoucher.id = vouchers.template_id").
		Where("vouchers.id = ? AND distributorvoucher.distributor_id = ?", voucherID, distributorID).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}
