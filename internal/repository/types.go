package repository

// PredicateOp 订单查询谓词操作符
type PredicateOp string

const (
	PredicateGte    PredicateOp = "gte"     // 列 >= 值
	PredicateLt     PredicateOp = "lt"      // 列 < 值
	PredicateLte    PredicateOp = "lte"     // 列 <= 值
	PredicateIn     PredicateOp = "in"      // 列 IN 值集合
	PredicateOrLike PredicateOp = "or_like" // 多列不区分大小写模糊匹配（OR 连接）
)

// OrderPredicate 结构化查询谓词，由 service 层组装、repository 层渲染为参数化 SQL
type OrderPredicate struct {
	Column  string
	Op      PredicateOp
	Value   interface{}
	Columns []string // Op 为 or_like 时的列集合
}

// OrderQueryFilter 订单查询条件（快捷符号已在 service 层解析完毕）
type OrderQueryFilter struct {
	DistributorID uint
	Predicates    []OrderPredicate
	Page          int
	PageSize      int
}
