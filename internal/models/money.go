package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money 金额类型，基于 decimal 实现，避免浮点精度问题
type Money struct {
	decimal.Decimal
}

// NewMoney 从字符串创建金额
func NewMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money value: %s", value)
	}
	return Money{Decimal: d}, nil
}

// MustMoney 从字符串创建金额，解析失败时 panic（仅用于常量初始化）
func MustMoney(value string) Money {
	m, err := NewMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney 零金额
func ZeroMoney() Money {
	return Money{Decimal: decimal.Zero}
}

// Add 金额相加
func (m Money) Add(other Money) Money {
	return Money{Decimal: m.Decimal.Add(other.Decimal)}
}

// Equal 金额相等比较
func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

// LessThan 小于比较
func (m Money) LessThan(other Money) bool {
	return m.Decimal.LessThan(other.Decimal)
}

// GreaterThan 大于比较
func (m Money) GreaterThan(other Money) bool {
	return m.Decimal.GreaterThan(other.Decimal)
}

// IsNegative 是否为负
func (m Money) IsNegative() bool {
	return m.Decimal.IsNegative()
}

// IsZero 是否为零
func (m Money) IsZero() bool {
	return m.Decimal.IsZero()
}

// String 格式化为两位小数字符串
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}

// Value 实现 driver.Valuer 接口，以字符串存储
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).StringFixed(2), nil
}

// Scan 实现 sql.Scanner 接口
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		m.Decimal = decimal.Zero
		return nil
	}
	switch v := value.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("failed to scan money from string: %w", err)
		}
		m.Decimal = d
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("failed to scan money from bytes: %w", err)
		}
		m.Decimal = d
	case float64:
		m.Decimal = decimal.NewFromFloat(v)
	case int64:
		m.Decimal = decimal.NewFromInt(v)
	default:
		return fmt.Errorf("unsupported money scan type: %T", value)
	}
	return nil
}

// MarshalJSON 序列化为两位小数字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON 反序列化，兼容字符串与数字两种形式
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		m.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid money json: %s", string(data))
	}
	m.Decimal = d
	return nil
}
