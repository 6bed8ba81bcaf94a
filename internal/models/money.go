package models

import (
	"bytes"
	"database/sql/driver"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyScale 价格统一保留两位小数
const moneyScale = 2

// Money 商品价格，存储与输出均为两位小数
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 从 decimal 创建金额
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(moneyScale)}
}

// ParseMoney 解析数字字符串为金额，如 "19.9"
func ParseMoney(raw string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Money{}, err
	}
	return NewMoneyFromDecimal(d), nil
}

// MoneyPtrEqual 比较两个可空金额，均为空视为相等
func MoneyPtrEqual(a, b *Money) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Decimal.Round(moneyScale).Equal(b.Decimal.Round(moneyScale))
}

// String 返回两位小数文本
func (m Money) String() string {
	return m.Decimal.Round(moneyScale).StringFixed(moneyScale)
}

// MarshalJSON 输出带引号的两位小数，避免客户端按浮点解析
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON 同时接受 "19.90" 与 19.9 两种写法
func (m *Money) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	text := string(raw)
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return err
		}
		text = unquoted
	}
	parsed, err := ParseMoney(text)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value 写库时按两位小数
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan 读库后统一精度
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}
