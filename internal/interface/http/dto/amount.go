package dto

import (
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

// Amount 请求体里的金额字段
// 解析失败时返回json.UnmarshalTypeError,encoding/json会补上字段路径,
// BindError据此生成字段级错误("paidAmount must be a number")
type Amount struct {
	decimal.Decimal
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func (a *Amount) UnmarshalJSON(b []byte) error {
	if err := a.Decimal.UnmarshalJSON(b); err != nil {
		return &json.UnmarshalTypeError{Value: string(b), Type: decimalType}
	}
	return nil
}

// Ptr 可选金额,未传时返回nil
func (a *Amount) Ptr() *decimal.Decimal {
	if a == nil {
		return nil
	}
	d := a.Decimal
	return &d
}
