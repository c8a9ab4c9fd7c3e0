package dto

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

var setupOnce sync.Once

// Setup 注册校验器扩展并设置decimal的JSON格式,路由初始化时调用
//  1. 错误字段名使用json tag(items[0].quantity 而不是 Items[0].Quantity)
//  2. decimal.Decimal按数值参与gte/gt校验
//  3. decimal序列化为JSON数字
func Setup() {
	setupOnce.Do(func() {
		decimal.MarshalJSONWithoutQuotes = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			var d decimal.Decimal
			switch val := field.Interface().(type) {
			case decimal.Decimal:
				d = val
			case Amount:
				d = val.Decimal
			default:
				return nil
			}
			f, _ := d.Float64()
			return f
		}, decimal.Decimal{}, Amount{})
	})
}

// fieldMessages 字段级的提示信息,key为"字段名.tag"
var fieldMessages = map[string]string{
	"items.required":      "Order must contain at least one item",
	"items.min":           "Order must contain at least one item",
	"itemId.gt":           "itemId must be a positive integer",
	"quantity.gt":         "quantity must be at least 1",
	"quantity.gte":        "quantity cannot be negative",
	"paidAmount.gte":      "Paid amount cannot be negative",
	"name.required":       "Name is required",
	"brand.required":      "Brand is required",
	"categoryId.gt":       "categoryId must be a positive integer",
	"categoryId.required": "categoryId is required",
	"costPrice.gte":       "Cost price cannot be negative",
	"salePrice.gte":       "Sale price cannot be negative",
	"pages.gt":            "Pages must be greater than 0",
	"rate.gt":             "Rate must be greater than 0",
	"newPassword.min":     "Password must be at least 6 characters and contain a letter",
}

// BindError 把ShouldBind的错误转换为AppError
//   - 校验失败:40900 "Validation failed" + 字段错误列表
//   - JSON格式/类型错误:40901
func BindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]apperrors.FieldError, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, apperrors.FieldError{
				Field:   fieldPath(fe),
				Message: fieldMessage(fe),
			})
		}
		return apperrors.NewValidation(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.NewValidation([]apperrors.FieldError{{
			Field:   typeErr.Field,
			Message: typeErr.Field + " must be a " + typeName(typeErr.Type),
		}})
	}
	return apperrors.WithCode(apperrors.ErrCodeBindError, apperrors.ErrBindError.Message, err)
}

// typeName JSON里的类型名
func typeName(t reflect.Type) string {
	if t == decimalType {
		return "number"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	}
	return t.String()
}

// fieldPath 去掉最外层结构体名:CreateOrderRequest.items[0].quantity → items[0].quantity
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "min":
		return fe.Field() + " must have at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must have at most " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
