package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"内部错误", ErrCodeInternal, http.StatusInternalServerError},
		{"数据库错误", ErrCodeDatabaseError, http.StatusInternalServerError},
		{"未登录", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"用户名不存在", ErrCodeInvalidUser, http.StatusUnauthorized},
		{"无权限", ErrCodeForbidden, http.StatusForbidden},
		{"订单不存在", ErrCodeOrderNotFound, http.StatusNotFound},
		{"库存不足", ErrCodeInsufficientStock, http.StatusBadRequest},
		{"事务超时", ErrCodeTransactionTimeout, http.StatusBadRequest},
		{"参数错误", ErrCodeInvalidParams, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "x").HTTPStatus())
		})
	}
}

func TestGetAppError(t *testing.T) {
	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		appErr := GetAppError(stderrors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.Equal(t, "Internal server error", appErr.Message)
		assert.True(t, appErr.IsInternal())
	})

	t.Run("错误链中的AppError原样返回", func(t *testing.T) {
		inner := Newf(ErrCodeItemNotFound, "Item %d not found", 7)
		wrapped := fmt.Errorf("lookup: %w", inner)

		appErr := GetAppError(wrapped)
		assert.Same(t, inner, appErr)
		assert.True(t, HasCode(wrapped, ErrCodeItemNotFound))
		assert.False(t, HasCode(wrapped, ErrCodeOrderNotFound))
	})
}

func TestAppError_Unwrap(t *testing.T) {
	appErr := WithCode(ErrCodeTransactionTimeout, "timeout", context.DeadlineExceeded)
	require.ErrorIs(t, appErr, context.DeadlineExceeded)
	assert.Contains(t, appErr.Error(), "[40011] timeout")
}

func TestNewValidation(t *testing.T) {
	appErr := NewValidation([]FieldError{{Field: "items", Message: "Order must contain at least one item"}})
	assert.Equal(t, ErrCodeInvalidParams, appErr.Code)
	assert.Equal(t, "Validation failed", appErr.Message)
	assert.Len(t, appErr.Fields, 1)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
}
