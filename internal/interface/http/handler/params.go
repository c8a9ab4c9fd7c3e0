package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

var errInvalidID = apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid id")

// pathID 解析路径参数中的正整数ID
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// queryBool 解析可选的bool查询参数,不传返回nil
func queryBool(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidParams, "%s must be true or false", name)
	}
	return &v, nil
}

// queryInt 解析可选的非负整数查询参数
func queryInt(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidParams, "%s must be a non-negative integer", name)
	}
	return &v, nil
}
