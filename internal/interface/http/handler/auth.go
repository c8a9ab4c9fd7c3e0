package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/shopdesk/internal/application/user"
	"github.com/xiebiao/shopdesk/internal/interface/http/dto"
	"github.com/xiebiao/shopdesk/internal/interface/http/middleware"
	"github.com/xiebiao/shopdesk/pkg/response"
)

// AuthHandler 登录/注销/账号
type AuthHandler struct {
	loginUseCase   *appuser.LoginUseCase
	logoutUseCase  *appuser.LogoutUseCase
	accountUseCase *appuser.AccountUseCase
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	accountUseCase *appuser.AccountUseCase,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:   loginUseCase,
		logoutUseCase:  logoutUseCase,
		accountUseCase: accountUseCase,
	}
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证用户名密码,返回JWT Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} dto.LoginResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      401 {object} response.ErrorBody "用户名或密码错误"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.LoginResponse{
		Message:   "Login successful",
		Token:     result.Token.AccessToken,
		ExpiresAt: result.Token.ExpiresAt,
		User:      dto.NewUserResponse(result.User),
	})
}

// Logout 注销
// @Summary      注销
// @Description  当前Token加入黑名单直到过期,并删除会话
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if err := h.logoutUseCase.Execute(c.Request.Context(), p.UserID, p.Token, p.TokenTTL); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Logout successful", nil)
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Tags         认证
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChangePasswordRequest true "当前密码和新密码"
// @Success      200 {object} map[string]string
// @Failure      400 {object} response.ErrorBody "当前密码错误/新密码强度不足"
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	p := middleware.GetPrincipal(c)
	if err := h.accountUseCase.ChangePassword(c.Request.Context(), p.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Password changed successfully", nil)
}

// Profile 当前用户信息
// @Summary      当前用户信息
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /user/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	u, err := h.accountUseCase.Profile(c.Request.Context(), p.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Profile fetched", gin.H{"user": dto.NewUserResponse(u)})
}
