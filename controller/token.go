package controller

import (
	"net/http"
	"strings"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/models/dto"
	"github.com/Xushengqwer/member_hub/models/vo"
	"github.com/Xushengqwer/member_hub/service/token"
)

// AuthTokenController 处理令牌刷新与退出登录相关的 HTTP 请求。
type AuthTokenController struct {
	tokenService token.AuthTokenService
	jwtUtil      dependencies.JWTTokenInterface
	logger       *core.ZapLogger
	cookieConfig config.CookieConfig
}

func NewAuthTokenController(
	tokenService token.AuthTokenService,
	jwtUtil dependencies.JWTTokenInterface,
	logger *core.ZapLogger,
	cookieCfg config.CookieConfig,
) *AuthTokenController {
	return &AuthTokenController{
		tokenService: tokenService,
		jwtUtil:      jwtUtil,
		logger:       logger,
		cookieConfig: cookieCfg,
	}
}

// extractRefreshToken 按固定优先级提取刷新令牌:
// HttpOnly Cookie > "Authorization: Refresh <token>" 请求头 > JSON 请求体。
// Web 端走 Cookie，非浏览器客户端走请求头或请求体。
func (ctrl *AuthTokenController) extractRefreshToken(c *gin.Context) string {
	if cookieRT, err := c.Cookie(ctrl.cookieConfig.RefreshTokenName); err == nil && cookieRT != "" {
		return cookieRT
	}

	const refreshPrefix = "Refresh "
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, refreshPrefix) {
		if headerRT := strings.TrimPrefix(authHeader, refreshPrefix); headerRT != "" {
			return headerRT
		}
	}

	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	return ""
}

// RefreshToken 处理刷新令牌请求。
// @Summary 刷新令牌
// @Description 使用有效的刷新令牌换取一对新令牌。旧刷新令牌随即失效（服务端存储被新值覆盖）。刷新令牌按 Cookie > Authorization 头 > 请求体的优先级提取。
// @Tags 认证管理 (Auth Management)
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "请求体 (可选)，包含 refresh_token 字段"
// @Success 200 {object} docs.SwaggerAPITokenPairResponse "刷新成功，返回新令牌对"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "未提供刷新令牌"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "刷新令牌无效、已过期或已被新的签发覆盖"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/auth/refresh-token [post]
func (ctrl *AuthTokenController) RefreshToken(c *gin.Context) {
	const operation = "AuthTokenController.RefreshToken"

	refreshTokenString := ctrl.extractRefreshToken(c)
	if refreshTokenString == "" {
		ctrl.logger.Warn("刷新令牌请求未携带刷新令牌", zap.String("operation", operation))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "未提供有效的刷新令牌")
		return
	}

	newTokenPair, err := ctrl.tokenService.RefreshToken(c.Request.Context(), refreshTokenString)
	if err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	// 新访问令牌放入响应头，新刷新令牌同时写入 Cookie 与响应体
	c.Header("Authorization", "Bearer "+newTokenPair.AccessToken)
	setRefreshTokenCookie(c, ctrl.cookieConfig, newTokenPair.RefreshToken, int(ctrl.jwtUtil.RefreshTokenTTL().Seconds()))

	ctrl.logger.Info("令牌刷新成功", zap.String("operation", operation))
	response.RespondSuccess(c, newTokenPair, "刷新成功")
}

// Logout 处理退出登录请求。
// @Summary 退出登录
// @Description 删除服务端保存的刷新令牌并清除刷新令牌 Cookie。刷新令牌无效时同样返回成功（幂等）。已签发的访问令牌在剩余有效期内仍可通过无状态校验。
// @Tags 认证管理 (Auth Management)
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "请求体 (可选)，包含 refresh_token 字段"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "退出登录成功"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误 (如 Redis 操作失败)"
// @Router /api/v1/member-hub/auth/logout [post]
func (ctrl *AuthTokenController) Logout(c *gin.Context) {
	const operation = "AuthTokenController.Logout"

	if refreshTokenString := ctrl.extractRefreshToken(c); refreshTokenString != "" {
		if err := ctrl.tokenService.Logout(c.Request.Context(), refreshTokenString); err != nil {
			respondServiceError(c, ctrl.logger, operation, err)
			return
		}
	} else {
		ctrl.logger.Info("退出登录请求未携带刷新令牌，仅清除Cookie", zap.String("operation", operation))
	}

	clearRefreshTokenCookie(c, ctrl.cookieConfig)
	ctrl.logger.Info("退出登录完成", zap.String("operation", operation))
	response.RespondSuccess[vo.Empty](c, vo.Empty{}, "退出成功")
}

// RegisterRoutes 注册令牌管理路由。
// 刷新令牌本身就是认证凭证，这两个端点无需访问令牌即可调用。
func (ctrl *AuthTokenController) RegisterRoutes(group *gin.RouterGroup) {
	authRoutes := group.Group("/auth")
	{
		authRoutes.POST("/refresh-token", ctrl.RefreshToken)
		authRoutes.POST("/logout", ctrl.Logout)
	}
}
