package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/service/login/oauth"
)

// Google 授权跳转时用于 CSRF 防护的 state Cookie 名称与有效期（秒）
const (
	oauthStateCookieName   = "oauth_state"
	oauthStateCookieMaxAge = 600
)

// GoogleOAuthController 处理 Google OAuth 登录相关的 HTTP 请求。
type GoogleOAuthController struct {
	googleService oauth.GoogleOAuthService
	jwtUtil       dependencies.JWTTokenInterface
	logger        *core.ZapLogger
	cookieConfig  config.CookieConfig
}

func NewGoogleOAuthController(
	googleService oauth.GoogleOAuthService,
	jwtUtil dependencies.JWTTokenInterface,
	logger *core.ZapLogger,
	cookieCfg config.CookieConfig,
) *GoogleOAuthController {
	return &GoogleOAuthController{
		googleService: googleService,
		jwtUtil:       jwtUtil,
		logger:        logger,
		cookieConfig:  cookieCfg,
	}
}

// Login 生成 Google 授权跳转。
// @Summary Google 登录跳转
// @Description 生成随机 state 并 302 跳转到 Google 授权页。state 同时写入短期 Cookie，回调时校验。
// @Tags 第三方登录 (OAuth)
// @Produce json
// @Success 302 "跳转到 Google 授权页"
// @Router /api/v1/member-hub/oauth/google/login [get]
func (ctrl *GoogleOAuthController) Login(c *gin.Context) {
	const operation = "GoogleOAuthController.Login"

	state := uuid.New().String()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		MaxAge:   oauthStateCookieMaxAge,
		Path:     "/",
		Secure:   ctrl.cookieConfig.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	authURL := ctrl.googleService.AuthCodeURL(state)
	ctrl.logger.Info("生成 Google 授权跳转", zap.String("operation", operation))
	c.Redirect(http.StatusFound, authURL)
}

// Callback 处理 Google 授权回调。
// @Summary Google 登录回调
// @Description 校验 state 后用授权码完成登录，首次登录自动注册（账号直接视为已验证）。成功时与邮箱登录一致地下发令牌。
// @Tags 第三方登录 (OAuth)
// @Produce json
// @Param code query string true "Google 返回的授权码"
// @Param state query string true "授权跳转时生成的 state"
// @Success 200 {object} docs.SwaggerAPILoginResponse "登录成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "缺少授权码或 state 校验失败"
// @Failure 502 {object} docs.SwaggerAPIErrorResponseString "Google 服务调用失败"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/oauth/google/callback [get]
func (ctrl *GoogleOAuthController) Callback(c *gin.Context) {
	const operation = "GoogleOAuthController.Callback"

	// state 校验：回调携带的 state 必须与跳转时写入的 Cookie 一致
	stateQuery := c.Query("state")
	stateCookie, err := c.Cookie(oauthStateCookieName)
	if err != nil || stateQuery == "" || stateQuery != stateCookie {
		ctrl.logger.Warn("Google 回调 state 校验失败", zap.String("operation", operation))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "state 校验失败，请重新发起登录")
		return
	}
	// state 一次性使用，校验后立即作废
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   ctrl.cookieConfig.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	code := c.Query("code")
	if code == "" {
		ctrl.logger.Warn("Google 回调缺少授权码", zap.String("operation", operation))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少 code 参数")
		return
	}

	loginResponse, err := ctrl.googleService.LoginOrRegister(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	// 与邮箱登录一致：访问令牌放入响应头，刷新令牌写入 HttpOnly Cookie
	c.Header("Authorization", "Bearer "+loginResponse.Token.AccessToken)
	setRefreshTokenCookie(c, ctrl.cookieConfig, loginResponse.Token.RefreshToken, int(ctrl.jwtUtil.RefreshTokenTTL().Seconds()))

	ctrl.logger.Info("Google 登录成功", zap.String("operation", operation), zap.String("memberID", loginResponse.Member.MemberID))
	response.RespondSuccess(c, loginResponse, "登录成功")
}

// RegisterRoutes 注册 Google OAuth 路由，全部允许匿名访问。
func (ctrl *GoogleOAuthController) RegisterRoutes(group *gin.RouterGroup) {
	oauthRoutes := group.Group("/oauth/google")
	{
		oauthRoutes.GET("/login", ctrl.Login)
		oauthRoutes.GET("/callback", ctrl.Callback)
	}
}
