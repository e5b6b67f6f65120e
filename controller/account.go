package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/models/dto"
	"github.com/Xushengqwer/member_hub/models/vo"
	"github.com/Xushengqwer/member_hub/service/login/auth"
	"github.com/Xushengqwer/member_hub/service/member"
)

// AccountController 处理账号注册、登录与邮箱验证相关的 HTTP 请求。
type AccountController struct {
	accountService auth.AccountService            // 登录服务
	memberService  member.MemberIdentityService   // 会员身份服务
	jwtUtil        dependencies.JWTTokenInterface // JWT 工具，提供刷新令牌 TTL
	logger         *core.ZapLogger
	cookieConfig   config.CookieConfig
}

func NewAccountController(
	accountService auth.AccountService,
	memberService member.MemberIdentityService,
	jwtUtil dependencies.JWTTokenInterface,
	logger *core.ZapLogger,
	cookieCfg config.CookieConfig,
) *AccountController {
	return &AccountController{
		accountService: accountService,
		memberService:  memberService,
		jwtUtil:        jwtUtil,
		logger:         logger,
		cookieConfig:   cookieCfg,
	}
}

// Register 处理会员注册请求。
// @Summary 邮箱注册
// @Description 使用邮箱和密码注册新会员。注册成功后账号处于未验证状态，验证邮件异步发送，不自动登录。
// @Tags 账号管理 (Account Management)
// @Accept json
// @Produce json
// @Param request body dto.MemberRegisterData true "注册请求体"
// @Success 200 {object} docs.SwaggerAPIMemberInfoResponse "注册成功，返回会员基本信息"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数错误 (邮箱格式、密码强度、昵称格式或两次密码不一致)"
// @Failure 409 {object} docs.SwaggerAPIErrorResponseString "邮箱或昵称已被占用"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/account/register [post]
func (ctrl *AccountController) Register(c *gin.Context) {
	const operation = "AccountController.Register"

	var req dto.MemberRegisterData
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("注册请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	memberInfo, err := ctrl.memberService.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	response.RespondSuccess(c, memberInfo, "注册成功，请查收验证邮件")
}

// Login 处理邮箱密码登录请求。
// @Summary 邮箱登录
// @Description 使用邮箱和密码登录。成功时返回令牌对，刷新令牌同时写入 HttpOnly Cookie，访问令牌写入 Authorization 响应头。
// @Tags 账号管理 (Account Management)
// @Accept json
// @Produce json
// @Param request body dto.MemberLoginData true "登录请求体"
// @Success 200 {object} docs.SwaggerAPILoginResponse "登录成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数错误"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "用户名或密码错误"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "账号尚未完成邮箱验证"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/account/login [post]
func (ctrl *AccountController) Login(c *gin.Context) {
	const operation = "AccountController.Login"

	var req dto.MemberLoginData
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("登录请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	loginResponse, err := ctrl.accountService.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	// 访问令牌同时放入响应头，刷新令牌写入 HttpOnly Cookie
	c.Header("Authorization", "Bearer "+loginResponse.Token.AccessToken)
	setRefreshTokenCookie(c, ctrl.cookieConfig, loginResponse.Token.RefreshToken, int(ctrl.jwtUtil.RefreshTokenTTL().Seconds()))

	ctrl.logger.Info("会员登录成功", zap.String("operation", operation), zap.String("memberID", loginResponse.Member.MemberID))
	response.RespondSuccess(c, loginResponse, "登录成功")
}

// VerifyEmail 处理验证邮件中的回调链接。
// @Summary 邮箱验证
// @Description 校验验证邮件中携带的令牌。令牌不匹配或已过期时会自动换发新验证邮件，同样返回成功。
// @Tags 账号管理 (Account Management)
// @Produce json
// @Param email query string true "注册时使用的邮箱"
// @Param authToken query string true "验证邮件中携带的令牌"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "验证完成（或新验证邮件已发出）"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数错误"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "身份不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/account/verify-email [get]
func (ctrl *AccountController) VerifyEmail(c *gin.Context) {
	const operation = "AccountController.VerifyEmail"

	email := c.Query("email")
	authToken := c.Query("authToken")
	if email == "" || authToken == "" {
		ctrl.logger.Warn("邮箱验证请求缺少参数", zap.String("operation", operation))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "缺少 email 或 authToken 参数")
		return
	}

	if err := ctrl.memberService.VerifyEmail(c.Request.Context(), email, authToken); err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	response.RespondSuccess[vo.Empty](c, vo.Empty{}, "验证处理完成")
}

// ResendVerification 重发验证邮件。
// @Summary 重发验证邮件
// @Description 轮换验证令牌并重发验证邮件，同时将账号强制回到未验证状态。
// @Tags 账号管理 (Account Management)
// @Accept json
// @Produce json
// @Param request body dto.ResendVerificationData true "重发请求体"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "验证邮件已发出"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数错误"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "身份不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/account/resend-verification [post]
func (ctrl *AccountController) ResendVerification(c *gin.Context) {
	const operation = "AccountController.ResendVerification"

	var req dto.ResendVerificationData
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("重发验证邮件请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	if err := ctrl.memberService.ResendVerification(c.Request.Context(), req.Username); err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	response.RespondSuccess[vo.Empty](c, vo.Empty{}, "验证邮件已发出")
}

// ForgotPassword 找回密码。
// @Summary 找回密码
// @Description 为已验证的账号生成临时密码并发送到邮箱。未验证的账号会先收到新的验证邮件并收到 403。
// @Tags 账号管理 (Account Management)
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordData true "找回密码请求体"
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "临时密码已发送"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数错误"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "账号尚未完成邮箱验证 (新验证邮件已发出)"
// @Failure 404 {object} docs.SwaggerAPIErrorResponseString "身份不存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/member-hub/account/forgot-password [post]
func (ctrl *AccountController) ForgotPassword(c *gin.Context) {
	const operation = "AccountController.ForgotPassword"

	var req dto.ForgotPasswordData
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("找回密码请求参数绑定失败", zap.String("operation", operation), zap.Error(err))
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
		return
	}

	if err := ctrl.memberService.FindPassword(c.Request.Context(), req.Username); err != nil {
		respondServiceError(c, ctrl.logger, operation, err)
		return
	}

	response.RespondSuccess[vo.Empty](c, vo.Empty{}, "临时密码已发送到您的邮箱")
}

// RegisterRoutes 注册账号相关路由，这些路由全部允许匿名访问。
func (ctrl *AccountController) RegisterRoutes(group *gin.RouterGroup) {
	accountRoutes := group.Group("/account")
	{
		accountRoutes.POST("/register", ctrl.Register)
		accountRoutes.POST("/login", ctrl.Login)
		accountRoutes.GET("/verify-email", ctrl.VerifyEmail)
		accountRoutes.POST("/resend-verification", ctrl.ResendVerification)
		accountRoutes.POST("/forgot-password", ctrl.ForgotPassword)
	}
}
