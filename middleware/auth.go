package middleware

import (
	"net/http"
	"strings"

	"github.com/Xushengqwer/go-common/core"
	"github.com/Xushengqwer/go-common/models/enums"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/member_hub/constants"
	"github.com/Xushengqwer/member_hub/repository/mysql"
	"github.com/Xushengqwer/member_hub/service/token"
)

// AuthMiddleware 从 Authorization 头中提取 Bearer 访问令牌并解析。
// 解析成功且对应会员仍然有效时，将会员身份写入 gin 上下文；
// 任何一步失败都只是不写入身份，静默放行，由下游的 RequireAuth / RequireAdmin
// 决定该路由是否必须登录。匿名可访问与必须登录的路由因此可以共用这一个中间件。
func AuthMiddleware(
	tokenService token.AuthTokenService,
	memberRepo mysql.MemberRepository,
	logger *core.ZapLogger,
) gin.HandlerFunc {
	const operation = "Middleware.Auth"

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.Next()
			return
		}
		accessToken := strings.TrimPrefix(authHeader, bearerPrefix)
		if accessToken == "" {
			c.Next()
			return
		}

		// 无状态校验访问令牌（验签、过期、签发者）
		claims, err := tokenService.ValidateAccessToken(c.Request.Context(), accessToken)
		if err != nil {
			logger.Debug("访问令牌校验失败，按匿名请求放行", zap.String("operation", operation), zap.Error(err))
			c.Next()
			return
		}

		// 访问令牌无状态通过后仍需确认会员未注销
		m, err := memberRepo.GetMemberByUsername(c.Request.Context(), claims.Username, false)
		if err != nil {
			logger.Debug("访问令牌对应会员不存在或已注销，按匿名请求放行",
				zap.String("operation", operation),
				zap.String("username", claims.Username),
			)
			c.Next()
			return
		}

		c.Set(constants.ContextKeyMemberID, m.MemberID)
		c.Set(constants.ContextKeyUsername, m.Username)
		c.Set(constants.ContextKeyRole, m.Role)
		c.Next()
	}
}

// RequireAuth 要求请求已通过 AuthMiddleware 建立会员身份，否则返回 401。
func RequireAuth(logger *core.ZapLogger) gin.HandlerFunc {
	const operation = "Middleware.RequireAuth"

	return func(c *gin.Context) {
		if _, exists := c.Get(constants.ContextKeyMemberID); !exists {
			logger.Warn("未认证请求访问受保护路由",
				zap.String("operation", operation),
				zap.String("path", c.Request.URL.Path),
			)
			response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin 要求当前会员具有管理员角色，否则返回 403。
// 需在 RequireAuth 之后挂载。
func RequireAdmin(logger *core.ZapLogger) gin.HandlerFunc {
	const operation = "Middleware.RequireAdmin"

	return func(c *gin.Context) {
		roleValue, exists := c.Get(constants.ContextKeyRole)
		role, ok := roleValue.(enums.UserRole)
		if !exists || !ok || role != enums.RoleAdmin {
			logger.Warn("非管理员请求访问管理路由",
				zap.String("operation", operation),
				zap.String("path", c.Request.URL.Path),
			)
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "权限不足")
			c.Abort()
			return
		}
		c.Next()
	}
}
