package router

import (
	"net/http"
	"time"

	"github.com/Xushengqwer/go-common/core"
	commonMiddleware "github.com/Xushengqwer/go-common/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/constants"
	"github.com/Xushengqwer/member_hub/controller"
	"github.com/Xushengqwer/member_hub/dependencies"
	_ "github.com/Xushengqwer/member_hub/docs" // 引入 docs 包以注册 Swagger 信息
	"github.com/Xushengqwer/member_hub/initialization"
	"github.com/Xushengqwer/member_hub/middleware"
)

// SetupRouter 初始化并配置 Gin 引擎，注册所有中间件和路由。
// 设计目的:
//   - 作为应用路由配置的统一入口点。
//   - 应用全局中间件，处理通用逻辑如追踪、日志、错误恢复、超时等。
//   - 创建 API 版本分组（/api/v1/member-hub）并注册各控制器的路由。
//
// 认证在本服务内完成: AuthMiddleware 全局挂载（解析成功才写入身份，失败静默放行），
// 需要登录/管理员的路由再由 RequireAuth / RequireAdmin 守卫。
func SetupRouter(
	logger *core.ZapLogger,
	cfg *config.MemberHubConfig,
	jwtUtil dependencies.JWTTokenInterface,
	appServices *initialization.AppServices,
) *gin.Engine {
	logger.Info("开始设置 Gin 路由...")

	// 1. 创建 Gin 引擎实例
	router := gin.New()

	// 2. 全局中间件，顺序敏感:
	//    OTel (追踪上下文) -> Panic Recovery -> 请求日志 -> 超时 -> 认证
	router.Use(otelgin.Middleware(constants.ServiceName))
	router.Use(commonMiddleware.ErrorHandlingMiddleware(logger))
	if baseLogger := logger.Logger(); baseLogger != nil {
		router.Use(commonMiddleware.RequestLoggerMiddleware(baseLogger))
	} else {
		logger.Warn("无法获取底层的 *zap.Logger，跳过 RequestLoggerMiddleware 注册")
	}
	requestTimeout := time.Duration(cfg.ServerConfig.RequestTimeout) * time.Second
	router.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))
	router.Use(middleware.AuthMiddleware(appServices.TokenService, appServices.MemberRepo, logger))

	// 3. 健康检查
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": constants.ServiceName})
	})

	// 4. 创建 API 版本分组
	v1 := router.Group("api/v1/member-hub")
	logger.Info("API 路由将注册到 api/v1/member-hub 分组下")

	// 5. 初始化所有控制器并注册路由
	accountCtrl := controller.NewAccountController(appServices.Account, appServices.MemberService, jwtUtil, logger, cfg.CookieConfig)
	tokenCtrl := controller.NewAuthTokenController(appServices.TokenService, jwtUtil, logger, cfg.CookieConfig)
	memberCtrl := controller.NewMemberController(appServices.MemberService, logger)
	oauthCtrl := controller.NewGoogleOAuthController(appServices.GoogleOAuth, jwtUtil, logger, cfg.CookieConfig)

	accountCtrl.RegisterRoutes(v1)
	tokenCtrl.RegisterRoutes(v1)
	memberCtrl.RegisterRoutes(v1, middleware.RequireAuth(logger), middleware.RequireAdmin(logger))
	oauthCtrl.RegisterRoutes(v1)

	logger.Info("所有业务路由已成功注册")

	// 6. 配置 Swagger UI 路由，访问路径 /swagger/index.html
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logger.Info("Swagger UI 路由已注册，访问路径: /swagger/index.html")

	return router
}
