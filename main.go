package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	// 导入公共模块
	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp" // OTel HTTP instrumentation
	"go.uber.org/zap"

	// 导入项目包
	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/constants"
	_ "github.com/Xushengqwer/member_hub/docs" // Swagger 文档，匿名导入以执行其 init()
	"github.com/Xushengqwer/member_hub/initialization"
	"github.com/Xushengqwer/member_hub/router"
)

// @title           Member Hub API
// @version         1.0
// @description     论坛会员身份与认证服务 API 文档
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8082
// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg config.MemberHubConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// --- 手动从环境变量覆盖关键配置 (生产环境部署核心) ---
	log.Println("检查环境变量以覆盖 Member Hub 的文件配置...")
	// Server & Log
	if level := os.Getenv("ZAPCONFIG_LEVEL"); level != "" {
		cfg.ZapConfig.Level = level
		log.Printf("通过环境变量覆盖了 ZapConfig.Level: %s\n", level)
	}
	if level := os.Getenv("GORMLOGCONFIG_LEVEL"); level != "" {
		cfg.GormLogConfig.Level = level
		log.Printf("通过环境变量覆盖了 GormLogConfig.Level: %s\n", level)
	}
	// Tracer
	if enabled, err := strconv.ParseBool(os.Getenv("TRACERCONFIG_ENABLED")); err == nil {
		cfg.TracerConfig.Enabled = enabled
		log.Printf("通过环境变量覆盖了 TracerConfig.Enabled: %t\n", enabled)
	}
	// JWT
	if key := os.Getenv("JWTCONFIG_SECRET_KEY"); key != "" {
		cfg.JWTConfig.SecretKey = key
		log.Printf("通过环境变量覆盖了 JWTConfig.SecretKey") // 不打印密钥值
	}
	if key := os.Getenv("JWTCONFIG_REFRESH_SECRET"); key != "" {
		cfg.JWTConfig.RefreshSecret = key
		log.Printf("通过环境变量覆盖了 JWTConfig.RefreshSecret") // 不打印密钥值
	}
	// MySQL & Redis
	if dsn := os.Getenv("MYSQLCONFIG_DSN"); dsn != "" {
		cfg.MySQLConfig.DSN = dsn
		log.Printf("通过环境变量覆盖了 MySQLConfig.DSN") // 不打印DSN
	}
	if addr := os.Getenv("REDISCONFIG_ADDRESS"); addr != "" {
		cfg.RedisConfig.Address = addr
		log.Printf("通过环境变量覆盖了 RedisConfig.Address: %s\n", addr)
	}
	if pass := os.Getenv("REDISCONFIG_PASSWORD"); pass != "" {
		cfg.RedisConfig.Password = pass
		log.Printf("通过环境变量覆盖了 RedisConfig.Password")
	}
	// Mail (SMTP)
	if host := os.Getenv("MAILCONFIG_HOST"); host != "" {
		cfg.MailConfig.Host = host
		log.Printf("通过环境变量覆盖了 MailConfig.Host: %s\n", host)
	}
	if port, err := strconv.Atoi(os.Getenv("MAILCONFIG_PORT")); err == nil {
		cfg.MailConfig.Port = port
		log.Printf("通过环境变量覆盖了 MailConfig.Port: %d\n", port)
	}
	if username := os.Getenv("MAILCONFIG_USERNAME"); username != "" {
		cfg.MailConfig.Username = username
		log.Printf("通过环境变量覆盖了 MailConfig.Username")
	}
	if pass := os.Getenv("MAILCONFIG_PASSWORD"); pass != "" {
		cfg.MailConfig.Password = pass
		log.Printf("通过环境变量覆盖了 MailConfig.Password")
	}
	if from := os.Getenv("MAILCONFIG_FROM"); from != "" {
		cfg.MailConfig.From = from
		log.Printf("通过环境变量覆盖了 MailConfig.From: %s\n", from)
	}
	// Google OAuth
	if id := os.Getenv("GOOGLECONFIG_CLIENT_ID"); id != "" {
		cfg.GoogleConfig.ClientID = id
		log.Printf("通过环境变量覆盖了 GoogleConfig.ClientID")
	}
	if secret := os.Getenv("GOOGLECONFIG_CLIENT_SECRET"); secret != "" {
		cfg.GoogleConfig.ClientSecret = secret
		log.Printf("通过环境变量覆盖了 GoogleConfig.ClientSecret")
	}
	if url := os.Getenv("GOOGLECONFIG_REDIRECT_URL"); url != "" {
		cfg.GoogleConfig.RedirectURL = url
		log.Printf("通过环境变量覆盖了 GoogleConfig.RedirectURL: %s\n", url)
	}
	// App
	if url := os.Getenv("APPCONFIG_FRONTEND_BASE_URL"); url != "" {
		cfg.AppConfig.FrontendBaseURL = url
		log.Printf("通过环境变量覆盖了 AppConfig.FrontendBaseURL: %s\n", url)
	}
	// Cookie
	if secure, err := strconv.ParseBool(os.Getenv("COOKIECONFIG_SECURE")); err == nil {
		cfg.CookieConfig.Secure = secure
		log.Printf("通过环境变量覆盖了 CookieConfig.Secure: %t\n", secure)
	}
	if domain := os.Getenv("COOKIECONFIG_DOMAIN"); domain != "" {
		cfg.CookieConfig.Domain = domain
		log.Printf("通过环境变量覆盖了 CookieConfig.Domain: %s\n", domain)
	}
	if name := os.Getenv("COOKIECONFIG_REFRESH_TOKEN_NAME"); name != "" {
		cfg.CookieConfig.RefreshTokenName = name
		log.Printf("通过环境变量覆盖了 CookieConfig.RefreshTokenName: %s\n", name)
	}
	// --- 结束环境变量覆盖 ---

	// 2. 初始化 Logger (使用可能已被覆盖的配置)
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider (如果启用)
	if cfg.TracerConfig.Enabled {
		tracerShutdown, err := sharedTracing.InitTracerProvider(
			constants.ServiceName,
			constants.ServiceVersion,
			cfg.TracerConfig,
		)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("正在关闭 TracerProvider...")
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			} else {
				logger.Info("TracerProvider 已成功关闭")
			}
		}()
		logger.Info("分布式追踪已初始化")
	} else {
		logger.Info("分布式追踪已禁用")
	}

	// 4. 初始化基础依赖 (数据库, Redis, JWT, 邮件, Google 客户端)
	appDeps, err := initialization.SetupDependencies(&cfg, logger)
	if err != nil {
		logger.Fatal("初始化基础依赖失败", zap.Error(err))
	}
	logger.Info("基础依赖初始化成功")

	// 5. 初始化服务层实例
	appServices := initialization.SetupServices(appDeps)
	logger.Info("服务层初始化成功")

	// 6. 设置路由和中间件
	setupRouter := router.SetupRouter(
		logger,
		&cfg,
		appDeps.JwtToken,
		appServices,
	)
	logger.Info("Gin 路由器设置完成")

	// 7. 配置并启动 HTTP 服务器
	serverAddress := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	srv := &http.Server{
		Addr:    serverAddress,
		Handler: otelhttp.NewHandler(setupRouter, "HTTPServer"),
	}

	// 8. 启动服务器
	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 等待中断信号以实现优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	recSignal := <-quit
	logger.Info("接收到关停信号", zap.String("signal", recSignal.String()))

	// 10. 执行优雅关停
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	logger.Info("开始优雅关停 HTTP 服务器...")
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP 服务器优雅关停失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	logger.Info("服务已完全关闭")
}
