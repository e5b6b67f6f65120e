package initialization

import (
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/dependencies"
	"github.com/Xushengqwer/member_hub/utils"
)

// AppDependencies 封装了应用运行所需的所有基础依赖项。
// 设计目的:
//   - 将各个独立的依赖（数据库连接、Redis客户端、配置、日志等）聚合到一个结构体中。
//   - 方便在应用的不同层（如服务层、控制器层）之间传递这些共享的依赖。
type AppDependencies struct {
	Config       *config.MemberHubConfig        // 应用的全局配置
	Logger       *core.ZapLogger                // Zap 日志记录器实例
	DB           *gorm.DB                       // GORM 数据库连接实例
	RedisClient  *redis.Client                  // Redis v9 客户端实例
	JwtToken     dependencies.JWTTokenInterface // JWT 工具实例
	MailClient   dependencies.MailClient        // 邮件客户端实例
	GoogleClient dependencies.GoogleClient      // Google OAuth 客户端实例
}

// SetupDependencies 按正确的顺序初始化应用所需的所有基础依赖项。
// 任何关键依赖初始化失败都返回错误，由 main 决定退出。
func SetupDependencies(cfg *config.MemberHubConfig, logger *core.ZapLogger) (*AppDependencies, error) {
	var deps AppDependencies
	deps.Config = cfg
	deps.Logger = logger

	// 1. 注册自定义验证器
	if err := utils.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("注册自定义验证器失败: %w", err)
	}
	logger.Info("自定义验证器注册成功")

	// 2. 初始化数据库连接 (MySQL)
	db, err := dependencies.InitMySQL(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}
	deps.DB = db
	logger.Info("数据库连接初始化成功")

	// 3. 初始化 Redis 连接
	redisClient, err := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化 Redis 失败: %w", err)
	}
	deps.RedisClient = redisClient
	logger.Info("Redis 连接初始化成功")

	// 4. 初始化 JWT 工具
	deps.JwtToken = dependencies.NewJWTUtility(&cfg.JWTConfig)
	logger.Info("JWT 工具初始化成功")

	// 5. 初始化邮件客户端
	mailClient, err := dependencies.NewMailClient(&cfg.MailConfig, logger)
	if err != nil {
		logger.Error("初始化邮件客户端失败", zap.Error(err))
		return nil, fmt.Errorf("初始化邮件客户端失败: %w", err)
	}
	deps.MailClient = mailClient
	logger.Info("邮件客户端初始化成功")

	// 6. 初始化 Google OAuth 客户端
	deps.GoogleClient = dependencies.NewGoogleClient(&cfg.GoogleConfig)
	logger.Info("Google OAuth 客户端初始化成功")

	logger.Info("所有基础依赖项初始化完成")
	return &deps, nil
}
