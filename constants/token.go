package constants

import (
	"time"
)

const (
	// 认证令牌和刷新令牌的默认过期时间（配置未显式指定秒数时使用）

	DefaultAccessTokenTTL = 15 * time.Minute // 认证令牌（Access Token）的默认有效期

	DefaultRefreshTokenTTL = 10 * 24 * time.Hour // 刷新令牌（Refresh Token）的默认有效期

	// EmailAuthTokenTTL 邮箱验证令牌的有效期，设计上固定为 5 分钟
	EmailAuthTokenTTL = 5 * time.Minute
)

const (
	// RefreshTokenKeyPrefix 是 Redis 中刷新令牌记录的键名前缀。
	// 完整键格式: "refresh_token:{username}"，值为该用户名当前唯一受信任的刷新令牌。
	RefreshTokenKeyPrefix = "refresh_token"
)
