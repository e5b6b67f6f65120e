package config

// JWTConfig 定义JWT认证功能的相关配置，包含密钥、签发者和过期时间，用于生成和验证JWT。
type JWTConfig struct {
	SecretKey     string `mapstructure:"secret_key" yaml:"secret_key"`         // 用于签名Access Token的密钥
	Issuer        string `mapstructure:"issuer" yaml:"issuer"`                 // JWT的签发者
	RefreshSecret string `mapstructure:"refresh_secret" yaml:"refresh_secret"` // 用于签名Refresh Token的密钥

	// AccessExpiration Access Token 有效期（秒）。为 0 时使用 constants.DefaultAccessTokenTTL。
	AccessExpiration int `mapstructure:"access_expiration" yaml:"access_expiration"`

	// RefreshExpiration Refresh Token 有效期（秒）。为 0 时使用 constants.DefaultRefreshTokenTTL。
	// 同时作为 Redis 刷新令牌记录和刷新令牌 Cookie 的生命周期。
	RefreshExpiration int `mapstructure:"refresh_expiration" yaml:"refresh_expiration"`
}
