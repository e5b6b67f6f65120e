package config

// GoogleOAuthConfig 定义 Google OAuth2 登录的相关配置
type GoogleOAuthConfig struct {
	// Google OAuth2 应用的 ClientID
	ClientID string `mapstructure:"client_id" json:"client_id" yaml:"client_id"`

	// Google OAuth2 应用的 ClientSecret
	ClientSecret string `mapstructure:"client_secret" json:"client_secret" yaml:"client_secret"`

	// 授权完成后 Google 回调本服务的地址（如 "https://api.example.com/api/v1/member-hub/oauth/google/callback"）
	RedirectURL string `mapstructure:"redirect_url" json:"redirect_url" yaml:"redirect_url"`
}
