package config

// AppConfig 定义与前端站点相关的应用级配置
type AppConfig struct {
	// FrontendBaseURL 前端站点的基础 URL，用于拼接邮箱验证深链
	// （如 "https://bbs.example.com"，验证链接为 {base}/verify-email?email=...&authToken=...）
	FrontendBaseURL string `mapstructure:"frontend_base_url" json:"frontend_base_url" yaml:"frontend_base_url"`
}
