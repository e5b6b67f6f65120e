package config

// MailConfig 定义 SMTP 邮件发送客户端的配置
type MailConfig struct {
	// SMTP 服务器地址（如 "smtp.example.com"）
	Host string `mapstructure:"host" json:"host" yaml:"host"`

	// SMTP 服务器端口（如 465 或 587）
	Port int `mapstructure:"port" json:"port" yaml:"port"`

	// SMTP 登录用户名
	Username string `mapstructure:"username" json:"username" yaml:"username"`

	// SMTP 登录密码或授权码
	Password string `mapstructure:"password" json:"password" yaml:"password"`

	// 邮件的 From 地址（如 "member_hub <noreply@example.com>"）
	From string `mapstructure:"from" json:"from" yaml:"from"`
}
