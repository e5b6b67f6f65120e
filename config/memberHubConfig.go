package config

import (
	"github.com/Xushengqwer/go-common/config"
)

type MemberHubConfig struct {
	ZapConfig     config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig  config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig  config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	AppConfig     AppConfig            `mapstructure:"appConfig" json:"appConfig" yaml:"appConfig"`
	JWTConfig     JWTConfig            `mapstructure:"jwtConfig" json:"jwtConfig" yaml:"jwtConfig"`
	MySQLConfig   MySQLConfig          `mapstructure:"mySQLConfig" json:"mySQLConfig" yaml:"mySQLConfig"`
	RedisConfig   RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	MailConfig    MailConfig           `mapstructure:"mailConfig" json:"mailConfig" yaml:"mailConfig"`
	GoogleConfig  GoogleOAuthConfig    `mapstructure:"googleConfig" json:"googleConfig" yaml:"googleConfig"`
	CookieConfig  CookieConfig         `mapstructure:"cookieConfig" json:"cookieConfig" yaml:"cookieConfig"`
}
