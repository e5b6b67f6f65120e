package dependencies

import (
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/Xushengqwer/member_hub/config"
)

// MailClient 定义邮件发送客户端接口
// - 用于向会员发送验证邮件、临时密码邮件等通知类邮件
type MailClient interface {
	// SendAsync 异步发送一封邮件（fire-and-forget）。
	// - 输入: to 收件人地址, subject 主题, htmlBody HTML 正文
	// - 请求路径不等待邮件传输完成；发送失败只记录错误日志，不向调用方反馈
	SendAsync(to string, subject string, htmlBody string)

	// Send 同步发送一封邮件，返回发送错误。
	// - 仅供需要确认投递结果的场景（如启动自检）使用，业务路径应使用 SendAsync
	Send(to string, subject string, htmlBody string) error
}

// mailClient 是 MailClient 接口基于 gomail 的实现。
type mailClient struct {
	config *config.MailConfig // SMTP 配置
	dialer *gomail.Dialer     // gomail 拨号器，按需建立 SMTP 连接
	logger *core.ZapLogger    // 日志记录器，用于记录异步发送失败
}

// NewMailClient 创建 MailClient 实例，通过依赖注入初始化
// - 输入: config 包含 SMTP 服务器的配置信息, logger 日志记录器
// - 输出: MailClient 接口实例
// - 注意: 若配置缺少必要字段，会导致初始化失败，需在调用前校验
func NewMailClient(config *config.MailConfig, logger *core.ZapLogger) (MailClient, error) {
	// 1. 校验配置是否有效
	if config == nil || config.Host == "" || config.Port == 0 || config.From == "" {
		return nil, fmt.Errorf("邮件配置无效，缺少必要字段")
	}

	// 2. 初始化 gomail 拨号器
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	// 3. 返回 MailClient 实例
	return &mailClient{
		config: config,
		dialer: dialer,
		logger: logger,
	}, nil
}

// Send 同步发送邮件。
func (m *mailClient) Send(to string, subject string, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailClient.Send: 发送邮件失败 (to: %s): %w", to, err)
	}
	return nil
}

// SendAsync 异步发送邮件，发送失败仅记录日志。
func (m *mailClient) SendAsync(to string, subject string, htmlBody string) {
	go func() {
		if err := m.Send(to, subject, htmlBody); err != nil {
			// 业务请求路径不关心投递结果，这里只做日志级别的错误上报
			m.logger.Error("异步发送邮件失败",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}()
}
