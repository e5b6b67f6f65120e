package dependencies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Xushengqwer/member_hub/config"
)

// googleUserInfoURL 是 Google 用户信息接口地址。
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUserInfo 描述从 Google 获取到的用户基础信息。
// 满足 OAuth 提供方抽象所需的最小能力集：提供方标识、提供方侧用户 ID、邮箱。
type GoogleUserInfo struct {
	ID    string `json:"id"`    // Google 侧的用户唯一标识
	Email string `json:"email"` // 用户邮箱
	Name  string `json:"name"`  // 显示名，用作昵称提示
}

// GoogleClient 定义了与 Google OAuth2 服务端交互的客户端接口。
// - 负责生成授权跳转地址，以及用授权码换取用户信息。
type GoogleClient interface {
	// AuthCodeURL 生成引导用户跳转的 Google 授权页地址。
	// - state: 防 CSRF 的随机状态值，回调时由 Google 原样带回。
	AuthCodeURL(state string) string

	// GetUserInfo 使用授权码换取用户信息。
	// - ctx: 用于控制请求的上下文，例如超时或取消。
	// - code: Google 回调时携带的一次性授权码。
	// - 返回: 用户信息以及可能的错误。
	GetUserInfo(ctx context.Context, code string) (*GoogleUserInfo, error)
}

// googleClient 是 GoogleClient 接口的实现。
type googleClient struct {
	oauthConfig *oauth2.Config // oauthConfig 封装了授权码模式的 endpoint 和凭证
	client      *http.Client   // client 是用于请求用户信息接口的 HTTP 客户端
}

// NewGoogleClient 创建一个新的 googleClient 实例。
// - 依赖注入 Google OAuth 配置。
func NewGoogleClient(cfg *config.GoogleOAuthConfig) GoogleClient {
	return &googleClient{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		client: &http.Client{
			// 设置合理的 HTTP 请求超时时间
			Timeout: 10 * time.Second,
		},
	}
}

// AuthCodeURL 实现接口方法，生成授权跳转地址。
func (g *googleClient) AuthCodeURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// GetUserInfo 实现接口方法，用授权码换取用户信息。
func (g *googleClient) GetUserInfo(ctx context.Context, code string) (*GoogleUserInfo, error) {
	// 1. 用授权码换取 access token
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("googleClient.GetUserInfo: 授权码换取令牌失败: %w", err)
	}

	// 2. 创建请求用户信息接口的 HTTP GET 请求
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("googleClient.GetUserInfo: 创建 Google API 请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	// 3. 发送 HTTP 请求
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googleClient.GetUserInfo: 请求 Google API 失败: %w", err)
	}
	// 确保响应体在使用后关闭，防止资源泄露
	defer resp.Body.Close()

	// 4. 读取响应体
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("googleClient.GetUserInfo: 读取 Google API 响应体失败: %w", err)
	}

	// 5. 检查 HTTP 状态码
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("googleClient.GetUserInfo: Google API 返回非 200 状态码: %d, 响应体: %s", resp.StatusCode, string(body))
	}

	// 6. 解析 JSON 响应
	var info GoogleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("googleClient.GetUserInfo: 解析 Google API 响应失败: %w", err)
	}

	// 7. 基本字段校验
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("googleClient.GetUserInfo: Google API 响应缺少必要字段 (id/email)")
	}

	// 8. 成功获取，返回用户信息
	return &info, nil
}
