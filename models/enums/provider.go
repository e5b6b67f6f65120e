package enums

// OAuthProvider 第三方登录提供方标识
type OAuthProvider string

const (
	// ProviderGoogle Google OAuth2 登录
	ProviderGoogle OAuthProvider = "google"
	// 可扩展其他提供方，如 GitHub、Kakao 等
)
