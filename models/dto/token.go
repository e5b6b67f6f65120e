package dto

// RefreshTokenRequest 刷新令牌请求体。
// 刷新令牌的提取优先级为: Cookie > "Authorization: Refresh <token>" 请求头 > 本请求体字段。
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"` // 刷新令牌（Web 平台通常走 Cookie，此字段可省略）
}
