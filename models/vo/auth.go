package vo

type MemberInfo struct {
	MemberID string `json:"memberID"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`  // 新认证令牌
	RefreshToken string `json:"refresh_token"` // 新刷新令牌（响应体始终携带，Web 端同时经 HttpOnly Cookie 下发）
}

type LoginResponse struct {
	Member MemberInfo `json:"member"` // 会员信息
	Token  TokenPair  `json:"token"`  // Token 对
}

type Empty struct{}
