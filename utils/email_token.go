package utils

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// GenerateEmailAuthToken 生成一个不透明的邮箱验证令牌（随机 UUID 字符串）。
// 令牌本身不携带任何信息，有效性由存储侧的 (username, token, 过期时间) 三元组决定。
func GenerateEmailAuthToken() string {
	return uuid.New().String()
}

// NormalizeUsername 对用户名（邮箱地址）做小写规范化。
// 用户名的唯一性比较不区分大小写，存储时统一为小写。
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// BuildVerifyEmailLink 拼接发送给用户的邮箱验证深链。
// 形如 {frontendBaseURL}/verify-email?email={username}&authToken={token}
func BuildVerifyEmailLink(frontendBaseURL, username, token string) string {
	params := url.Values{
		"email":     {username},
		"authToken": {token},
	}
	return strings.TrimRight(frontendBaseURL, "/") + "/verify-email?" + params.Encode()
}
