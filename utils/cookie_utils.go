package utils

import (
	"net/http"
	"strings"
)

// ParseSameSiteString 将字符串形式的 SameSite 配置转换为 http.SameSite 类型
func ParseSameSiteString(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		// Lax 通常是个不错的默认值
		return http.SameSiteLaxMode
	}
}
