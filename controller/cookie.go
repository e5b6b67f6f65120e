package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/utils"
)

// setRefreshTokenCookie 将刷新令牌写入 HttpOnly Cookie，
// MaxAge 与服务端存储的刷新令牌 TTL 对齐。
func setRefreshTokenCookie(c *gin.Context, cookieCfg config.CookieConfig, refreshToken string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookieCfg.RefreshTokenName,
		Value:    refreshToken,
		MaxAge:   maxAge,
		Path:     cookieCfg.Path,
		Domain:   cookieCfg.Domain,
		Secure:   cookieCfg.Secure,
		HttpOnly: cookieCfg.HttpOnly,
		SameSite: utils.ParseSameSiteString(cookieCfg.SameSite),
	})
}

// clearRefreshTokenCookie 让刷新令牌 Cookie 立即过期。
func clearRefreshTokenCookie(c *gin.Context, cookieCfg config.CookieConfig) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookieCfg.RefreshTokenName,
		Value:    "",
		MaxAge:   -1,
		Path:     cookieCfg.Path,
		Domain:   cookieCfg.Domain,
		Secure:   cookieCfg.Secure,
		HttpOnly: cookieCfg.HttpOnly,
		SameSite: utils.ParseSameSiteString(cookieCfg.SameSite),
	})
}
