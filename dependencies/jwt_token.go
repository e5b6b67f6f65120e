package dependencies

import (
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/models/enums"
	"github.com/golang-jwt/jwt/v5" // 引入 v5 版本的 JWT 包
	"github.com/google/uuid"

	"github.com/Xushengqwer/member_hub/config"
	"github.com/Xushengqwer/member_hub/constants"
)

// JWTTokenInterface 定义 JWT 工具的接口
// - 用于生成和解析 JWT 令牌，提供访问令牌和刷新令牌的相关功能
type JWTTokenInterface interface {
	// GenerateAccessToken 生成访问令牌
	// - 输入: username 用户名（邮箱）, role 会员角色
	// - 输出: 访问令牌字符串和可能的错误
	GenerateAccessToken(username string, role enums.UserRole) (string, error)

	// GenerateRefreshToken 生成刷新令牌
	// - 输入: username 用户名（邮箱）
	// - 输出: 刷新令牌字符串和可能的错误
	GenerateRefreshToken(username string) (string, error)

	// ParseAccessToken 解析并验证访问令牌（签名、签发者、过期时间）
	// - 输入: tokenString 待解析的令牌字符串
	// - 输出: 解析后的 CustomClaims 和可能的错误
	ParseAccessToken(tokenString string) (*CustomClaims, error)

	// ParseRefreshToken 解析并验证刷新令牌（签名、签发者、过期时间）
	// - 输入: tokenString 待解析的令牌字符串
	// - 输出: 解析后的 CustomClaims 和可能的错误
	ParseRefreshToken(tokenString string) (*CustomClaims, error)

	// AccessTokenTTL 返回访问令牌的有效期
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL 返回刷新令牌的有效期（同时作为 Redis 记录和 Cookie 的生命周期）
	RefreshTokenTTL() time.Duration
}

// CustomClaims 定义 JWT 的声明结构体，包含标准字段和自定义字段
type CustomClaims struct {
	Username             string         `json:"username"` // 用户名（邮箱），唯一标识会员
	Role                 enums.UserRole `json:"role"`     // 会员角色，例如管理员或普通用户
	jwt.RegisteredClaims                // 嵌入 JWT v5 的标准声明字段
}

// JWTUtility 实现 JWTTokenInterface 接口的结构体
type JWTUtility struct {
	cfg *config.JWTConfig // JWT 配置，包含密钥、发行者、过期时间等信息
}

// NewJWTUtility 创建 JWTUtility 实例，通过依赖注入初始化
// - 输入: cfg JWT 配置实例
// - 输出: JWTTokenInterface 接口实例
func NewJWTUtility(cfg *config.JWTConfig) JWTTokenInterface {
	return &JWTUtility{cfg: cfg}
}

// AccessTokenTTL 实现接口方法，返回访问令牌有效期。
func (ju *JWTUtility) AccessTokenTTL() time.Duration {
	if ju.cfg.AccessExpiration > 0 {
		return time.Duration(ju.cfg.AccessExpiration) * time.Second
	}
	return constants.DefaultAccessTokenTTL
}

// RefreshTokenTTL 实现接口方法，返回刷新令牌有效期。
func (ju *JWTUtility) RefreshTokenTTL() time.Duration {
	if ju.cfg.RefreshExpiration > 0 {
		return time.Duration(ju.cfg.RefreshExpiration) * time.Second
	}
	return constants.DefaultRefreshTokenTTL
}

// GenerateAccessToken 生成访问令牌
func (ju *JWTUtility) GenerateAccessToken(username string, role enums.UserRole) (string, error) {
	now := time.Now()

	// 创建自定义声明
	claims := &CustomClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ju.cfg.Issuer,                             // 令牌发行者，从配置中获取
			IssuedAt:  jwt.NewNumericDate(now),                   // 签发时间
			ExpiresAt: jwt.NewNumericDate(now.Add(ju.AccessTokenTTL())), // 过期时间
			ID:        uuid.New().String(),                       // 唯一 JTI
		},
	}

	// 创建令牌，使用 HS256 签名算法
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// 使用访问令牌的密钥签名
	secret := []byte(ju.cfg.SecretKey)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("签名令牌失败: %v", err)
	}
	return signedToken, nil
}

// GenerateRefreshToken 生成刷新令牌
func (ju *JWTUtility) GenerateRefreshToken(username string) (string, error) {
	now := time.Now()

	// 创建自定义声明
	claims := &CustomClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ju.cfg.Issuer,                              // 令牌发行者，从配置中获取
			IssuedAt:  jwt.NewNumericDate(now),                    // 签发时间
			ExpiresAt: jwt.NewNumericDate(now.Add(ju.RefreshTokenTTL())), // 过期时间
			ID:        uuid.New().String(),                        // 唯一 JTI
		},
	}

	// 创建令牌，使用 HS256 签名算法
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// 使用刷新令牌的密钥签名
	secret := []byte(ju.cfg.RefreshSecret)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("签名令牌失败: %v", err)
	}
	return signedToken, nil
}

// ParseAccessToken 解析并验证访问令牌
func (ju *JWTUtility) ParseAccessToken(tokenString string) (*CustomClaims, error) {
	secret := []byte(ju.cfg.SecretKey)

	// 创建解析器，启用 v5 的严格验证选项
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),  // 强制要求令牌包含过期时间
		jwt.WithIssuer(ju.cfg.Issuer), // 验证发行者是否匹配配置中的值
	)

	// 解析令牌
	return ju.parseToken(tokenString, secret, parser)
}

// ParseRefreshToken 解析并验证刷新令牌
func (ju *JWTUtility) ParseRefreshToken(tokenString string) (*CustomClaims, error) {
	secret := []byte(ju.cfg.RefreshSecret)

	// 创建解析器，启用 v5 的严格验证选项
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),  // 强制要求令牌包含过期时间
		jwt.WithIssuer(ju.cfg.Issuer), // 验证发行者是否匹配配置中的值
	)

	// 解析令牌
	return ju.parseToken(tokenString, secret, parser)
}

// parseToken 辅助函数，用于解析和验证 JWT 令牌
// - 输入: tokenString 待解析的令牌字符串, secret 签名密钥, parser v5 的解析器实例
// - 输出: 解析后的 CustomClaims 和可能的错误
func (ju *JWTUtility) parseToken(tokenString string, secret []byte, parser *jwt.Parser) (*CustomClaims, error) {
	// 使用 v5 的 Parser 解析令牌
	token, err := parser.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法是否为 HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("签名算法不匹配: %v", token.Header["alg"])
		}
		return secret, nil
	})

	// 如果解析失败，返回错误
	if err != nil {
		return nil, err
	}

	// 类型断言并验证令牌有效性
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的JWT声明")
	}

	return claims, nil
}
