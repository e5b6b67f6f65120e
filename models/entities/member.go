package entities

import (
	"time"

	"github.com/Xushengqwer/go-common/models/enums"
	"gorm.io/gorm"

	myenums "github.com/Xushengqwer/member_hub/models/enums"
)

// Member 会员核心身份信息
type Member struct {
	// 会员ID，使用 UUID 作为主键
	MemberID string `gorm:"type:char(36);primary_key;column:member_id"`

	// 用户名，即小写规范化后的邮箱地址，全局唯一，创建后不可变
	Username string `gorm:"type:varchar(255);not null;uniqueIndex:idx_members_username"`

	// 密码哈希（bcrypt 单向哈希；OAuth 创建的账号也会写入一个随机的不可用密码哈希）
	PasswordHash string `gorm:"type:varchar(255);not null"`

	// 昵称，全局唯一，可修改
	Nickname string `gorm:"type:varchar(64);not null;uniqueIndex:idx_members_nickname"`

	// 个性签名，可为空
	Signature string `gorm:"type:varchar(255)"`

	// 会员角色（0=游客, 1=用户, 2=管理员），默认值为 1
	Role enums.UserRole `gorm:"type:int;default:1"`

	// 嵌入的认证子状态信息
	Auth AuthInfo `gorm:"embedded"`

	// 创建时间，默认当前时间戳
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`

	// 更新时间，默认当前时间戳，自动更新
	UpdatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`

	// 软删除时间戳，列名为 deleted_at。
	// 正常流程永远不会物理删除会员记录；被软删除的身份不允许再次认证。
	DeletedAt gorm.DeletedAt `gorm:"type:timestamp;column:deleted_at"`
}

// AuthInfo 会员的认证子状态，随 Member 记录嵌入存储。
// EmailAuthToken / EmailAuthExpiresAt 仅在 Verified == false 时有意义，
// 验证完成后这两个字段即失效（实现上会清空）。
type AuthInfo struct {
	// 邮箱是否已验证
	Verified bool `gorm:"not null;default:false"`

	// 邮箱验证完成时间
	VerifiedAt *time.Time `gorm:"type:timestamp"`

	// 待验证的邮箱验证令牌（不透明随机串），仅在验证挂起期间存在
	EmailAuthToken *string `gorm:"type:varchar(64)"`

	// 邮箱验证令牌的过期时间，= 签发时间 + 5 分钟
	EmailAuthExpiresAt *time.Time `gorm:"type:timestamp"`

	// 第三方登录提供方（如 "google"），仅 OAuth 创建的账号在创建时设置一次，之后不可变
	OAuthProvider *myenums.OAuthProvider `gorm:"type:varchar(32)"`

	// 第三方提供方侧的用户唯一标识，与 OAuthProvider 一同设置
	OAuthProviderID *string `gorm:"type:varchar(255)"`
}

// IsOAuthLinked 报告该会员是否为 OAuth 关联创建的身份。
func (m *Member) IsOAuthLinked() bool {
	return m.Auth.OAuthProvider != nil && m.Auth.OAuthProviderID != nil
}
