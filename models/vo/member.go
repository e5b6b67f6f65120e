package vo

import (
	"time"

	"github.com/Xushengqwer/go-common/models/enums"

	myenums "github.com/Xushengqwer/member_hub/models/enums"
)

// MemberDetailVO 登录会员的账号详情，用于个人中心展示
type MemberDetailVO struct {
	// 会员 ID
	MemberID string `json:"member_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	// 用户名（邮箱）
	Username string `json:"username" example:"alice@mail.com"`
	// 昵称
	Nickname string `json:"nickname" example:"alice"`
	// 个性签名
	Signature string `json:"signature" example:"hello, bulletin :)"`
	// 角色
	Role enums.UserRole `json:"role" example:"1"`
	// 邮箱是否已验证
	Verified bool `json:"verified" example:"true"`
	// 邮箱验证完成时间
	VerifiedAt *time.Time `json:"verified_at,omitempty" example:"2023-01-01T00:00:00Z"`
	// 第三方登录提供方（本地账号为空）
	OAuthProvider *myenums.OAuthProvider `json:"oauth_provider,omitempty" example:"google"`
	// 注册时间
	CreatedAt time.Time `json:"created_at" example:"2023-01-01T00:00:00Z"`
}
