package dto

import (
	"github.com/Xushengqwer/go-common/models/enums"
)

// UpdateProfileData 会员资料（含密码）修改请求体。
// 任何修改都要求提供当前密码；NewPassword 为空表示只改资料不改密码。
type UpdateProfileData struct {
	CurrentPassword    string  `json:"currentPassword" binding:"required"`                                 // 当前密码
	Nickname           *string `json:"nickname" binding:"omitempty,Nickname"`                              // 新昵称（可选）
	NewPassword        *string `json:"newPassword" binding:"omitempty,Password"`                           // 新密码（可选）
	ConfirmNewPassword *string `json:"confirmNewPassword" binding:"omitempty,required_with=NewPassword"`   // 新密码确认，与 NewPassword 一致性在服务层校验
	Signature          *string `json:"signature" binding:"omitempty,max=255" example:"hello, bulletin :)"` // 个性签名（可选）
}

// SoftDeleteData 注销（软删除）账号请求体
type SoftDeleteData struct {
	Password string `json:"password" binding:"required"` // 当前密码，防止他人误操作
}

// ChangeRoleData 管理员修改会员角色请求体
type ChangeRoleData struct {
	Role *enums.UserRole `json:"role" binding:"required,Role"` // 目标角色
}
