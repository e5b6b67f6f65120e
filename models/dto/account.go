package dto

// MemberRegisterData 会员注册请求体
type MemberRegisterData struct {
	Username        string `json:"username" binding:"required,email"`    // 邮箱地址，作为用户名（服务层会做小写规范化）
	Password        string `json:"password" binding:"required,Password"` // 使用 "Password" 校验器
	ConfirmPassword string `json:"confirmPassword" binding:"required"`   // 两次密码一致性在服务层校验
	Nickname        string `json:"nickname" binding:"required,Nickname"` // 使用 "Nickname" 校验器
}

// MemberLoginData 会员登录请求体
type MemberLoginData struct {
	Username string `json:"username" binding:"required"` // 用户名（邮箱）
	Password string `json:"password" binding:"required"` // 密码
}

// ResendVerificationData 重发验证邮件请求体
type ResendVerificationData struct {
	Username string `json:"username" binding:"required,email"` // 用户名（邮箱）
}

// ForgotPasswordData 找回密码请求体
type ForgotPasswordData struct {
	Username string `json:"username" binding:"required,email"` // 用户名（邮箱）
}
