package constants

const (
	// ServiceName 服务名称，用于链路追踪和日志标识
	ServiceName = "member_hub"

	// ServiceVersion 服务版本
	ServiceVersion = "1.0.0"
)

const (
	// ContextKeyMemberID 认证中间件写入 gin.Context 的当前登录会员 ID 键名
	ContextKeyMemberID = "memberID"

	// ContextKeyUsername 认证中间件写入 gin.Context 的当前登录用户名键名
	ContextKeyUsername = "username"

	// ContextKeyRole 认证中间件写入 gin.Context 的当前登录会员角色键名
	ContextKeyRole = "role"
)
