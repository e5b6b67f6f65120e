package docs

// 这个文件定义了专门用于 Swagger 文档注解的类型。
// 由于 swaggo/swag 工具目前不支持直接解析泛型类型（如 response.APIResponse[T]），
// 我们需要为每个在控制器注解中使用的具体泛型实例化类型定义一个非泛型的包装器。

import (
	"github.com/Xushengqwer/go-common/response"

	"github.com/Xushengqwer/member_hub/models/vo"
)

// --- 成功响应包装类型 ---

// SwaggerAPIMemberInfoResponse 包装了 response.APIResponse[vo.MemberInfo]
// 用于 AccountController.Register
type SwaggerAPIMemberInfoResponse struct {
	response.APIResponse[vo.MemberInfo]
}

// SwaggerAPILoginResponse 包装了 response.APIResponse[vo.LoginResponse]
// 用于 AccountController.Login, GoogleOAuthController.Callback
type SwaggerAPILoginResponse struct {
	response.APIResponse[vo.LoginResponse]
}

// SwaggerAPITokenPairResponse 包装了 response.APIResponse[vo.TokenPair]
// 用于 AuthTokenController.RefreshToken
type SwaggerAPITokenPairResponse struct {
	response.APIResponse[vo.TokenPair]
}

// SwaggerAPIMemberDetailResponse 包装了 response.APIResponse[vo.MemberDetailVO]
// 用于 MemberController.GetMe
type SwaggerAPIMemberDetailResponse struct {
	response.APIResponse[vo.MemberDetailVO]
}

// SwaggerAPIEmptyResponse 包装了 response.APIResponse[vo.Empty] (成功但无数据返回)
// 用于 AccountController.VerifyEmail / ResendVerification / ForgotPassword,
// AuthTokenController.Logout, MemberController.UpdateMe / DeleteMe / ChangeRole
type SwaggerAPIEmptyResponse struct {
	response.APIResponse[vo.Empty]
}

// --- 错误响应包装类型 ---

// SwaggerAPIErrorResponseString 包装了 response.APIResponse[string]
// 用于各控制器的错误响应注解
type SwaggerAPIErrorResponseString struct {
	response.APIResponse[string]
}
