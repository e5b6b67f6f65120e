package autherrors

import (
	"errors"
	"fmt"
)

// Kind 是认证/身份域错误的封闭分类。
// 设计目的:
//   - 服务层以分类 + 消息的形式返回业务错误，协议边界（控制器）对 Kind 做模式匹配，
//     统一映射为对外稳定的错误码和 HTTP 状态，避免按具体错误类型逐个断言。
type Kind uint8

const (
	// KindUnknown 未分类错误（通常意味着系统错误，由 commonerrors.ErrSystemError 承担）
	KindUnknown Kind = iota

	// KindValidation 输入不合法（如注册时两次密码不一致）
	KindValidation

	// KindConflict 唯一性冲突（用户名或昵称已被占用）
	KindConflict

	// KindNotFound 身份不存在。仅服务内部使用，不得原样暴露给登录接口调用方
	KindNotFound

	// KindCredentialMismatch 密码（或当前密码、确认密码）校验失败
	KindCredentialMismatch

	// KindAccountLocked 未完成邮箱验证的账号尝试登录
	KindAccountLocked

	// KindAuthNotCompleted 该操作要求先完成邮箱验证
	KindAuthNotCompleted

	// KindInvalidToken 令牌格式错误、签名/签发者不符、已过期或刷新令牌已被轮换（stale）
	KindInvalidToken

	// KindAccessDenied 已认证但无权执行该操作（授权失败，而非认证失败）
	KindAccessDenied

	// KindThirdParty 依赖的第三方服务（如 Google OAuth）调用失败
	KindThirdParty
)

// String 返回分类的稳定字符串标识，用于日志与对外错误码。
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindConflict:
		return "CONFLICT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindCredentialMismatch:
		return "CREDENTIAL_MISMATCH"
	case KindAccountLocked:
		return "ACCOUNT_LOCKED"
	case KindAuthNotCompleted:
		return "AUTH_NOT_COMPLETED"
	case KindInvalidToken:
		return "INVALID_TOKEN"
	case KindAccessDenied:
		return "ACCESS_DENIED"
	case KindThirdParty:
		return "THIRD_PARTY"
	default:
		return "UNKNOWN"
	}
}

// AuthError 携带分类信息的领域错误。
type AuthError struct {
	kind Kind
	msg  string
	err  error // 可选的底层错误
}

func (e *AuthError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Kind 返回错误分类。
func (e *AuthError) Kind() Kind {
	return e.kind
}

// Unwrap 返回底层错误，支持 errors.Is / errors.As 链式匹配。
func (e *AuthError) Unwrap() error {
	return e.err
}

// Is 使 errors.Is 按分类匹配：两个 AuthError 只要 Kind 相同即视为匹配。
// 配合下方的哨兵值（ErrConflict 等）使用。
func (e *AuthError) Is(target error) bool {
	var t *AuthError
	if !errors.As(target, &t) {
		return false
	}
	return e.kind == t.kind
}

// 各分类的哨兵值，供 errors.Is(err, autherrors.ErrXxx) 使用。
var (
	ErrValidation         = &AuthError{kind: KindValidation, msg: "输入不合法"}
	ErrConflict           = &AuthError{kind: KindConflict, msg: "资源冲突"}
	ErrNotFound           = &AuthError{kind: KindNotFound, msg: "身份不存在"}
	ErrCredentialMismatch = &AuthError{kind: KindCredentialMismatch, msg: "凭证不匹配"}
	ErrAccountLocked      = &AuthError{kind: KindAccountLocked, msg: "账号未完成验证"}
	ErrAuthNotCompleted   = &AuthError{kind: KindAuthNotCompleted, msg: "需要先完成邮箱验证"}
	ErrInvalidToken       = &AuthError{kind: KindInvalidToken, msg: "无效的令牌"}
	ErrAccessDenied       = &AuthError{kind: KindAccessDenied, msg: "无权执行该操作"}
	ErrThirdParty         = &AuthError{kind: KindThirdParty, msg: "第三方服务调用失败"}
)

// New 以指定分类和消息构造领域错误。
func New(kind Kind, msg string) error {
	return &AuthError{kind: kind, msg: msg}
}

// Wrap 以指定分类和消息包装底层错误。
func Wrap(kind Kind, msg string, err error) error {
	return &AuthError{kind: kind, msg: msg, err: err}
}

// Validation 构造输入不合法错误。
func Validation(msg string) error { return New(KindValidation, msg) }

// Conflict 构造唯一性冲突错误。
func Conflict(msg string) error { return New(KindConflict, msg) }

// NotFound 构造身份不存在错误。
func NotFound(msg string) error { return New(KindNotFound, msg) }

// CredentialMismatch 构造凭证不匹配错误。
func CredentialMismatch(msg string) error { return New(KindCredentialMismatch, msg) }

// AccountLocked 构造账号未验证错误。
func AccountLocked(msg string) error { return New(KindAccountLocked, msg) }

// AuthNotCompleted 构造需要先完成验证错误。
func AuthNotCompleted(msg string) error { return New(KindAuthNotCompleted, msg) }

// InvalidToken 构造无效令牌错误。
func InvalidToken(msg string) error { return New(KindInvalidToken, msg) }

// AccessDenied 构造无权操作错误。
func AccessDenied(msg string) error { return New(KindAccessDenied, msg) }

// ThirdParty 构造第三方服务调用失败错误。
func ThirdParty(msg string) error { return New(KindThirdParty, msg) }

// KindOf 提取错误的分类；非 AuthError 返回 KindUnknown。
// 控制器据此做统一的 Kind -> HTTP 状态/错误码映射。
func KindOf(err error) Kind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.kind
	}
	return KindUnknown
}
