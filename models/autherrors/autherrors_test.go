package autherrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "VALIDATION", KindValidation.String())
	assert.Equal(t, "CONFLICT", KindConflict.String())
	assert.Equal(t, "NOT_FOUND", KindNotFound.String())
	assert.Equal(t, "CREDENTIAL_MISMATCH", KindCredentialMismatch.String())
	assert.Equal(t, "ACCOUNT_LOCKED", KindAccountLocked.String())
	assert.Equal(t, "AUTH_NOT_COMPLETED", KindAuthNotCompleted.String())
	assert.Equal(t, "INVALID_TOKEN", KindInvalidToken.String())
	assert.Equal(t, "ACCESS_DENIED", KindAccessDenied.String())
	assert.Equal(t, "THIRD_PARTY", KindThirdParty.String())
	assert.Equal(t, "UNKNOWN", KindUnknown.String())
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	// 同类错误无论消息内容如何，都应与对应的哨兵错误匹配
	err := Conflict("该昵称已被使用")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	err = InvalidToken("刷新令牌无效或已过期")
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.False(t, errors.Is(err, ErrCredentialMismatch))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(KindValidation, "参数无效", cause)

	assert.True(t, errors.Is(err, ErrValidation))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "参数无效")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindAccountLocked, KindOf(AccountLocked("账号尚未完成邮箱验证")))
	assert.Equal(t, KindAuthNotCompleted, KindOf(AuthNotCompleted("请先完成邮箱验证")))
	assert.Equal(t, KindAccessDenied, KindOf(AccessDenied("权限不足")))

	// 包装后的错误链中依然能识别出类别
	wrapped := fmt.Errorf("outer: %w", NotFound("身份不存在"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))

	// 非本包错误归为未知
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}
