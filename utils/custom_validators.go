package utils

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/Xushengqwer/go-common/models/enums" // 导入公共模块的 enums 包
	"github.com/gin-gonic/gin/binding"              // Gin 框架的数据绑定包
	"github.com/go-playground/validator/v10"        // 强大的数据校验库
)

var (
	// nicknameRegex 预编译的昵称正则表达式，用于提升校验性能。
	// 规则：只包含大小写字母、数字和下划线，长度在1到20个字符之间。
	nicknameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{1,20}$`)
)

// ValidateNickname 校验昵称格式。
// 要求：只包含字母、数字和下划线，且长度在1到20之间。
func ValidateNickname(fl validator.FieldLevel) bool {
	return nicknameRegex.MatchString(fl.Field().String()) // 使用预编译的正则进行匹配
}

// ValidatePassword 校验密码格式。
// 要求：长度在8到30位之间，并且必须同时包含至少一个字母和一个数字。
func ValidatePassword(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	length := len(pwd)
	if length < 8 || length > 30 { // 检查长度是否符合要求
		return false
	}
	var hasLetter, hasDigit bool // 标记是否包含字母和数字
	for _, char := range pwd {   // 遍历密码中的每个字符
		if unicode.IsLetter(char) { // 判断是否为字母
			hasLetter = true
		} else if unicode.IsDigit(char) { // 判断是否为数字
			hasDigit = true
		}
		if hasLetter && hasDigit { // 如果同时包含字母和数字，则校验通过
			return true
		}
	}
	return false // 如果遍历完仍未同时满足，则校验失败
}

// ValidRole 校验会员角色枚举值是否有效。
// 此校验器适用于指针类型的角色字段 (例如 *enums.UserRole)。
// 1. 先检查字段是否为零值 (例如 nil 指针)。如果是，则认为是有效的（字段可选且未提供）。
// 2. 尝试将字段值断言为 *enums.UserRole 类型。如果断言失败，则无效。
// 3. 如果断言成功，解引用指针并检查其值是否为预定义的有效角色枚举值之一。
func ValidRole(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.IsZero() || field.Interface() == nil {
		return true
	}
	val, ok := field.Interface().(*enums.UserRole)
	if !ok {
		return false
	}
	return *val == enums.RoleAdmin || *val == enums.RoleUser
}

// RegisterCustomValidators 将所有自定义的校验函数注册到 Gin 的 validator 引擎中。
// 这样就可以在 DTO 的 struct tag 中使用这些自定义的校验标签了。
// 例如: `binding:"Nickname"` 或 `binding:"Password"`
func RegisterCustomValidators() error {
	// 获取 Gin 使用的 validator 实例
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// 定义校验标签名和对应的校验函数
		validations := map[string]validator.Func{
			"Nickname": ValidateNickname, // 昵称格式校验
			"Password": ValidatePassword, // 密码格式校验
			"Role":     ValidRole,        // 会员角色枚举校验
		}

		// 遍历并注册所有自定义校验器
		for tag, validation := range validations {
			if err := v.RegisterValidation(tag, validation); err != nil {
				// 如果注册失败，返回错误信息，这通常会导致应用启动失败
				return fmt.Errorf("注册验证器 '%s' 失败: %w", tag, err)
			}
		}
	}
	return nil // 所有校验器注册成功
}
