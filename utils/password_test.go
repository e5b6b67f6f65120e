package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndCheckPassword(t *testing.T) {
	hashed, err := SetPassword("Secret1234")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1234", hashed)

	assert.NoError(t, CheckPassword(hashed, "Secret1234"))
	assert.Error(t, CheckPassword(hashed, "WrongPass1"))
}

func TestGenerateTempPasswordPolicy(t *testing.T) {
	for i := 0; i < 20; i++ {
		password, err := GenerateTempPassword()
		require.NoError(t, err)

		assert.Len(t, password, TempPasswordLength)
		assert.True(t, strings.ContainsAny(password, tempPasswordUpper), "缺少大写字母: %s", password)
		assert.True(t, strings.ContainsAny(password, tempPasswordLower), "缺少小写字母: %s", password)
		assert.True(t, strings.ContainsAny(password, tempPasswordDigit), "缺少数字: %s", password)
		assert.True(t, strings.ContainsAny(password, tempPasswordSpecial), "缺少特殊字符: %s", password)
	}
}

func TestGenerateTempPasswordNotRepeating(t *testing.T) {
	first, err := GenerateTempPassword()
	require.NoError(t, err)
	second, err := GenerateTempPassword()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
