package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// SetPassword 生成哈希密码（使用 bcrypt 哈希）
func SetPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPassword 校验用户输入的密码是否与存储的哈希密码匹配
func CheckPassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err
}

// 临时密码的字符池，按类别划分，保证每类至少出现一次
const (
	tempPasswordUpper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	tempPasswordLower   = "abcdefghijkmnpqrstuvwxyz"
	tempPasswordDigit   = "23456789"
	tempPasswordSpecial = "!@#$%^&*-_=+"

	// TempPasswordLength 找回密码时生成的临时密码长度（策略要求 >= 20）
	TempPasswordLength = 20
)

// GenerateTempPassword 生成一个随机强临时密码。
// 策略: 长度为 TempPasswordLength，大写字母、小写字母、数字、特殊字符各至少出现一次。
// 使用 crypto/rand 作为随机源。
func GenerateTempPassword() (string, error) {
	pools := []string{tempPasswordUpper, tempPasswordLower, tempPasswordDigit, tempPasswordSpecial}
	all := tempPasswordUpper + tempPasswordLower + tempPasswordDigit + tempPasswordSpecial

	buf := make([]byte, 0, TempPasswordLength)

	// 1. 每类先取一个字符，保证类别覆盖
	for _, pool := range pools {
		ch, err := randomChar(pool)
		if err != nil {
			return "", err
		}
		buf = append(buf, ch)
	}

	// 2. 其余位置从全池随机填充
	for len(buf) < TempPasswordLength {
		ch, err := randomChar(all)
		if err != nil {
			return "", err
		}
		buf = append(buf, ch)
	}

	// 3. 洗牌，避免类别字符固定出现在开头
	for i := len(buf) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("生成临时密码洗牌失败: %w", err)
		}
		j := n.Int64()
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf), nil
}

// randomChar 从字符池中随机取一个字符。
func randomChar(pool string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		return 0, fmt.Errorf("生成随机字符失败: %w", err)
	}
	return pool[n.Int64()], nil
}
