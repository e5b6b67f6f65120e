package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice@mail.com", NormalizeUsername("Alice@Mail.COM"))
	assert.Equal(t, "bob@mail.com", NormalizeUsername("  bob@mail.com  "))
}

func TestGenerateEmailAuthTokenUnique(t *testing.T) {
	first := GenerateEmailAuthToken()
	second := GenerateEmailAuthToken()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestBuildVerifyEmailLink(t *testing.T) {
	link := BuildVerifyEmailLink("https://bbs.example.com/", "alice@mail.com", "token-123")

	assert.Equal(t, "https://bbs.example.com/verify-email?authToken=token-123&email=alice%40mail.com", link)
}
