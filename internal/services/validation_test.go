package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhonePattern(t *testing.T) {
	for _, ok := range []string{"+1 555-1234", "(02) 123 4567", "0812345678"} {
		assert.True(t, phonePattern.MatchString(ok), ok)
	}
	for _, bad := range []string{"call me", "555#1234", "+1.555.1234"} {
		assert.False(t, phonePattern.MatchString(bad), bad)
	}
}

func TestLinkPattern(t *testing.T) {
	for _, ok := range []string{
		"http://x.com/a",
		"https://www.facebook.com/profile.php?id=100",
		"facebook.com/some.user",
		"m.facebook.com",
	} {
		assert.True(t, linkPattern.MatchString(ok), ok)
	}
	for _, bad := range []string{"facebook", "ftp://facebook.com", "https://face book.com"} {
		assert.False(t, linkPattern.MatchString(bad), bad)
	}
}

func TestTrimStrings(t *testing.T) {
	req := RegisterRequest{UID: "  u1 ", Email: "\ta@b.io\n", FBName: " Name "}
	trimStrings(&req)
	assert.Equal(t, RegisterRequest{UID: "u1", Email: "a@b.io", FBName: "Name"}, req)
}
