package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVerificationCode(t *testing.T) {
	code := NewVerificationCode()

	assert.True(t, strings.HasPrefix(code, "YH-"))
	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[1], 14) // timestamp component
	assert.Len(t, parts[2], 8)  // random suffix
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])

	// Codes are unique across calls
	assert.NotEqual(t, code, NewVerificationCode())
}

func TestNewDigitalSignature(t *testing.T) {
	sig := NewDigitalSignature()

	assert.True(t, strings.HasPrefix(sig, "sig_"))
	assert.Len(t, sig, 4+32)
	assert.NotEqual(t, sig, NewDigitalSignature())
}

func TestRenderCertificateURLPlaceholder(t *testing.T) {
	// Without a configured renderer a placeholder URL is synthesized
	url, err := RenderCertificateURL("module", 12, 7, "Amina Haddad", "Basics", 93)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://cdn.youthhub.io/certificates/module/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))
	assert.Contains(t, url, "12-7-")
}
