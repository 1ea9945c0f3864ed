package httpadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCookieRoundTrip(t *testing.T) {
	value := signSessionID("abc-123", "secret")

	id, ok := parseSessionCookie(value, "secret")
	require.True(t, ok)
	assert.Equal(t, "abc-123", id)
}

func TestSessionCookieRejectsTampering(t *testing.T) {
	value := signSessionID("abc-123", "secret")

	_, ok := parseSessionCookie("zzz"+value[3:], "secret")
	assert.False(t, ok, "altered id must fail verification")

	_, ok = parseSessionCookie(value, "other-secret")
	assert.False(t, ok, "wrong secret must fail verification")

	_, ok = parseSessionCookie("no-separator", "secret")
	assert.False(t, ok)

	_, ok = parseSessionCookie("", "secret")
	assert.False(t, ok)
}
