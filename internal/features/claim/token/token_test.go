package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestIssueAndVerify(t *testing.T) {
	mgr := NewManager(testSecret, DefaultTTL)

	tokenString, expiresAt, err := mgr.Issue("0xabc0000000000000000000000000000000000001", 42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), expiresAt, 2*time.Second)

	claims, err := mgr.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", claims.Player)
	assert.Equal(t, int64(42), claims.Clicks)
}

func TestVerifyExpired(t *testing.T) {
	mgr := NewManager(testSecret, -time.Minute)

	tokenString, _, err := mgr.Issue("0xabc0000000000000000000000000000000000001", 1)
	require.NoError(t, err)

	_, err = mgr.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	mgr := NewManager(testSecret, DefaultTTL)
	other := NewManager("different-secret", DefaultTTL)

	tokenString, _, err := mgr.Issue("0xabc0000000000000000000000000000000000001", 1)
	require.NoError(t, err)

	_, err = other.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	mgr := NewManager(testSecret, DefaultTTL)

	_, err := mgr.Verify("not-a-jwt")
	assert.Error(t, err)
}
