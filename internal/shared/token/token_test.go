package token_test

import (
	"testing"
	"time"

	"pharmacy-hr/internal/shared/token"

	"github.com/stretchr/testify/assert"
)

const secret = "test-secret"

func TestIssueAndParse(t *testing.T) {
	raw, err := token.Issue(secret, "user-1", "manager", token.KindAccess, time.Minute)
	assert.NoError(t, err)

	claims, err := token.Parse(secret, raw, token.KindAccess)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "manager", claims.Role)
}

func TestParse_Rejects(t *testing.T) {
	access, _ := token.Issue(secret, "user-1", "staff", token.KindAccess, time.Minute)
	expired, _ := token.Issue(secret, "user-1", "staff", token.KindAccess, -time.Minute)

	_, err := token.Parse("other-secret", access, token.KindAccess)
	assert.ErrorIs(t, err, token.ErrInvalid)

	_, err = token.Parse(secret, access, token.KindRefresh)
	assert.ErrorIs(t, err, token.ErrInvalid)

	_, err = token.Parse(secret, expired, token.KindAccess)
	assert.ErrorIs(t, err, token.ErrExpired)

	_, err = token.Parse(secret, "garbage", token.KindAccess)
	assert.ErrorIs(t, err, token.ErrInvalid)
}
