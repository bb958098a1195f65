package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/target/jobboard-api/internal/domain/auth"
)

func TestGetUserSessionFromContext(t *testing.T) {
	// No session
	if s, ok := GetUserSessionFromContext(context.Background()); assert.False(t, ok) {
		assert.Nil(t, s)
	}

	sess := &domainauth.Session{ID: "abc", UserID: "u-1", Role: domainauth.RoleUser}
	ctx := SetSessionInContext(context.Background(), sess)
	s, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, sess, s)
	assert.Equal(t, "u-1", userIDFromContext(ctx))
}

func TestSetSessionInContext_NilKeepsContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))
	assert.Empty(t, userIDFromContext(ctx))
}
