package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInFlow(t *testing.T) {
	provider := NewMagicLink()
	ctx := context.Background()

	_, err := provider.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	token, err := provider.IssueToken(ctx, "owner@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := provider.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)

	current, err := provider.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.Email, current.Email)
}

func TestTokenIsSingleUse(t *testing.T) {
	provider := NewMagicLink()
	ctx := context.Background()

	token, err := provider.IssueToken(ctx, "owner@example.com")
	require.NoError(t, err)

	_, err = provider.VerifyToken(ctx, token)
	require.NoError(t, err)

	_, err = provider.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInvalidEmailRejected(t *testing.T) {
	provider := NewMagicLink()
	ctx := context.Background()

	err := provider.SignInWithEmail(ctx, "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	err = provider.SignInWithEmail(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestSignOut(t *testing.T) {
	provider := NewMagicLink()
	ctx := context.Background()

	// Signing out with no session is a no-op.
	require.NoError(t, provider.SignOut(ctx))

	token, err := provider.IssueToken(ctx, "owner@example.com")
	require.NoError(t, err)
	_, err = provider.VerifyToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, provider.SignOut(ctx))
	_, err = provider.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestOnAuthChangeNotifies(t *testing.T) {
	provider := NewMagicLink()
	ctx := context.Background()

	var events []*User
	unsubscribe := provider.OnAuthChange(func(u *User) {
		events = append(events, u)
	})

	token, err := provider.IssueToken(ctx, "owner@example.com")
	require.NoError(t, err)
	_, err = provider.VerifyToken(ctx, token)
	require.NoError(t, err)
	require.NoError(t, provider.SignOut(ctx))

	require.Len(t, events, 2)
	require.NotNil(t, events[0])
	assert.Equal(t, "owner@example.com", events[0].Email)
	assert.Nil(t, events[1])

	// After unsubscribing no further notifications arrive.
	unsubscribe()
	token, err = provider.IssueToken(ctx, "other@example.com")
	require.NoError(t, err)
	_, err = provider.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
