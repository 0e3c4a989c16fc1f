package serde

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContext_GetFactory(t *testing.T) {
	ctx := NewContext(nil)

	ctx.factories[contextKey{}] = identityFactory{}

	factory := ctx.GetFactory(contextKey{})
	require.Equal(t, identityFactory{}, factory)

	factory = ctx.GetFactory(struct{}{})
	require.Nil(t, factory)
}

func TestContext_WithFactory(t *testing.T) {
	ctx := NewContext(nil)

	// The parent context must stay untouched when a factory is added.
	ctx2 := WithFactory(ctx, contextKey{}, identityFactory{})
	require.Len(t, ctx.factories, 0)
	require.Len(t, ctx2.factories, 1)

	ctx3 := WithFactory(ctx2, contextKey{}, identityFactory{})
	require.Len(t, ctx3.factories, 1)
	require.Len(t, ctx2.factories, 1)
}

// -----------------------------------------------------------------------------
// Utility functions

type contextKey struct{}

type identityFactory struct {
	Factory
}
