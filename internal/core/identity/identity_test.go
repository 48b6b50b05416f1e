package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentUserID(t *testing.T) {
	t.Run("NoResolver", func(t *testing.T) {
		_, ok := CurrentUserID(context.Background())
		assert.False(t, ok)
	})

	t.Run("SignedOut", func(t *testing.T) {
		ctx := WithResolver(context.Background(), Static(""))
		_, ok := CurrentUserID(ctx)
		assert.False(t, ok)
	})

	t.Run("SignedIn", func(t *testing.T) {
		ctx := WithResolver(context.Background(), Static("user-1"))
		uid, ok := CurrentUserID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "user-1", uid)
	})
}
