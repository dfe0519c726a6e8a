package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledCacheIsNoOp(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	assert.False(t, c.Enabled())

	var dest string
	found, err := c.Get(ctx, "key", &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.Set(ctx, "key", "value"))
	assert.NoError(t, c.Invalidate(ctx, "key", "other"))
}
