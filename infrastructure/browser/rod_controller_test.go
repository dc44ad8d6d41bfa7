package browser

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRodScopedReleaseCancelsTimeout(t *testing.T) {
	r := &RodController{page: &rod.Page{}, opts: Options{Timeout: time.Minute}}
	parent := context.Background()

	page, release := r.scoped(parent)
	timed := page.GetContext()
	_, hasDeadline := timed.Deadline()
	require.True(t, hasDeadline)
	require.NoError(t, timed.Err())

	release()
	assert.ErrorIs(t, timed.Err(), context.Canceled)
	assert.NoError(t, parent.Err())
}

func TestRodScopedFollowsCallerContext(t *testing.T) {
	r := &RodController{page: &rod.Page{}, opts: Options{Timeout: time.Minute}}
	ctx, cancel := context.WithCancel(context.Background())

	page, release := r.scoped(ctx)
	defer release()

	cancel()
	assert.ErrorIs(t, page.GetContext().Err(), context.Canceled)
}
