package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Equal(t, Principal{}, FromContext(context.Background()))

	p := Principal{UserID: "u-1", Username: "admin", Authenticated: true, Admin: true}
	ctx := WithPrincipal(context.Background(), p)
	assert.Equal(t, p, FromContext(ctx))
}
