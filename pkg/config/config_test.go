package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giftdesk/giftdesk-bot/pkg/config"
)

func TestAccessListAllowed(t *testing.T) {
	list := config.NewAccessList([]int64{100, 200})

	assert.True(t, list.Allowed(100))
	assert.True(t, list.Allowed(200))
	assert.False(t, list.Allowed(300))
	assert.Equal(t, 2, list.Len())
}

func TestAccessListReplace(t *testing.T) {
	list := config.NewAccessList([]int64{100})

	list.Replace([]int64{300})

	assert.False(t, list.Allowed(100))
	assert.True(t, list.Allowed(300))
	assert.Equal(t, 1, list.Len())
}

func TestAccessListEmpty(t *testing.T) {
	list := config.NewAccessList(nil)

	assert.False(t, list.Allowed(1))
	assert.Equal(t, 0, list.Len())
}
