package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-erp/meridian-erp/internal/app"
	_ "github.com/meridian-erp/meridian-erp/internal/testing/guard"
)

func TestInTestModeWithGuard(t *testing.T) {
	app.RefreshTestMode()
	assert.True(t, app.InTestMode())
}

func TestRefreshTestMode(t *testing.T) {
	t.Setenv("MERIDIAN_TEST_MODE", "")
	app.RefreshTestMode()
	assert.False(t, app.InTestMode())

	t.Setenv("MERIDIAN_TEST_MODE", "1")
	app.RefreshTestMode()
	assert.True(t, app.InTestMode())
}
