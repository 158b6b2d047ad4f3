package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Test Page", "section1", "page1")

	assert.Equal(t, "Test Page", ctx.PageTitle)
	assert.Equal(t, "section1", ctx.ActiveSection)
	assert.Equal(t, "page1", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
	assert.Zero(t, ctx.UnreadCount)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Test Page", "section1", "page1").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("News", "/admin/news", false).
		AddBreadcrumb("Edit", "/admin/news/1", true)

	assert.Len(t, ctx.Breadcrumbs, 3)
	assert.Equal(t, "Home", ctx.Breadcrumbs[0].Title)
	assert.Equal(t, "News", ctx.Breadcrumbs[1].Title)
	assert.Equal(t, "Edit", ctx.Breadcrumbs[2].Title)
	assert.True(t, ctx.Breadcrumbs[2].Active)
	assert.False(t, ctx.Breadcrumbs[0].Active)
}

func TestContext_WithUnread(t *testing.T) {
	ctx := NewContext("Dashboard", "dashboard", "dashboard").WithUnread(7)

	assert.Equal(t, int64(7), ctx.UnreadCount)
}

func TestContext_IsActive(t *testing.T) {
	ctx := NewContext("Test Page", "content", "news")

	assert.True(t, ctx.IsActive("content", "news"))
	assert.False(t, ctx.IsActive("admin", "news"))
	assert.False(t, ctx.IsActive("content", "pages"))
}

func TestContext_IsSectionActive(t *testing.T) {
	ctx := NewContext("Test Page", "content", "news")

	assert.True(t, ctx.IsSectionActive("content"))
	assert.False(t, ctx.IsSectionActive("admin"))
}
