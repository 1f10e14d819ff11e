package contentstore

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"http/routes.md":         {Data: []byte("---\ntitle: Routes\ndescription: Route matching\n---\nRoutes intro\n```php\n$http->get('/');\n```\n")},
		"http/hooks.md":          {Data: []byte("Hooks body")},
		"database/migrations.md": {Data: []byte("+++\ntitle = \"Migrations\"\n+++\nMigrate things")},
		"README.txt":             {Data: []byte("ignored")},
	}
}

func TestLoadFS(t *testing.T) {
	s, err := LoadFS(testFS())
	require.NoError(t, err)

	assert.Equal(t, []string{"database/migrations.md", "http/hooks.md", "http/routes.md"}, s.Keys())
	assert.Equal(t, 3, s.Len())

	raw, ok := s.Get("http/routes.md")
	require.True(t, ok)
	assert.Equal(t, "Routes intro\n```php\n$http->get('/');\n```\n", raw)

	meta, ok := s.Meta("http/routes.md")
	require.True(t, ok)
	assert.Equal(t, Meta{Title: "Routes", Description: "Route matching"}, meta)

	raw, _ = s.Get("database/migrations.md")
	assert.Equal(t, "Migrate things", raw)

	raw, _ = s.Get("http/hooks.md")
	assert.Equal(t, "Hooks body", raw)

	assert.False(t, s.Has("README.txt"))
}

func TestStore_PutAndHas(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Has("a.md"))
	s.Put("a.md", "---\nnot: frontmatter\n---")
	raw, ok := s.Get("a.md")
	require.True(t, ok)
	assert.Equal(t, "---\nnot: frontmatter\n---", raw)
}
