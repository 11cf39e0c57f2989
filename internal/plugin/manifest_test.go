// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package plugin_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillcms/quillcms/internal/plugin"
)

func TestParseManifest_Full(t *testing.T) {
	data := `{
  "name": "seo",
  "version": "1.2.0",
  "description": "Sitemap and meta tag management",
  "author": "QuillCMS Team",
  "dependencies": ["blog"],
  "hooks": ["content.after-save", "content.*"],
  "adminPages": [
    {"label": "SEO Settings", "icon": "globe", "path": "/admin/seo"}
  ],
  "fieldTypes": ["meta-title", "meta-description"]
}`
	m, err := plugin.ParseManifest([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "seo", m.Name)
	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, "Sitemap and meta tag management", m.Description)
	assert.Equal(t, []string{"blog"}, m.Dependencies)
	assert.Len(t, m.Hooks, 2)
	require.Len(t, m.AdminPages, 1)
	assert.Equal(t, "SEO Settings", m.AdminPages[0].Label)
	assert.Equal(t, "/admin/seo", m.AdminPages[0].Path)
	assert.Len(t, m.FieldTypes, 2)
}

func TestParseManifest_Minimal(t *testing.T) {
	m, err := plugin.ParseManifest([]byte(`{"name": "blog", "version": "0.1.0"}`))
	require.NoError(t, err)
	assert.Equal(t, "blog", m.Name)
	assert.Empty(t, m.Dependencies)
}

func TestParseManifest_Empty(t *testing.T) {
	_, err := plugin.ParseManifest(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParseManifest_InvalidJSON(t *testing.T) {
	_, err := plugin.ParseManifest([]byte(`{"name": "blog",`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestParseManifest_InvalidName(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{
			name:     "uppercase not allowed",
			manifest: `{"name": "Blog", "version": "1.0.0"}`,
		},
		{
			name:     "underscore not allowed",
			manifest: `{"name": "my_plugin", "version": "1.0.0"}`,
		},
		{
			name:     "cannot end with hyphen",
			manifest: `{"name": "blog-", "version": "1.0.0"}`,
		},
		{
			name:     "cannot start with digit",
			manifest: `{"name": "1blog", "version": "1.0.0"}`,
		},
		{
			name:     "empty name",
			manifest: `{"version": "1.0.0"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plugin.ParseManifest([]byte(tt.manifest))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "name")
		})
	}
}

func TestParseManifest_NameTooLong(t *testing.T) {
	longName := "a" + strings.Repeat("b", 64)
	_, err := plugin.ParseManifest([]byte(`{"name": "` + longName + `", "version": "1.0.0"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "64 characters")
}

func TestParseManifest_Version(t *testing.T) {
	_, err := plugin.ParseManifest([]byte(`{"name": "blog"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version is required")

	_, err = plugin.ParseManifest([]byte(`{"name": "blog", "version": "not-a-version"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "semver")
}

func TestParseManifest_SelfDependency(t *testing.T) {
	_, err := plugin.ParseManifest([]byte(`{"name": "blog", "version": "1.0.0", "dependencies": ["blog"]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot depend on itself")
}

func TestParseManifest_UnknownHook(t *testing.T) {
	_, err := plugin.ParseManifest([]byte(`{"name": "blog", "version": "1.0.0", "hooks": ["payments.after-charge"]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matches no known hook")
}

func TestParseManifest_AdminPageValidation(t *testing.T) {
	_, err := plugin.ParseManifest([]byte(`{"name": "blog", "version": "1.0.0", "adminPages": [{"path": "/admin/blog"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label is required")

	_, err = plugin.ParseManifest([]byte(`{"name": "blog", "version": "1.0.0", "adminPages": [{"label": "Blog"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestManifest_MatchHooks(t *testing.T) {
	m, err := plugin.ParseManifest([]byte(`{"name": "blog", "version": "1.0.0", "hooks": ["content.*"]}`))
	require.NoError(t, err)

	matched := m.MatchHooks()
	assert.Equal(t, []string{
		plugin.HookContentBeforeSave,
		plugin.HookContentAfterSave,
		plugin.HookContentBeforeDelete,
		plugin.HookContentAfterDelete,
	}, matched)
}
