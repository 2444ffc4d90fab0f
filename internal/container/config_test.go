package container

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cruciblehq/doe/internal/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := `
entrypoint = ["/init"]
cmd = ["serve", "--port", "80"]

[image]
registry = "docker.io/library/alpine:3.20"

[env]
FOO = "bar"

[links]
db = "postgres"
`
	cfg, err := Parse(strings.NewReader(doc), "/etc/doe")
	require.NoError(t, err)

	assert.Equal(t, image.Source{Registry: "docker.io/library/alpine:3.20"}, cfg.Image)
	assert.Equal(t, []string{"/init"}, cfg.Entrypoint)
	assert.Equal(t, []string{"serve", "--port", "80"}, cfg.Cmd)
	assert.Equal(t, map[string]string{"FOO": "bar"}, cfg.Env)
	assert.Equal(t, map[string]string{"db": "postgres"}, cfg.Links)
}

func TestParseOverridesAbsent(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[image]\npath = \"img\"\n"), "/srv")
	require.NoError(t, err)

	assert.Nil(t, cfg.Cmd)
	assert.Nil(t, cfg.Entrypoint)
	assert.Equal(t, "/srv/img", cfg.Image.Path)
}

func TestParseBuild(t *testing.T) {
	doc := `
[image.build]
context = "app"

[image.build.from]
path = "base:v1"

[[image.build.steps]]
workdir = "/app"

[[image.build.steps]]
copy = "bin/server server"

[[image.build.steps]]
cmd = ["/app/server"]
env = { MODE = "prod" }
`
	cfg, err := Parse(strings.NewReader(doc), "/src")
	require.NoError(t, err)

	b := cfg.Image.Build
	require.NotNil(t, b)
	assert.Equal(t, "/src/app", b.Context)
	require.NotNil(t, b.From)
	assert.Equal(t, "/src/base:v1", b.From.Path)
	require.Len(t, b.Steps, 3)
	assert.Equal(t, "/app", b.Steps[0].Workdir)
	assert.Equal(t, "bin/server server", b.Steps[1].Copy)
	assert.Equal(t, []string{"/app/server"}, b.Steps[2].Cmd)
	assert.Equal(t, map[string]string{"MODE": "prod"}, b.Steps[2].Env)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no image", `cmd = ["x"]`},
		{"two sources", "[image]\nregistry = \"a\"\npath = \"/b\"\n"},
		{"unknown key", "[image]\nregistry = \"a\"\n[extra]\nx = 1\n"},
		{"bad link name", "[image]\nregistry = \"a\"\n[links]\n\"-db\" = \"pg\"\n"},
		{"bad link target", "[image]\nregistry = \"a\"\n[links]\ndb = \"pg/x\"\n"},
		{"malformed toml", "[image\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc), "/")
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.toml")
	require.NoError(t, os.WriteFile(path, []byte("[image]\npath = \"layout\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "layout"), cfg.Image.Path)
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"web", "db-1", "my_app.v2", "0"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", "-x", ".hidden", "a/b", "a b", "../x"} {
		assert.ErrorIs(t, ValidateName(bad), ErrInvalidName, bad)
	}
}
