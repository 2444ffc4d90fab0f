package image

import (
	"testing"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
)

func TestImageAccessorsWithoutConfig(t *testing.T) {
	var img *Image
	assert.Empty(t, img.User())
	assert.Nil(t, img.Entrypoint())
	assert.Nil(t, img.Cmd())
	assert.Nil(t, img.Env())

	img = &Image{}
	assert.Empty(t, img.User())
	assert.Nil(t, img.Cmd())
}

func TestImageClone(t *testing.T) {
	img := &Image{
		Layers: testImage("a").Layers,
		Config: &ocispec.ImageConfig{
			User:   "alice",
			Cmd:    []string{"serve"},
			Env:    []string{"A=1"},
			Labels: map[string]string{"k": "v"},
		},
	}

	c := img.Clone()
	c.Config.Cmd[0] = "changed"
	c.Config.Env = append(c.Config.Env, "B=2")
	c.Config.Labels["k"] = "changed"
	c.Layers[0] = ""

	assert.Equal(t, []string{"serve"}, img.Cmd())
	assert.Equal(t, []string{"A=1"}, img.Env())
	assert.Equal(t, "v", img.Config.Labels["k"])
	assert.NotEmpty(t, img.Layers[0])
	assert.Equal(t, "alice", c.User())
}
