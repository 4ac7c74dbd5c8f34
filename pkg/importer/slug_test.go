package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Café Noir", "cafe-noir"},
		{"video.mov", "video-mov"},
		{"  --Fractions & Decimals--  ", "fractions-decimals"},
		{"Don't Stop", "dont-stop"},
		{"Unit_01", "unit-01"},
		{"", ""},
		{"日本語", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestAllocateFallsBackToExtension(t *testing.T) {
	reg := NewSlugRegistry()
	assert.Equal(t, "video", reg.Allocate("video.mov"))
	assert.Equal(t, "video-mp4", reg.Allocate("video.mp4"))
	assert.Equal(t, 2, reg.Len())
}

func TestAllocateWithoutExtension(t *testing.T) {
	reg := NewSlugRegistry()
	assert.Equal(t, "my-channel", reg.Allocate("My Channel"))
	assert.True(t, reg.Has("my-channel"))
}

func TestAllocateKeepsThirdCollision(t *testing.T) {
	reg := NewSlugRegistry()
	assert.Equal(t, "video", reg.Allocate("video.mp4"))
	assert.Equal(t, "video-mp4", reg.Allocate("video-mp4.mp4"))
	// both forms are taken; the duplicate is accepted
	assert.Equal(t, "video-mp4", reg.Allocate("video.mp4"))
	assert.Equal(t, 2, reg.Len())
}
