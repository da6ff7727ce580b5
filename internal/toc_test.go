package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTOC(t *testing.T) {
	toc := TOC{
		{Name: "App.Assets.Icon.png", Size: 3},
		{Name: "App.Assets.Readme.txt", Size: 5},
	}
	assert.Equal(t, []string{"App.Assets.Icon.png", "App.Assets.Readme.txt"}, toc.Names())
	assert.Equal(t, int64(8), toc.TotalSize())

	assert.Empty(t, TOC(nil).Names())
	assert.Zero(t, TOC(nil).TotalSize())
}

func TestIsBlankName(t *testing.T) {
	assert.True(t, IsBlankName(""))
	assert.True(t, IsBlankName(" \t\n"))
	assert.False(t, IsBlankName("a"))
	assert.False(t, IsBlankName(" a "))
}
