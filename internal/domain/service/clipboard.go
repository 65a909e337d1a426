package service

import (
	"context"
	"image"
	"sync"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
)

// MemoryClipboard keeps the last copied image in process memory.
type MemoryClipboard struct {
	mu  sync.RWMutex
	img image.Image
}

func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{}
}

func (c *MemoryClipboard) WriteImage(_ context.Context, img image.Image) error {
	c.mu.Lock()
	c.img = img
	c.mu.Unlock()
	return nil
}

// Image returns the current clipboard image or nil.
func (c *MemoryClipboard) Image() image.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.img
}

// ReadImage returns the clipboard image or errorz.ErrNotFound when it is empty.
func (c *MemoryClipboard) ReadImage(context.Context) (image.Image, error) {
	if img := c.Image(); img != nil {
		return img, nil
	}
	return nil, errorz.ErrNotFound
}

// ReadableClipboard is a clipboard whose contents can be read back.
type ReadableClipboard interface {
	Clipboard
	ReadImage(ctx context.Context) (image.Image, error)
}
