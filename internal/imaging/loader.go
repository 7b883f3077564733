package imaging

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultCacheSize bounds the frames an ImageCache keeps.
const DefaultCacheSize = 8

// ImageCache provides thread-safe caching of decoded frames keyed by path.
//
// The MCP server keeps one cache so that locating the band and recognizing the
// timestamp of the same frame only decode it once. An entry is dropped when the
// file's size or modification time changes, and the oldest entry goes once the
// cache is full.
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/data/AVI_last_frames/RCNX0001_lastframe.png")
//	if err != nil {
//	    return err
//	}
//	defer cache.Evict("/data/AVI_last_frames/RCNX0001_lastframe.png")
type ImageCache struct {
	mu     sync.RWMutex
	limit  int
	images map[string]cachedImage
	order  []string
}

type cachedImage struct {
	img     image.Image
	size    int64
	modTime time.Time
}

// NewImageCache creates an empty cache holding up to DefaultCacheSize frames.
func NewImageCache() *ImageCache {
	return NewImageCacheSize(DefaultCacheSize)
}

// NewImageCacheSize creates an empty cache holding up to limit frames. A limit
// below one is treated as one.
func NewImageCacheSize(limit int) *ImageCache {
	if limit < 1 {
		limit = 1
	}
	return &ImageCache{
		limit:  limit,
		images: make(map[string]cachedImage),
	}
}

// Load returns the cached image for path, decoding it from disk on first use
// or when the file changed since it was cached.
//
// The image is cached under the exact path string provided; relative and
// absolute paths to the same file are separate entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	e, ok := c.images[path]
	c.mu.RUnlock()
	if ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		return e.img, nil
	}

	img, err := LoadFile(path)
	if err != nil {
		c.Evict(path)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.images[path]; !ok {
		c.order = append(c.order, path)
	}
	c.images[path] = cachedImage{img: img, size: info.Size(), modTime: info.ModTime()}
	for len(c.order) > c.limit {
		delete(c.images, c.order[0])
		c.order = c.order[1:]
	}
	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.order = nil
	c.mu.Unlock()
}

// Evict removes a specific image from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.images[path]; !ok {
		return
	}
	delete(c.images, path)
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// LoadFile decodes the image at path without caching it.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP.
func LoadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads any registered image format from r.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ToGray converts img to 8-bit grayscale with its origin moved to (0,0).
// A *image.Gray already at the origin is returned as is.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}
