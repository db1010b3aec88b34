// Package glyph implements the atlas, cache, and procedural sprite
// synthesis components (spec C1-C3): GlyphAtlas is a grow-on-demand
// bin-packed pixel buffer, GlyphCache resolves codepoints and grapheme
// clusters to rasterized regions, and SpriteSynthesizer draws the
// box/block/braille/powerline ranges procedurally.
package glyph

import "errors"

// ErrAtlasFull is returned by Reserve when no free node fits at the
// current size, and by Grow when the atlas is already at its maximum
// size (spec §4.1 failure semantics).
var ErrAtlasFull = errors.New("glyph: atlas full")

const (
	initialAtlasSize = 512
	maxAtlasSize     = 8192
	atlasBorder      = 1 // reserved regions stay within [1, S-1]x[1, S-1]
)

// PixelFormat distinguishes the atlas's storage layout.
type PixelFormat uint8

const (
	FormatGrayscale PixelFormat = iota // 1 byte/pixel
	FormatColor                        // 4 bytes/pixel (BGRA)
)

func (f PixelFormat) bytesPerPixel() int {
	if f == FormatColor {
		return 4
	}
	return 1
}

// Region is a reserved rectangle within one atlas.
type Region struct {
	X, Y, W, H int
}

// UV recomputes the region's normalized texture coordinates from the
// atlas's *current* size, per spec §3 ("Derived UVs ... recomputed from
// the current atlas size at draw time").
func (r Region) UV(atlasSize int) (u0, v0, u1, v1 float32) {
	s := float32(atlasSize)
	return float32(r.X) / s, float32(r.Y) / s, float32(r.X+r.W) / s, float32(r.Y+r.H) / s
}

// freeNode is one horizontal free span at a given y, per spec §3's
// "(x, y, width)" free-node shape. Nodes are stored implicitly with a
// height too, because reserve needs to know how much vertical space sits
// above each node before it can split.
type freeNode struct {
	x, y, width, height int
}

// Atlas is a grow-on-demand, bin-packed pixel buffer with a monotonic
// modification counter. The bin-packing algorithm (best-height then
// best-width, min-x tie-break) and the free-node bookkeeping needed to
// support reclaiming space are an original implementation grounded on
// the *shape* of gogpu-gg's internal/gpu.RectAllocator (Allocate/Reset/
// Utilization/AllocCount) — that allocator is shelf-based and can't
// reclaim freed rectangles, which this spec's grow()-without-repack
// invariant and long glyph-cache lifetime require, so the packing
// algorithm itself is new rather than ported.
type Atlas struct {
	size   int
	format PixelFormat
	pixels []byte

	free []freeNode

	modified uint64 // lock-free, monotonic; see Modified()
}

// NewAtlas creates an atlas at the spec's initial size (512), with a
// single free node covering the interior (inside the 1px border).
func NewAtlas(format PixelFormat) *Atlas {
	a := &Atlas{
		size:   initialAtlasSize,
		format: format,
	}
	a.pixels = make([]byte, a.size*a.size*format.bytesPerPixel())
	a.free = []freeNode{{
		x: atlasBorder, y: atlasBorder,
		width:  a.size - 2*atlasBorder,
		height: a.size - 2*atlasBorder,
	}}
	return a
}

// Size returns the atlas's current side length.
func (a *Atlas) Size() int { return a.size }

// Modified returns the monotonic modification counter, incremented by
// Set and Grow. Callers use it to detect when they must re-upload the
// backing texture.
func (a *Atlas) Modified() uint64 { return a.modified }

// Reserve bin-packs a w x h region. Tie-break rule (spec §4.1): among
// free nodes that can hold the region, pick the one with the smallest y;
// on a y tie, the smallest x. The chosen node is split so the remaining
// free area keeps the non-overlap/coverage invariant.
func (a *Atlas) Reserve(w, h int) (Region, error) {

	best := -1
	for i, n := range a.free {
		if n.width < w || n.height < h {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		b := a.free[best]
		if n.y < b.y || (n.y == b.y && n.x < b.x) {
			best = i
		}
	}

	if best == -1 {
		return Region{}, ErrAtlasFull
	}

	n := a.free[best]
	region := Region{X: n.x, Y: n.y, W: w, H: h}

	a.free = append(a.free[:best], a.free[best+1:]...)

	// Split the remaining L-shape into a right strip (same height as the
	// reservation) and a bottom strip (full original width), so the two
	// new nodes are pairwise non-overlapping and together cover exactly
	// the area n covered minus the reservation.
	if rem := n.width - w; rem > 0 {
		a.free = append(a.free, freeNode{x: n.x + w, y: n.y, width: rem, height: h})
	}
	if rem := n.height - h; rem > 0 {
		a.free = append(a.free, freeNode{x: n.x, y: n.y + h, width: n.width, height: rem})
	}

	a.mergeAdjacent()
	return region, nil
}

// mergeAdjacent coalesces free nodes that form a single rectangle when
// stacked or placed side by side, keeping the free list from fragmenting
// into slivers across many reserve/grow cycles.
func (a *Atlas) mergeAdjacent() {
	for {
		merged := false
		for i := 0; i < len(a.free); i++ {
			for j := i + 1; j < len(a.free); j++ {
				if m, ok := mergeNodes(a.free[i], a.free[j]); ok {
					a.free[i] = m
					a.free = append(a.free[:j], a.free[j+1:]...)
					merged = true
					break
				}
			}
			if merged {
				break
			}
		}
		if !merged {
			return
		}
	}
}

func mergeNodes(a, b freeNode) (freeNode, bool) {
	// Horizontally adjacent, same y and height.
	if a.y == b.y && a.height == b.height {
		if a.x+a.width == b.x {
			return freeNode{x: a.x, y: a.y, width: a.width + b.width, height: a.height}, true
		}
		if b.x+b.width == a.x {
			return freeNode{x: b.x, y: b.y, width: a.width + b.width, height: a.height}, true
		}
	}
	// Vertically adjacent, same x and width.
	if a.x == b.x && a.width == b.width {
		if a.y+a.height == b.y {
			return freeNode{x: a.x, y: a.y, width: a.width, height: a.height + b.height}, true
		}
		if b.y+b.height == a.y {
			return freeNode{x: b.x, y: b.y, width: a.width, height: a.height + b.height}, true
		}
	}
	return freeNode{}, false
}

// Set copies tightly-packed pixels into the buffer at region and
// increments Modified.
func (a *Atlas) Set(region Region, pixels []byte) {

	bpp := a.format.bytesPerPixel()
	rowBytes := region.W * bpp
	for row := 0; row < region.H; row++ {
		src := pixels[row*rowBytes : row*rowBytes+rowBytes]
		dstOff := ((region.Y+row)*a.size + region.X) * bpp
		copy(a.pixels[dstOff:dstOff+rowBytes], src)
	}
	a.modified++
}

// Pixels returns the raw backing buffer, for GL texture upload.
func (a *Atlas) Pixels() []byte { return a.pixels }

// Grow doubles the atlas's side length (capped at maxAtlasSize per spec
// §4.1), copies existing content into the top-left, and extends the free
// node list to cover the new area without repacking already-reserved
// regions.
func (a *Atlas) Grow() error {

	newSize := a.size * 2
	if newSize > maxAtlasSize {
		return ErrAtlasFull
	}

	bpp := a.format.bytesPerPixel()
	newPixels := make([]byte, newSize*newSize*bpp)
	for row := 0; row < a.size; row++ {
		srcOff := row * a.size * bpp
		dstOff := row * newSize * bpp
		copy(newPixels[dstOff:dstOff+a.size*bpp], a.pixels[srcOff:srcOff+a.size*bpp])
	}

	// Add two new free strips covering the grown area inside the new
	// 1px border: the right strip beside the old content, and the bottom
	// strip below it covering the rest including the new corner.
	// Existing free nodes are left as they are; mergeAdjacent joins any
	// that line up with the new strips.
	oldSize := a.size
	a.free = append(a.free, freeNode{
		x: oldSize, y: atlasBorder,
		width:  newSize - oldSize - atlasBorder,
		height: oldSize - atlasBorder,
	})
	a.free = append(a.free, freeNode{
		x: atlasBorder, y: oldSize,
		width:  newSize - 2*atlasBorder,
		height: newSize - oldSize - atlasBorder,
	})

	a.size = newSize
	a.pixels = newPixels
	a.mergeAdjacent()
	a.modified++
	return nil
}
