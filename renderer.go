package sprig

import (
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultInstanceCap = 1024

// instance is one sprite recorded for the current frame: its position, the
// transform slot to resolve at flush time, and what to texture it with.
type instance struct {
	x, y   float32
	ox, oy float32 // quad top-left relative to the pivot, before the transform
	slot   uint16
	region TextureRegion
	color  color32
	blend  BlendMode
}

// Renderer draws sprites with per-frame transform deduplication.
//
// A frame is Begin, any number of Draw calls, then Flush. Draw resolves the
// sprite's scale and rotation to a slot in the transform buffer and records
// a compact instance. Flush commits the buffer, uploads the unique matrices
// once, expands every instance into a quad from the uploaded matrices and
// submits batches of quads sharing an atlas page and blend mode.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	cfg     Config
	sr      *SRBuffer
	storage *transformStorage
	camera  *Camera

	instances []instance
	pages     []*ebiten.Image
	nextPage  int

	// Reused quad buffers.
	verts []ebiten.Vertex
	inds  []uint32

	cullBounds Rect
	cullActive bool
	view       [6]float32

	stats   FrameStats
	beginAt time.Time

	screenshotQueue []string
}

// NewRenderer validates cfg and allocates every per-frame buffer.
func NewRenderer(cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		cfg:       cfg,
		sr:        NewSRBuffer(cfg.Capacity),
		storage:   newTransformStorage(cfg.Capacity),
		instances: make([]instance, 0, defaultInstanceCap),
		verts:     make([]ebiten.Vertex, 0, 4*defaultInstanceCap),
		inds:      make([]uint32, 0, 6*defaultInstanceCap),
		view:      affine32(identityTransform),
	}, nil
}

// Config returns the configuration the renderer was created with.
func (r *Renderer) Config() Config { return r.cfg }

// Transforms returns the renderer's transform buffer for inspection.
func (r *Renderer) Transforms() *SRBuffer { return r.sr }

// Stats returns the counters of the most recent frame.
func (r *Renderer) Stats() FrameStats { return r.stats }

// SetCamera sets the view applied at Flush. nil draws in screen space.
func (r *Renderer) SetCamera(c *Camera) { r.camera = c }

// Camera returns the current camera, or nil.
func (r *Renderer) Camera() *Camera { return r.camera }

// SetDebugMode enables or disables per-frame stats on stderr.
func (r *Renderer) SetDebugMode(enabled bool) { r.cfg.Debug = enabled }

// Begin starts a frame: the transform buffer is reset and the instance list
// emptied. The previous frame's Flush must have completed.
func (r *Renderer) Begin() {
	r.sr.Reset()
	r.instances = r.instances[:0]
	r.stats = FrameStats{}

	r.cullActive = false
	r.view = affine32(identityTransform)
	if r.camera != nil {
		r.view = affine32(r.camera.computeViewMatrix())
		if r.camera.CullEnabled {
			r.cullActive = true
			r.cullBounds = r.camera.VisibleBounds()
		}
	}

	if r.cfg.Debug {
		r.beginAt = time.Now()
	}
}

// Draw records sp for this frame. Hidden and culled sprites are skipped
// without touching the transform buffer. The error is non-nil only under
// OverflowFail, when the frame has no room for the sprite's transform.
func (r *Renderer) Draw(sp *Sprite) error {
	if sp.Hidden {
		return nil
	}
	return r.draw(&sp.Region, sp.X, sp.Y, sp.PivotX, sp.PivotY, sp.Key(), sp.Color, sp.BlendMode)
}

// DrawRegion records a region whose top-left corner is the pivot, using a
// precomputed transform key.
func (r *Renderer) DrawRegion(region TextureRegion, x, y float64, key TransformKey, c Color, blend BlendMode) error {
	return r.draw(&region, x, y, 0, 0, key, c, blend)
}

func (r *Renderer) draw(region *TextureRegion, x, y, pivotX, pivotY float64, key TransformKey, c Color, blend BlendMode) error {
	ox, oy := localOrigin(region, pivotX, pivotY)
	if r.cullActive && circleOutside(r.cullBounds, x, y, boundingRadius(region, ox, oy, key.Scale())) {
		r.stats.Culled++
		return nil
	}

	slot, err := r.sr.Add(key)
	if err != nil {
		switch r.cfg.Overflow {
		case OverflowReuseNearest:
			slot = r.nearestSlot(key)
			r.stats.Reused++
		case OverflowFail:
			r.stats.Dropped++
			return fmt.Errorf("sprig: draw with %v: %w", key, err)
		default:
			r.stats.Dropped++
			return nil
		}
	}

	r.instances = append(r.instances, instance{
		x:      float32(x),
		y:      float32(y),
		ox:     ox,
		oy:     oy,
		slot:   uint16(slot),
		region: *region,
		color:  c.premultiplied(),
		blend:  blend,
	})
	return nil
}

// nearestSlot returns the live slot whose matrix is closest to key's, by
// squared Frobenius distance. Only called once the frame is full, so at
// least one slot is live.
func (r *Renderer) nearestSlot(key TransformKey) int {
	want := key.Matrix()
	best, bestDist := 0, float32(math.MaxFloat32)
	for i := 0; i < r.sr.Len(); i++ {
		m, _ := r.sr.Mat(i)
		var d float32
		for j := range m {
			e := m[j] - want[j]
			d += e * e
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Flush commits the frame's transforms, uploads them if they changed, and
// draws every recorded instance onto target.
func (r *Renderer) Flush(target *ebiten.Image) {
	var t0 time.Time
	if r.cfg.Debug {
		r.stats.RecordTime = time.Since(r.beginAt)
		t0 = time.Now()
	}

	buf, changed := r.sr.CommitBytes()
	if changed {
		if err := r.storage.upload(buf); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[sprig] flush: %v\n", err)
			return
		}
		r.stats.UploadBytes = len(buf)
	}
	r.stats.Instances = len(r.instances)
	r.stats.UniqueTransforms = r.sr.Len()

	if r.cfg.Debug {
		r.stats.CommitTime = time.Since(t0)
		t0 = time.Now()
	}

	r.submitBatches(target)

	if r.cfg.Debug {
		r.stats.SubmitTime = time.Since(t0)
		r.debugLog(r.stats)
	}

	r.flushScreenshots(target)
}

// MakeImage creates an atlas page from straight RGBA pixels (4 bytes per
// pixel, row-major) and returns its page index for TextureRegion.Page.
func (r *Renderer) MakeImage(pix []byte, width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("sprig: make image: invalid size %dx%d", width, height)
	}
	if len(pix) != 4*width*height {
		return 0, fmt.Errorf("sprig: make image: got %d bytes, want %d for %dx%d", len(pix), 4*width*height, width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	page := r.nextPage
	r.RegisterPage(page, ebiten.NewImageFromImage(img))
	r.nextPage = page + 1
	return page, nil
}

// RegisterPage stores an atlas page image at the given index.
func (r *Renderer) RegisterPage(index int, img *ebiten.Image) {
	for len(r.pages) <= index {
		r.pages = append(r.pages, nil)
	}
	r.pages[index] = img
	if index >= r.nextPage {
		r.nextPage = index + 1
	}
}

// Page returns the atlas page at index, or nil.
func (r *Renderer) Page(index int) *ebiten.Image {
	if index < 0 || index >= len(r.pages) {
		return nil
	}
	return r.pages[index]
}

// LoadAtlas parses TexturePacker JSON, registers the pages after the ones
// already known, and returns the Atlas with page indices remapped.
func (r *Renderer) LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	atlas, err := LoadAtlas(jsonData, pages)
	if err != nil {
		return nil, err
	}
	startIndex := r.nextPage
	for i, page := range pages {
		r.RegisterPage(startIndex+i, page)
	}
	if startIndex > 0 {
		for name, reg := range atlas.regions {
			reg.Page += uint16(startIndex)
			atlas.regions[name] = reg
		}
	}
	atlas.debug = r.cfg.Debug
	return atlas, nil
}
