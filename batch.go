package sprig

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// batchKey groups instances that can be submitted in a single draw call.
type batchKey struct {
	page  uint16
	blend BlendMode
}

func instanceBatchKey(in *instance) batchKey {
	return batchKey{page: in.region.Page, blend: in.blend}
}

// submitBatches walks the instances in draw order, coalescing consecutive
// instances with the same batch key into one DrawTriangles32 call.
func (r *Renderer) submitBatches(target *ebiten.Image) {
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	if len(r.instances) == 0 {
		return
	}

	current := instanceBatchKey(&r.instances[0])
	for i := range r.instances {
		in := &r.instances[i]
		key := instanceBatchKey(in)
		if key != current {
			r.flushBatch(target, current)
			current = key
		}
		r.appendQuad(in)
	}
	r.flushBatch(target, current)
}

// appendQuad appends 4 vertices and 6 indices for one instance. The corner
// offsets are transformed by the matrix uploaded for the instance's slot,
// translated to the instance position, then mapped through the camera view.
func (r *Renderer) appendQuad(in *instance) {
	m, ok := r.storage.at(int(in.slot))
	if !ok {
		r.stats.Unresolved++
		return
	}
	reg := &in.region

	w := float32(reg.Width)
	h := float32(reg.Height)
	lx := [4]float32{in.ox, in.ox + w, in.ox, in.ox + w}
	ly := [4]float32{in.oy, in.oy, in.oy + h, in.oy + h}

	// Source UVs (pixel coordinates on the atlas page).
	var sx, sy [4]float32
	rx := float32(reg.X)
	ry := float32(reg.Y)
	if reg.Rotated {
		// Stored 90° clockwise: the stored rect is Height wide and Width tall.
		sx = [4]float32{rx + h, rx + h, rx, rx}
		sy = [4]float32{ry, ry + w, ry, ry + w}
	} else {
		sx = [4]float32{rx, rx + w, rx, rx + w}
		sy = [4]float32{ry, ry, ry + h, ry + h}
	}

	c := in.color
	base := uint32(len(r.verts))
	for i := 0; i < 4; i++ {
		dx, dy := m.Apply(lx[i], ly[i])
		dx, dy = transformPoint32(&r.view, dx+in.x, dy+in.y)
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:   dx,
			DstY:   dy,
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: c.R,
			ColorG: c.G,
			ColorB: c.B,
			ColorA: c.A,
		})
	}

	// Two triangles: TL-TR-BL, TR-BR-BL
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// flushBatch submits the accumulated quads with the page and blend of key.
func (r *Renderer) flushBatch(target *ebiten.Image, key batchKey) {
	if len(r.verts) == 0 {
		return
	}

	page := r.resolvePage(key.page)
	if page == nil {
		r.verts = r.verts[:0]
		r.inds = r.inds[:0]
		return
	}

	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = key.blend.EbitenBlend()
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha

	target.DrawTriangles32(r.verts, r.inds, page, &triOp)
	r.stats.Batches++

	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

// resolvePage maps a region page index to its image.
func (r *Renderer) resolvePage(page uint16) *ebiten.Image {
	if page == magentaPlaceholderPage {
		return ensureMagentaImage()
	}
	return r.Page(int(page))
}
