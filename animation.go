package sprig

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of a Sprite at once. Create one
// with TweenPosition, TweenScale, TweenRotation or TweenColor and call
// Update(dt) each tick. Values are written straight into the sprite, so the
// next Draw picks them up and resolves a fresh transform key.
//
// There is no global animation manager; callers own their groups.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Reset rewinds every tween to its start.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
		val, _ := g.tweens[i].Update(0)
		*g.fields[i] = float64(val)
	}
	g.Done = false
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenPosition animates sp.X and sp.Y to (toX, toY).
func TweenPosition(sp *Sprite, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&sp.X, toX, duration, fn)
	g.add(&sp.Y, toY, duration, fn)
	return g
}

// TweenScale animates sp.Scale.
func TweenScale(sp *Sprite, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&sp.Scale, to, duration, fn)
	return g
}

// TweenRotation animates sp.Rotation (radians).
func TweenRotation(sp *Sprite, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&sp.Rotation, to, duration, fn)
	return g
}

// TweenColor animates all four components of sp.Color.
func TweenColor(sp *Sprite, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&sp.Color.R, to.R, duration, fn)
	g.add(&sp.Color.G, to.G, duration, fn)
	g.add(&sp.Color.B, to.B, duration, fn)
	g.add(&sp.Color.A, to.A, duration, fn)
	return g
}
