// sprites10k spawns 10,000 sprites that rotate, pulse and bounce around the
// screen. Spin speeds and pulse phases come from small sets, so each frame
// needs only a few hundred unique transforms for ten thousand sprites; the
// FPS overlay shows the count.
package main

import (
	"log"
	"math"
	"math/rand/v2"

	"github.com/phanxgames/sprig"
)

const (
	screenW  = 1280
	screenH  = 720
	count    = 10_000
	gemSize  = 64
	spinSets = 12
	pulseSet = 8
)

type mover struct {
	dx, dy float64
	spin   int // index into spinSpeeds
	pulse  int // phase bucket
}

type demo struct {
	sprites []sprig.Sprite
	movers  []mover
	t       float64
	frame   int

	r *sprig.Renderer
}

var spinSpeeds [spinSets]float64

func main() {
	cfg := sprig.DefaultConfig()
	cfg.Overflow = sprig.OverflowReuseNearest
	cfg.ClearColor = sprig.Color{R: 0.06, G: 0.06, B: 0.09, A: 1}
	cfg.ScreenshotDir = "docs/demos/sprites10k"

	r, err := sprig.NewRenderer(cfg)
	if err != nil {
		log.Fatal(err)
	}

	page, err := r.MakeImage(gemPixels(gemSize), gemSize, gemSize)
	if err != nil {
		log.Fatalf("make gem image: %v", err)
	}
	region := sprig.FullRegion(page, gemSize, gemSize)

	for i := range spinSpeeds {
		spinSpeeds[i] = (float64(i) - spinSets/2) * 0.5
	}

	d := &demo{
		sprites: make([]sprig.Sprite, count),
		movers:  make([]mover, count),
		r:       r,
	}
	for i := range d.sprites {
		sp := sprig.NewSprite(region)
		sp.CenterPivot()
		sp.X = rand.Float64() * screenW
		sp.Y = rand.Float64() * screenH
		sp.Color = sprig.Color{
			R: 0.5 + rand.Float64()*0.5,
			G: 0.5 + rand.Float64()*0.5,
			B: 0.5 + rand.Float64()*0.5,
			A: 1,
		}
		d.sprites[i] = sp
		d.movers[i] = mover{
			dx:    (rand.Float64() - 0.5) * 4,
			dy:    (rand.Float64() - 0.5) * 4,
			spin:  rand.IntN(spinSets),
			pulse: rand.IntN(pulseSet),
		}
	}

	if err := sprig.Run(r, d, sprig.RunConfig{
		Title:   "Sprig - 10k Sprites",
		Width:   screenW,
		Height:  screenH,
		ShowFPS: true,
	}); err != nil {
		log.Fatal(err)
	}
}

func (d *demo) Update(dt float64) error {
	d.t += dt
	d.frame++
	if d.frame == 30 {
		d.r.Screenshot("thumbnail")
	}

	const half = gemSize * 0.3 / 2
	for i := range d.sprites {
		sp := &d.sprites[i]
		m := &d.movers[i]

		sp.X += m.dx
		sp.Y += m.dy
		if sp.X < half || sp.X > screenW-half {
			m.dx = -m.dx
		}
		if sp.Y < half || sp.Y > screenH-half {
			m.dy = -m.dy
		}

		sp.Rotation = d.t * spinSpeeds[m.spin]
		phase := float64(m.pulse) * 2 * math.Pi / pulseSet
		sp.Scale = 0.3 + 0.08*math.Sin(d.t*2+phase)
	}
	return nil
}

func (d *demo) Draw(r *sprig.Renderer) error {
	for i := range d.sprites {
		if err := r.Draw(&d.sprites[i]); err != nil {
			return err
		}
	}
	return nil
}

// gemPixels draws a soft diamond with a highlight, in straight RGBA.
func gemPixels(size int) []byte {
	pix := make([]byte, 4*size*size)
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := (math.Abs(float64(x)-c) + math.Abs(float64(y)-c)) / c
			if d > 1 {
				continue
			}
			shade := 1 - 0.6*d
			hl := math.Max(0, 1-math.Hypot(float64(x)-c*0.7, float64(y)-c*0.6)/(c*0.35))
			i := 4 * (y*size + x)
			pix[i] = uint8(255 * math.Min(1, 0.4*shade+hl))
			pix[i+1] = uint8(255 * math.Min(1, 0.7*shade+hl))
			pix[i+2] = uint8(255 * math.Min(1, shade+hl))
			pix[i+3] = uint8(255 * math.Min(1, 1.5*(1-d)))
		}
	}
	return pix
}
