// Package sprig is a 2D sprite renderer for [Ebitengine] built around a
// per-frame transform cache.
//
// Most sprites in a scene share a handful of scale/rotation pairs. Sprig
// quantizes each pair into a 32-bit [TransformKey] and resolves it, once per
// frame, to a slot in an [SRBuffer]: a fixed-capacity arena with an
// open-addressed index, both invalidated in O(1) by bumping a frame epoch.
// Each unique 2×2 matrix is computed and uploaded once per frame however
// many sprites use it, and every sprite instance carries only its position
// and a 16-bit slot.
//
// # Quick start
//
// [Run] opens a window and drives a [Game] with a [Renderer]:
//
//	r, err := sprig.NewRenderer(sprig.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	page, _ := r.MakeImage(pix, 32, 32)
//	hero := sprig.NewSprite(sprig.FullRegion(page, 32, 32))
//	hero.CenterPivot()
//	// ... implement Update and Draw, calling r.Draw(&hero) ...
//	err = sprig.Run(r, game, sprig.RunConfig{Title: "Demo", Width: 640, Height: 480})
//
// For full control, call the frame protocol yourself from an [ebiten.Game]:
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.r.Begin()
//		for i := range g.sprites {
//			_ = g.r.Draw(&g.sprites[i])
//		}
//		g.r.Flush(screen)
//	}
//
// # Transform cache
//
// [SRBuffer] can be used without the renderer. Reset starts a frame, Add
// returns a stable slot for a key, and Commit returns the frame's unique
// matrices together with a flag telling whether they changed since the last
// Commit. [SRBuffer.CommitBytes] exposes the same matrices as bytes for
// upload.
//
// When a frame needs more unique transforms than the buffer holds, the
// renderer applies the configured [OverflowPolicy].
//
// # Configuration
//
// [LoadConfig] reads JSON with comments and trailing commas:
//
//	{
//		"capacity": 4096,
//		"overflow": "reuse-nearest", // or "drop", "fail"
//		"debug": true,
//	}
//
// The cmd/srstat tool replays synthetic frames through an [SRBuffer] and
// reports dedup ratios for a given configuration. Tweens use [gween] and
// the optional sprig/ecs package integrates with [Donburi].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package sprig
