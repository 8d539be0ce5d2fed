package sprig

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrAtlasFormat is wrapped by every atlas parsing error.
var ErrAtlasFormat = errors.New("sprig: bad atlas JSON")

// TextureRegion describes a sub-rectangle within an atlas page.
// Instances copy it by value, so it stays small.
type TextureRegion struct {
	Page      uint16 // atlas page index, as returned by MakeImage or RegisterPage
	X, Y      uint16 // top-left corner of the rect within the page
	Width     uint16 // rect width, smaller than OriginalW when trimmed
	Height    uint16 // rect height, smaller than OriginalH when trimmed
	OriginalW uint16 // untrimmed width
	OriginalH uint16 // untrimmed height
	OffsetX   int16  // trim offset inside the untrimmed frame
	OffsetY   int16
	Rotated   bool // stored 90 degrees clockwise in the page
}

// FullRegion returns a region covering a whole w×h page.
func FullRegion(page, w, h int) TextureRegion {
	return TextureRegion{
		Page:      uint16(page),
		Width:     uint16(w),
		Height:    uint16(h),
		OriginalW: uint16(w),
		OriginalH: uint16(h),
	}
}

// Atlas holds one or more page images and a map of named regions.
type Atlas struct {
	// Pages contains the page images indexed by page number.
	Pages   []*ebiten.Image
	regions map[string]TextureRegion
	debug   bool
}

// Region returns the TextureRegion for the given name. A missing name yields
// a 1×1 magenta placeholder on magentaPlaceholderPage, logged in debug mode.
func (a *Atlas) Region(name string) TextureRegion {
	if r, ok := a.regions[name]; ok {
		return r
	}
	if a.debug {
		log.Printf("sprig: atlas region %q not found, using magenta placeholder", name)
	}
	return magentaRegion()
}

// Has reports whether the atlas defines name.
func (a *Atlas) Has(name string) bool {
	_, ok := a.regions[name]
	return ok
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for name := range a.regions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// magenta placeholder singleton; the renderer is single-threaded.
var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

// magentaPlaceholderPage never collides with a real page.
const magentaPlaceholderPage = 0xFFFF

func magentaRegion() TextureRegion {
	r := FullRegion(0, 1, 1)
	r.Page = magentaPlaceholderPage
	return r
}

// LoadAtlas parses TexturePacker JSON and associates the given page images.
// Both the hash format (a single "frames" object) and the array format (a
// "textures" array with per-page frames) are accepted.
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAtlasFormat, err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]TextureRegion),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: neither \"frames\" nor \"textures\" key", ErrAtlasFormat)
	}
	return atlas, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func parseHashFrames(raw json.RawMessage, page uint16, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("%w: frames: %w", ErrAtlasFormat, err)
	}
	for name, f := range frames {
		atlas.regions[name] = frameToRegion(f, page)
	}
	return nil
}

func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("%w: textures: %w", ErrAtlasFormat, err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			atlas.regions[name] = frameToRegion(f, uint16(i))
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page uint16) TextureRegion {
	r := TextureRegion{
		Page:      page,
		X:         uint16(f.Frame.X),
		Y:         uint16(f.Frame.Y),
		Width:     uint16(f.Frame.W),
		Height:    uint16(f.Frame.H),
		OriginalW: uint16(f.SourceSize.W),
		OriginalH: uint16(f.SourceSize.H),
		OffsetX:   int16(f.SpriteSourceSize.X),
		OffsetY:   int16(f.SpriteSourceSize.Y),
		Rotated:   f.Rotated,
	}
	// Untrimmed frames may omit sourceSize.
	if !f.Trimmed && r.OriginalW == 0 && r.OriginalH == 0 {
		r.OriginalW, r.OriginalH = r.Width, r.Height
	}
	return r
}
