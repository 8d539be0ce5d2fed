package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/sprig"
)

// SpriteComponent holds the sprite an entity draws.
var SpriteComponent = donburi.NewComponentType[sprig.Sprite](sprig.Sprite{Scale: 1, Color: sprig.ColorWhite})

// FrameStatsEventType carries the renderer's counters after each Flush.
var FrameStatsEventType = events.NewEventType[sprig.FrameStats]()

// DrawError reports a sprite the renderer refused to draw.
type DrawError struct {
	Entity donburi.Entity
	Err    error
}

// DrawErrorEventType carries DrawErrors published by DrawSprites.
var DrawErrorEventType = events.NewEventType[DrawError]()

var spriteQuery = donburi.NewQuery(filter.Contains(SpriteComponent))

// DrawSprites records every entity with a SpriteComponent into the current
// frame of r and returns how many were handed to the renderer. Draw errors
// are published to DrawErrorEventType rather than stopping the frame.
func DrawSprites(world donburi.World, r *sprig.Renderer) int {
	n := 0
	spriteQuery.Each(world, func(entry *donburi.Entry) {
		sp := SpriteComponent.Get(entry)
		if sp.Hidden {
			return
		}
		n++
		if err := r.Draw(sp); err != nil {
			DrawErrorEventType.Publish(world, DrawError{Entity: entry.Entity(), Err: err})
		}
	})
	return n
}

// PublishFrameStats queues the stats of the frame r last flushed.
func PublishFrameStats(world donburi.World, r *sprig.Renderer) {
	FrameStatsEventType.Publish(world, r.Stats())
}
