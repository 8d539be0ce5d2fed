// Package ecs provides ECS adapters for sprig.
//
// Store a [sprig.Sprite] on Donburi entities with [SpriteComponent] and let
// [DrawSprites] record every visible one into a renderer frame. After the
// frame is flushed, [PublishFrameStats] sends the renderer's counters to
// [FrameStatsEventType] subscribers, and Draw failures under the fail
// overflow policy arrive on [DrawErrorEventType].
//
// Usage:
//
//	e := world.Create(ecs.SpriteComponent)
//	ecs.SpriteComponent.SetValue(world.Entry(e), sprig.NewSprite(region))
//
//	r.Begin()
//	ecs.DrawSprites(world, r)
//	r.Flush(screen)
//	ecs.PublishFrameStats(world, r)
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
