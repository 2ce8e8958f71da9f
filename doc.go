// Package texblit is the texture and sprite blitting layer of a 2D game
// client built on [Ebitengine].
//
// It owns GPU texture lifetime through a reference-counted [Cache] keyed by
// source path, prepares decoded images for upload (power-of-two padding and
// a vertical flip), optionally builds per-pixel transparency masks for hit
// testing, and draws sprites through a [Renderer] in two coordinate spaces.
//
// # Quick start
//
//	surface, _ := texblit.NewSurface(800, 600, 0)
//	dev := texblit.NewEbitenDevice(0)
//	cache := texblit.NewCache(dev, surface, texblit.FSLoader(os.DirFS("gfx")))
//	r := texblit.NewRenderer(dev, surface)
//
//	ship, err := cache.AcquireSprite("ship.png", 6, 6, texblit.FlagMapTransparency)
//	if err != nil { ... }
//	defer cache.Release(ship)
//
//	cam := texblit.NewCamera(surface.Width(), surface.Height())
//	cam.Follow(&player.Pos, 0, 0, 1)
//	r.SetCamera(cam)
//
// Each frame, from ebiten.Game.Draw:
//
//	dev.Begin(screen)
//	col, row := ship.SpriteForDirection(player.Dir)
//	r.BlitRelative(ship, player.Pos.X, player.Pos.Y, col, row, texblit.Color{})
//	r.Flush()
//	dev.End()
//
// # Coordinates
//
// Relative blits are positioned in world space around the camera and are
// culled when entirely off screen. Absolute blits use screen coordinates with
// (0, 0) at the bottom-left. Both resolve into a centered space where (0, 0)
// is the middle of the screen and Y points up; the [Surface] projects that
// space onto the device, scaling small displays up to a minimum logical size.
//
// # Ownership
//
// Textures returned by the cache are handles. Every Acquire must be matched
// by a Release; the GPU texture is destroyed when the last reference goes.
// [Cache.Shutdown] reports any entry still referenced.
//
// [Ebitengine]: https://ebitengine.org
package texblit
