package texblit

import "time"

// batchKey groups render commands that can be submitted in one device call.
type batchKey struct {
	texture TextureID
}

func commandBatchKey(cmd *RenderCommand) batchKey {
	return batchKey{texture: cmd.Texture.id}
}

// Flush projects the queued commands into normalized device space and
// submits them. Consecutive commands sharing a texture go out in a single
// DrawQuads call; submission order is otherwise preserved. The device error
// state is checked after every call.
func (r *Renderer) Flush() {
	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}

	stats := FrameStats{
		Commands: len(r.commands),
		Culled:   r.culled,
	}

	cmds := r.commands
	for i := 0; i < len(cmds); {
		key := commandBatchKey(&cmds[i])
		r.quadBuf = r.quadBuf[:0]
		j := i
		for ; j < len(cmds) && commandBatchKey(&cmds[j]) == key; j++ {
			r.quadBuf = append(r.quadBuf, r.project(&cmds[j]))
		}
		r.dev.DrawQuads(key.texture, r.quadBuf)
		reportGPUError(r.dev, "draw quads")
		stats.Batches++
		stats.DrawCalls += len(r.quadBuf)
		i = j
	}

	if r.debug {
		stats.SubmitTime = time.Since(t0)
	}
	r.stats = stats
	r.commands = r.commands[:0]
	r.culled = 0
	r.debugLog(stats)
}

// project maps a command's position rectangle into normalized device space.
func (r *Renderer) project(cmd *RenderCommand) Quad {
	x0, y0 := r.surface.ToNDC(cmd.X, cmd.Y)
	x1, y1 := r.surface.ToNDC(cmd.X+cmd.W, cmd.Y+cmd.H)
	return Quad{
		X0: x0, Y0: y0, X1: x1, Y1: y1,
		U0: cmd.U0, V0: cmd.V0, U1: cmd.U1, V1: cmd.V1,
		Color: cmd.Color,
	}
}
