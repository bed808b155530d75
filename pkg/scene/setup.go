package scene

const (
	// BackgroundCount is the number of battle backgrounds; valid IDs are [0, BackgroundCount).
	BackgroundCount = 89

	// Unescapable is the escape counter value that locks the party in.
	Unescapable uint16 = 9
)

// battleSetup rewrites the four 20-byte formation headers:
//
//	0  background ID (2)       10 battle square 2 (2)
//	2  next formation ID (2)   12 battle square 3 (2)
//	4  escape counter (2)      14 battle square 4 (2)
//	6  unused (2)              16 escapable flags (2)
//	8  battle square 1 (2)     18 layout type (1)
//	                           19 initial camera index (1)
func (st *recordState) battleSetup(c *Cursor) error {
	opts := st.t.opts.Battle

	for f := 0; f < FormationCount; f++ {
		b := c.Block(SetupSize)
		if b.Peek(0) == Sentinel {
			b.Skip(SetupSize)
			continue
		}

		if opts.RandomBackground {
			b.PutByte(byte(st.rnd.Intn(BackgroundCount)))
			b.Skip(1)
		} else {
			b.Skip(2)
		}

		b.Skip(2) // next formation

		if opts.NoEscape {
			b.PutUint16(Unescapable)
		} else {
			b.Skip(2)
		}

		b.Skip(2 + 8 + 2 + 1) // unused, battle square, escapable flags, layout

		if opts.RandomCamera && f < len(st.initCam) {
			b.PutByte(st.initCam[f])
		} else {
			b.Skip(1)
		}

		if err := b.Done(); err != nil {
			return err
		}
	}
	return nil
}

// cameraPlacement copies the three idle camera positions of the camera
// buffer into every non-empty formation. The fourth, unused position is
// left alone.
func (st *recordState) cameraPlacement(c *Cursor) error {
	for f := 0; f < FormationCount; f++ {
		b := c.Block(CameraSize)
		if !st.t.opts.Battle.RandomCamera || b.PeekUint16(0) == Sentinel16 {
			b.Skip(CameraSize)
			continue
		}

		b.Write(st.t.camera[:cameraIdleSize])
		b.Skip(CameraSize - cameraIdleSize)

		if err := b.Done(); err != nil {
			return err
		}
	}
	return nil
}
