package scene

// Offsets inside a 28-byte attack data block.
const (
	attackStatuses = 20
	attackElements = 24

	statusChanceCount = 64
)

// Status bits by byte, low bit first:
//
//	0  death, near-death, sleep, poison, sadness, fury, confusion, silence
//	1  haste, slow, stop, frog, mini, slow-numb, petrify, regen
//	2  barrier, m-barrier, reflect, dual, shield, d-sentence, manipulate, berserk
//	3  peerless, paralysis, darkness, dual-drain, death force, resist, lucky girl, imprisoned
const (
	statusDual      = 1 << 3 // byte 2
	statusDarkness  = 1 << 2 // byte 3
	statusDualDrain = 3      // bit index in byte 3
)

// attackData randomizes every attack block in use. A block is unused when
// its casting cost word is a sentinel.
func (st *recordState) attackData(c *Cursor) error {
	for i := 0; i < AttackCount; i++ {
		b := c.Block(AttackSize)
		if b.Uint16At(attackCastingCost) == Sentinel16 {
			b.Skip(AttackSize)
			continue
		}
		st.attack(b)
		if err := b.Done(); err != nil {
			return err
		}
	}
	return nil
}

func (st *recordState) attack(b *Cursor) {
	opts := st.t.opts.Attacks

	if opts.RandomStats {
		b.PutByte(byte(st.rnd.Range(50, 150))) // attack %
		b.Skip(3)                               // impact effect, hurt action, unknown
		b.PutByte(byte(st.rnd.Intn(256)))       // casting cost
		b.PutByte(0)
		b.Skip(9) // sound, cameras, target flags, attack effect, damage calc
		b.PutByte(byte(st.rnd.Intn(40))) // base power
		b.Skip(4)                        // condition sub-menu, status change, additional effects
	} else {
		b.Skip(attackStatuses)
	}

	switch st.t.policy.Status {
	case StatusSafe:
		st.safeStatus(b)
	case StatusUnsafe:
		st.unsafeStatus(b)
	default:
		b.Skip(4)
	}

	if opts.RandomElements {
		st.attackElement(b)
	} else {
		b.Skip(2)
	}

	b.Skip(2) // special flags
}

// safeStatus inflicts one status that cannot end or lock up a fight:
// no death, near-death, petrify or regen, and only darkness from the last
// byte. One pick in four removes the status chance instead.
func (st *recordState) safeStatus(b *Cursor) {
	var mask [4]byte
	slot := st.rnd.Intn(4)
	b.SetAt(attackStatusChange, byte(st.rnd.Intn(statusChanceCount)))

	switch slot {
	case 0:
		mask[0] = 1 << st.rnd.Range(2, 8)
	case 1:
		mask[1] = 1 << st.rnd.Range(2, 6)
	case 2:
		b.SetAt(attackStatusChange, Sentinel)
		b.Skip(4)
		return
	default:
		mask[3] = statusDarkness
	}
	b.Write(mask[:])
}

// unsafeStatus inflicts one status from almost the full table. Regen,
// barrier, berserk, peerless and imprisoned are never drawn. Dual-drain is
// not usable by enemies and becomes dual.
func (st *recordState) unsafeStatus(b *Cursor) {
	var mask [4]byte
	slot := st.rnd.Intn(4)
	b.SetAt(attackStatusChange, byte(st.rnd.Intn(statusChanceCount)))

	switch slot {
	case 0:
		mask[0] = 1 << st.rnd.Range(0, 8)
	case 1:
		mask[1] = 1 << st.rnd.Range(0, 7)
	case 2:
		mask[2] = 1 << st.rnd.Range(1, 7)
	default:
		bit := st.rnd.Range(1, 7)
		if bit == statusDualDrain {
			mask[2] = statusDual
		} else {
			mask[3] = 1 << bit
		}
	}
	b.Write(mask[:])
}

// attackElement sets at most one element bit in one of the two element
// bytes. One pick in three clears both.
func (st *recordState) attackElement(b *Cursor) {
	switch st.rnd.Intn(3) {
	case 0:
		b.PutByte(1 << st.rnd.Range(0, 7))
		b.PutByte(0)
	case 1:
		b.PutByte(0)
		b.PutByte(1 << st.rnd.Range(0, 7))
	default:
		b.Fill(Sentinel, 2)
	}
}
