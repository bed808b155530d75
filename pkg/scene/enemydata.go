package scene

import "go.uber.org/zap"

// Offsets inside an enemy data block.
const (
	enemyStats      = 32  // 8 core stats
	enemyElements   = 40  // 8 element types, then 8 element rates
	enemyAnimations = 56  // 16 animation indices
	enemyAttackIDs  = 72  // 16 attack IDs, one per animation index
	enemyCameraIDs  = 104 // 16 camera override IDs
	enemyItems      = 136 // 4 rates, then 4 item IDs
	enemyHP         = 164 // HP, EXP, Gil, 4 bytes each
)

const (
	// elementTypeCount is the number of distinct element type values an
	// enemy can be given (0x00-0x10).
	elementTypeCount = 17

	// Item IDs in (reservedItemLo, reservedItemHi) are empty slots in the item
	// table and are never drawn.
	itemIDCount    = 320
	reservedItemLo = 104
	reservedItemHi = 128
	maxItemDraws   = 64

	maxDropRate  = 63
	maxStealRate = 127
	stealRateBit = 64

	mpLowCount  = 11
	mpHighCount = 184
	backAttackM = 33
)

// Fixed resource values for boss records.
var (
	bossMP = [2]byte{11, 184}
	bossAP = [2]byte{0, 4}
)

// enemyData walks the three 184-byte enemy blocks. Absent enemies, whose
// block starts with a sentinel, are left alone.
func (st *recordState) enemyData(c *Cursor) error {
	if st.attackTypes == nil {
		st.attackTypes = buildAttackTypeIndex(st.rec)
	}

	for e := 0; e < EnemyCount; e++ {
		b := c.Block(EnemySize)
		if b.Peek(0) == Sentinel {
			b.Skip(EnemySize)
			continue
		}
		st.enemy(b, e)
		if err := b.Done(); err != nil {
			return err
		}
	}
	return nil
}

// enemy rewrites one enemy block field group by field group.
func (st *recordState) enemy(b *Cursor, e int) {
	opts := st.t.opts.Enemies
	pol := st.t.policy

	if opts.RandomNames {
		st.enemyName(b)
	} else {
		b.Skip(NameSize)
	}

	if opts.RandomStats {
		st.rollStats(b)
	} else {
		b.Skip(statCount)
	}
	rescaleStats(b, pol.Rescale)

	if opts.RandomElements {
		st.enemyElements(b)
	} else {
		b.Skip(16)
	}

	if st.t.opts.Models.Swap {
		st.resolveAnimations(b, e)
	} else {
		b.Skip(EnemyAttacks)
	}

	b.Skip(EnemyAttacks * 2 * 2) // attack IDs, camera overrides

	st.items(b)

	b.Skip(6) // manipulate/berserk attack IDs
	b.Skip(2) // unknown

	st.mp(b)
	st.ap(b)
	st.morph(b)

	if opts.RandomStats {
		b.PutByte(byte(st.rnd.Range(0, backAttackM)))
	} else {
		b.Skip(1)
	}
	b.Skip(1) // alignment

	st.hp(b)
	st.expOrGil(b, pol.EXP)
	st.expOrGil(b, pol.Gil)

	if opts.RandomImmunities {
		st.immunities(b)
	} else {
		b.Skip(4)
	}

	b.Skip(4) // padding
}

// enemyElements gives the enemy two element types and two element rates.
// The remaining slots of each group are emptied.
func (st *recordState) enemyElements(b *Cursor) {
	b.PutByte(byte(st.rnd.Intn(elementTypeCount)))
	b.PutByte(byte(st.rnd.Intn(elementTypeCount)))
	b.Fill(Sentinel, 6)

	b.PutByte(byte(st.rnd.Range(1, 7)))
	b.PutByte(byte(st.rnd.Range(1, 7)))
	b.Fill(Sentinel, 6)
}

// drawItemID draws an item ID outside the reserved range. ok is false when
// every draw landed in it.
func (st *recordState) drawItemID() (id uint16, ok bool) {
	for i := 0; i < maxItemDraws; i++ {
		v := st.rnd.Intn(itemIDCount)
		if v > reservedItemLo && v < reservedItemHi {
			continue
		}
		return uint16(v), true
	}
	st.t.log.Debug("no item drawn outside reserved range",
		zap.Int("record", st.scene),
		zap.Int("draws", maxItemDraws))
	return 0, false
}

func (st *recordState) putItemID(b *Cursor) {
	if id, ok := st.drawItemID(); ok {
		b.PutUint16(id)
	} else {
		b.Skip(2)
	}
}

// items handles the 4 drop/steal rates and the 4 item IDs. Rates below 64
// are drop chances, the rest steal chances.
func (st *recordState) items(b *Cursor) {
	switch st.t.policy.Items {
	case ItemsRandom:
		b.PutByte(byte(st.rnd.Range(8, maxDropRate)))
		b.PutByte(byte(st.rnd.Range(88, maxStealRate)))
		b.Fill(Sentinel, 2)
		st.putItemID(b)
		st.putItemID(b)
		b.Skip(4)

	case ItemsMaxRates:
		for i := 0; i < 4; i++ {
			switch rate := b.Peek(0); {
			case rate == Sentinel:
				b.Skip(1)
			case rate < stealRateBit:
				b.PutByte(maxDropRate)
			default:
				b.PutByte(maxStealRate)
			}
		}
		b.Skip(8)

	case ItemsNone:
		b.Fill(Sentinel, 12)

	default:
		b.Skip(12)
	}
}

func (st *recordState) mp(b *Cursor) {
	switch st.t.policy.MP {
	case ResourceZero:
		b.PutUint16(0)
	case ResourceRandom:
		if st.boss {
			b.Write(bossMP[:])
		} else {
			b.PutByte(byte(st.rnd.Intn(mpLowCount)))
			b.PutByte(byte(st.rnd.Intn(mpHighCount)))
		}
	default:
		b.Skip(2)
	}
}

func (st *recordState) ap(b *Cursor) {
	switch st.t.policy.AP {
	case ResourceZero:
		b.PutUint16(0)
	case ResourcePoverty:
		b.Skip(1)
		b.PutByte(0)
	case ResourceRandom:
		if st.boss {
			b.Write(bossAP[:])
		} else {
			b.PutByte(byte(st.rnd.Intn(st.apRange())))
			b.PutByte(0)
		}
	default:
		b.Skip(2)
	}
}

func (st *recordState) morph(b *Cursor) {
	switch st.t.policy.Morph {
	case ItemsRandom:
		st.putItemID(b)
	case ItemsNone:
		b.PutUint16(Sentinel16)
	default:
		b.Skip(2)
	}
}

func (st *recordState) hp(b *Cursor) {
	if st.t.policy.HP != ResourceRandom {
		b.Skip(4)
		return
	}
	high := st.hpHigh()
	if st.boss {
		high += 2
	}
	b.PutByte(byte(st.rnd.Intn(256)))
	b.PutByte(byte(clamp(high, 0, 255)))
	b.PutUint16(0)
}

// expOrGil writes a 4-byte EXP or Gil value. Both share their rules.
func (st *recordState) expOrGil(b *Cursor, mode ResourceMode) {
	switch mode {
	case ResourceZero:
		b.Fill(0, 4)
	case ResourcePoverty:
		b.Skip(1)
		b.Fill(0, 3)
	case ResourceRandom:
		b.PutByte(byte(st.rnd.Intn(256)))
		if st.boss {
			b.PutByte(byte(clamp(st.expHigh(), 0, 255)))
		} else {
			b.PutByte(byte(st.rnd.Intn(2)))
		}
		b.PutUint16(0)
	default:
		b.Skip(4)
	}
}

// Scene-scaled bounds for the resource draws.
func (st *recordState) hpHigh() int  { return st.scene/16 + 1 }
func (st *recordState) expHigh() int { return st.scene/32 + 1 }
func (st *recordState) apRange() int { return st.scene/8 + 2 }

// immunities grants immunity to a single status. Bosses never become
// immune to death, near-death, manipulate or berserk.
func (st *recordState) immunities(b *Cursor) {
	var mask [4]byte
	slot := st.rnd.Intn(4)

	var bit int
	if st.boss {
		switch slot {
		case 0:
			bit = st.rnd.Range(2, 8)
		case 1:
			bit = st.rnd.Intn(8)
		case 2:
			bit = st.rnd.Range(0, 6)
		default:
			bit = st.rnd.Range(1, 3)
		}
	} else {
		bit = st.rnd.Intn(8)
	}

	mask[slot] = 1 << bit
	b.Write(mask[:])
}
