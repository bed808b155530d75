package scene

// Stat order inside the 8-byte core stat group.
const (
	statLevel = iota
	statSpeed
	statLuck
	statEvade
	statStrength
	statDefence
	statMagic
	statMagicDefence
	statCount
)

// worldMapScenes is the number of leading scenes holding world map encounters.
const worldMapScenes = 74

// span is a half-open draw range clamped into the byte domain.
type span struct{ lo, hi int }

func newSpan(lo, hi int) span {
	return span{lo: clamp(lo, 0, 255), hi: clamp(hi, 0, 256)}
}

func (s span) draw(rnd Random) byte {
	return byte(rnd.Range(s.lo, s.hi))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// statSpans returns the draw ranges for the 8 core stats of an enemy in the
// given scene. World map scenes scale from the scene ID with a random
// spread; later scenes use fixed offsets from it, wider for bosses.
func statSpans(scene int, boss bool, rnd Random) [statCount]span {
	var s [statCount]span

	switch {
	case scene < worldMapScenes:
		hi := scene + rnd.Range(15, 25)
		lo := scene / rnd.Range(1, 4)
		core := newSpan(lo, hi)
		s[statLevel] = core
		s[statSpeed] = newSpan(lo, 128)
		s[statLuck] = newSpan(0, lo)
		s[statEvade] = newSpan(0, lo)
		s[statStrength] = core
		s[statDefence] = core
		s[statMagic] = core
		s[statMagicDefence] = core

	case boss:
		def := newSpan(scene-70, scene-60)
		s[statLevel] = newSpan(scene-75, scene-60)
		s[statSpeed] = newSpan(48, 127)
		s[statLuck] = newSpan(0, 32)
		s[statEvade] = newSpan(0, 16)
		s[statStrength] = newSpan(scene-45, scene-30)
		s[statDefence] = def
		s[statMagic] = newSpan(scene-70+scene/12, scene-60+scene/8)
		s[statMagicDefence] = def

	default:
		def := newSpan(scene-70, scene-65)
		s[statLevel] = newSpan(scene-75, scene-70)
		s[statSpeed] = newSpan(24, 127)
		s[statLuck] = newSpan(0, 32)
		s[statEvade] = newSpan(0, 16)
		s[statStrength] = newSpan(scene-70, scene-60)
		s[statDefence] = def
		s[statMagic] = newSpan(scene-70+scene/16, scene-60+scene/12)
		s[statMagicDefence] = def
	}
	return s
}

// rollStats writes 8 freshly drawn stats.
func (st *recordState) rollStats(b *Cursor) {
	spans := statSpans(st.scene, st.boss, st.rnd)
	for _, s := range spans {
		b.PutByte(s.draw(st.rnd))
	}
}

// scale is one stat's rescale rule: values above ceil pin to 255, the rest
// become v*mul/div + add.
type scale struct {
	ceil     int
	mul, div int
	add      int
}

func (s scale) apply(v byte) byte {
	if int(v) > s.ceil {
		return 255
	}
	return byte(clamp(int(v)*s.mul/s.div+s.add, 0, 255))
}

var (
	strongerScales = [statCount]scale{
		statLevel:        {ceil: 212, mul: 6, div: 5},
		statSpeed:        {ceil: 225, mul: 1, div: 1, add: 30},
		statLuck:         {ceil: 225, mul: 1, div: 1, add: 30},
		statEvade:        {ceil: 245, mul: 1, div: 1, add: 10},
		statStrength:     {ceil: 230, mul: 1, div: 1, add: 25},
		statDefence:      {ceil: 225, mul: 1, div: 1, add: 30},
		statMagic:        {ceil: 212, mul: 6, div: 5},
		statMagicDefence: {ceil: 212, mul: 6, div: 5},
	}
	weakerScales = [statCount]scale{
		statLevel:        {ceil: 255, mul: 3, div: 4},
		statSpeed:        {ceil: 255, mul: 1, div: 2},
		statLuck:         {ceil: 255, mul: 0, div: 1},
		statEvade:        {ceil: 255, mul: 0, div: 1},
		statStrength:     {ceil: 255, mul: 3, div: 4},
		statDefence:      {ceil: 255, mul: 1, div: 4},
		statMagic:        {ceil: 255, mul: 3, div: 4},
		statMagicDefence: {ceil: 255, mul: 1, div: 4},
	}
)

// rescaleStats re-reads the 8 stats just behind the cursor and rewrites
// them with the scale table of mode.
func rescaleStats(b *Cursor, mode RescaleMode) {
	var table *[statCount]scale
	switch mode {
	case RescaleStronger:
		table = &strongerScales
	case RescaleWeaker:
		table = &weakerScales
	default:
		return
	}

	b.Rewind(statCount)
	for _, s := range table {
		v := b.Peek(0)
		b.PutByte(s.apply(v))
	}
}
