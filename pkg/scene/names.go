package scene

import "github.com/Faultbox/godo/pkg/encoding"

const (
	consonants = "bcdfghjklmnprstvwz"
	vowels     = "aeiouy"

	shortName = 4
	longName  = 8
)

// generateName returns longName pronounceable ASCII letters, alternating
// consonants and vowels from a random start, first letter upper case.
func generateName(rnd Random) []byte {
	name := make([]byte, longName)
	vowel := rnd.Intn(2) == 1
	for i := range name {
		if vowel {
			name[i] = vowels[rnd.Intn(len(vowels))]
		} else {
			name[i] = consonants[rnd.Intn(len(consonants))]
		}
		vowel = !vowel
	}
	name[0] -= 'a' - 'A'
	return name
}

// drawName generates a name and decides on its length, in that draw order.
func drawName(rnd Random) []byte {
	name := generateName(rnd)
	if rnd.Intn(2) == 1 {
		return name
	}
	return name[:shortName]
}

// enemyName writes a name padded with sentinels.
func (st *recordState) enemyName(b *Cursor) {
	b.Write(encoding.FixedString(encoding.FromASCII(string(drawName(st.rnd))), NameSize, Sentinel))
}

// attackNames renames every used attack. Names are zero padded and end in
// a sentinel at the last byte.
func (st *recordState) attackNames(c *Cursor) error {
	for i := 0; i < AttackCount; i++ {
		b := c.Block(NameSize)
		if !st.t.opts.Attacks.RandomNames || b.Peek(0) == Sentinel {
			b.Skip(NameSize)
			continue
		}
		b.Write(encoding.FixedString(encoding.FromASCII(string(drawName(st.rnd))), NameSize, 0))
	}
	return nil
}
