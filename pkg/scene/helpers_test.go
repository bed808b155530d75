package scene

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/godo/pkg/catalog"
	"github.com/Faultbox/godo/pkg/encoding"
)

// Fixture models. Both sit outside the boss and anim groups and have
// animations in testCatalog.
const (
	modelA uint16 = 400
	modelB uint16 = 401

	excludedScene = 7
)

var le = binary.LittleEndian

// testCatalog knows animations for models 400-439.
func testCatalog(t *testing.T) *catalog.Static {
	t.Helper()
	f := catalog.File{
		ExcludedScenes: []int{excludedScene},
		Models:         make(map[uint16]catalog.Animations),
	}
	for id := uint16(400); id < 440; id++ {
		f.Models[id] = catalog.Animations{
			Physical: []int{0, 21, 22},
			Magic:    []int{31},
			Misc:     []int{0, 41},
		}
	}
	c, err := catalog.New(f)
	require.NoError(t, err)
	return c
}

func newTestTransformer(t *testing.T, opts Options) *Transformer {
	t.Helper()
	tr, err := NewTransformer(Config{
		Options: opts,
		Catalog: testCatalog(t),
		Camera:  testCamera(),
	})
	require.NoError(t, err)
	return tr
}

func testCamera() []byte {
	cam := make([]byte, cameraIdleSize)
	for i := range cam {
		cam[i] = byte(0xC0 + i)
	}
	return cam
}

// allOptions enables every toggle. Competing toggles resolve to the
// higher-priority mode.
func allOptions() Options {
	return OptionsFromFlags(trueFlags())
}

func trueFlags() []bool {
	flags := make([]bool, FlagCount)
	for i := range flags {
		flags[i] = true
	}
	return flags
}

// testRecord builds a record with two enemies (modelA, modelB), two
// formations and four used attacks. Everything else is sentinel, except
// the AI sections which carry a byte pattern.
func testRecord() Record {
	rec := make(Record, RecordSize)
	for i := range rec {
		rec[i] = Sentinel
	}

	for _, id := range []SectionID{FormationAIOffsets, FormationAI, EnemyAIOffsets, EnemyAI} {
		s := rec.Section(id)
		for i := range s {
			s[i] = byte(i * 7)
		}
	}

	putSlots(rec, modelA, modelB, Sentinel16)

	setup := rec.Section(BattleSetup)
	camera := rec.Section(CameraPlacement)
	for f := 0; f < 2; f++ {
		h := setup[f*SetupSize : (f+1)*SetupSize]
		for i := range h {
			h[i] = 0
		}
		h[0] = byte(10 + f)
		le.PutUint16(h[4:], 1)
		h[19] = byte(f)

		cam := camera[f*CameraSize : (f+1)*CameraSize]
		for i := range cam {
			cam[i] = byte(i)
		}
	}

	putPlacement(rec, 0, 0, modelA)
	putPlacement(rec, 0, 1, modelB)
	putPlacement(rec, 0, 2, modelA)
	putPlacement(rec, 1, 0, modelB)

	putEnemy(rec, 0, "Guard")
	putEnemy(rec, 1, "Hound")

	for i := 0; i < 4; i++ {
		putAttack(rec, i, uint16(0x10+i), i%2 == 0)
	}
	return rec
}

func putSlots(rec Record, a, b, c uint16) {
	s := rec.Section(EnemySlots)
	le.PutUint16(s[0:], a)
	le.PutUint16(s[2:], b)
	le.PutUint16(s[4:], c)
	le.PutUint16(s[6:], Sentinel16)
}

func placementOffset(f, s int) int {
	return (f*PlacementSlots + s) * PlacementSize
}

func putPlacement(rec Record, f, s int, model uint16) {
	p := rec.Section(BattleFormation)[placementOffset(f, s):]
	le.PutUint16(p[0:], model)
	for i := 2; i < 12; i++ {
		p[i] = 0x10
	}
	for i := 12; i < PlacementSize; i++ {
		p[i] = 0
	}
}

func placementModel(rec Record, f, s int) uint16 {
	return le.Uint16(rec.Section(BattleFormation)[placementOffset(f, s):])
}

func enemyBlock(rec Record, e int) []byte {
	return rec.Section(EnemyData)[e*EnemySize : (e+1)*EnemySize]
}

func putEnemy(rec Record, e int, name string) {
	b := enemyBlock(rec, e)
	copy(b, encoding.FixedString(encoding.FromASCII(name), NameSize, Sentinel))
	copy(b[enemyStats:], []byte{10, 20, 30, 40, 50, 60, 70, 80})
	for i := 0; i < EnemyAttacks; i++ {
		b[enemyAnimations+i] = byte(i + 1)
	}
	for i := 0; i < 4; i++ {
		le.PutUint16(b[enemyAttackIDs+i*2:], uint16(0x10+i))
	}
	copy(b[enemyItems:], []byte{20, 90, Sentinel, Sentinel, 1, 0, 2, 0})
	// MP, AP, then the back attack multiplier after the morph item.
	copy(b[156:], []byte{50, 0, 5, 0})
	b[162] = 8
	le.PutUint32(b[enemyHP:], 0x0100)
	le.PutUint32(b[enemyHP+4:], 40)
	le.PutUint32(b[enemyHP+8:], 30)
	le.PutUint32(b[176:], 0)
}

func attackBlock(rec Record, i int) []byte {
	return rec.Section(AttackData)[i*AttackSize : (i+1)*AttackSize]
}

func putAttack(rec Record, i int, id uint16, physical bool) {
	b := attackBlock(rec, i)
	for j := range b {
		b[j] = 0
	}
	b[0] = 100
	b[attackImpactEffect] = Sentinel
	b[attackSpellEffect] = Sentinel
	if physical {
		b[attackImpactEffect] = 5
	} else {
		b[attackSpellEffect] = 0x20
	}
	b[3] = Sentinel
	le.PutUint16(b[attackCastingCost:], 10)
	b[attackStatusChange] = Sentinel
	b[attackElements] = Sentinel
	b[attackElements+1] = Sentinel

	le.PutUint16(rec.Section(AttackIDs)[i*2:], id)

	name := rec.Section(AttackNames)[i*NameSize : (i+1)*NameSize]
	copy(name, encoding.FixedString(encoding.FromASCII("Bite"), NameSize, 0))
}

// countingRand counts draws made through it.
type countingRand struct {
	Random
	draws int
}

func (c *countingRand) Intn(n int) int {
	c.draws++
	return c.Random.Intn(n)
}

func (c *countingRand) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + c.Intn(hi-lo)
}

// panicCatalog wraps a catalog and panics on the configured lookups.
// Set scene to -1 to disable the scene panic.
type panicCatalog struct {
	catalog.Catalog
	scene      int
	animations bool
}

func (p *panicCatalog) IsExcludedScene(scene int) bool {
	if scene == p.scene {
		panic("scene lookup failed")
	}
	return p.Catalog.IsExcludedScene(scene)
}

func (p *panicCatalog) AttackAnimationsFor(id uint16) (catalog.Animations, bool) {
	if p.animations {
		panic("animation table corrupt")
	}
	return p.Catalog.AttackAnimationsFor(id)
}
