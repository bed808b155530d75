package scene

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/godo/pkg/catalog"
	"github.com/Faultbox/godo/pkg/rng"
)

const testScene = 100

func clone(rec Record) Record {
	return append(Record(nil), rec...)
}

func TestNewTransformerValidation(t *testing.T) {
	_, err := NewTransformer(Config{})
	assert.ErrorIs(t, err, ErrNoCatalog)

	_, err = NewTransformer(Config{
		Options: Options{Battle: BattleOptions{RandomCamera: true}},
		Catalog: testCatalog(t),
		Camera:  make([]byte, cameraIdleSize-1),
	})
	assert.ErrorIs(t, err, ErrCameraData)

	tr, err := NewTransformer(Config{Catalog: testCatalog(t)})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxModelDraws, tr.maxDraws)
	assert.NotNil(t, tr.log)
}

func TestTransformWithoutOptionsIsIdentity(t *testing.T) {
	rec := testRecord()
	want := clone(rec)

	tr := newTestTransformer(t, Options{})
	res, err := tr.Transform(rec, testScene, []byte{1, 2, 3, 4}, rng.New(1))
	require.NoError(t, err)

	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("record changed with every option off (-want +got):\n%s", diff)
	}
	assert.Equal(t, [3]uint16{modelA, modelB, Sentinel16}, res.Identity.Original)
	assert.Equal(t, res.Identity.Original, res.Identity.Chosen)
	assert.False(t, res.Boss)
}

func TestTransformPassThroughSections(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rec := testRecord()
		want := clone(rec)

		tr := newTestTransformer(t, allOptions())
		_, err := tr.Transform(rec, testScene, []byte{1, 2, 3, 4}, rng.New(seed))
		require.NoError(t, err)
		require.Len(t, rec, RecordSize)

		for _, id := range []SectionID{AttackIDs, FormationAIOffsets, FormationAI, EnemyAIOffsets, EnemyAI} {
			assert.True(t, bytes.Equal(want.Section(id), rec.Section(id)), "seed %d: %s changed", seed, id)
		}
	}
}

func TestTransformWrongRecordSize(t *testing.T) {
	tr := newTestTransformer(t, Options{})
	_, err := tr.Transform(make(Record, RecordSize-1), 3, nil, rng.New(1))

	var se *SectionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Record)
	assert.ErrorIs(t, err, ErrRecordSize)
}

func TestBossModelDrawsFromBossSet(t *testing.T) {
	seen := make(map[uint16]bool)
	for seed := int64(0); seed < 300; seed++ {
		rec := testRecord()
		putSlots(rec, 10, Sentinel16, Sentinel16)

		tr := newTestTransformer(t, Options{Models: ModelOptions{Swap: true}})
		res, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		got := le.Uint16(rec.Section(EnemySlots))
		require.Contains(t, catalog.BossSet, got, "seed %d", seed)
		assert.True(t, res.Boss)
		seen[got] = true
	}
	for _, id := range catalog.BossSet {
		assert.True(t, seen[id], "boss model %d was never drawn", id)
	}
}

func TestAnimGroupModelDrawsFromAnimSet(t *testing.T) {
	seen := make(map[uint16]bool)
	for seed := int64(0); seed < 400; seed++ {
		rec := testRecord()
		putSlots(rec, 86, Sentinel16, Sentinel16)

		tr := newTestTransformer(t, Options{Models: ModelOptions{Swap: true}})
		_, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		got := le.Uint16(rec.Section(EnemySlots))
		require.Contains(t, catalog.AnimSet, got)
		seen[got] = true
	}
	assert.Len(t, seen, len(catalog.AnimSet))
}

func TestPlainModelSwap(t *testing.T) {
	cat := testCatalog(t)
	for seed := int64(0); seed < 50; seed++ {
		rec := testRecord()
		tr := newTestTransformer(t, Options{Models: ModelOptions{Swap: true}})
		res, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		for slot := 0; slot < 2; slot++ {
			id := res.Identity.Chosen[slot]
			_, known := cat.AttackAnimationsFor(id)
			assert.True(t, known, "seed %d slot %d: model %d has no animations", seed, slot, id)
			assert.False(t, cat.IsBossGroup(id) || cat.IsAnimGroup(id))
			assert.Equal(t, id, le.Uint16(rec.Section(EnemySlots)[slot*2:]))
		}
		assert.Equal(t, Sentinel16, res.Identity.Chosen[2])
		assert.Equal(t, Sentinel16, le.Uint16(rec.Section(EnemySlots)[4:]))
	}
}

func TestExcludedModelIsKept(t *testing.T) {
	f := catalog.File{ExcludedModels: []uint16{modelA}, Models: map[uint16]catalog.Animations{
		modelA: {Physical: []int{1}}, modelB: {Physical: []int{1}}, 402: {Physical: []int{1}},
	}}
	cat, err := catalog.New(f)
	require.NoError(t, err)

	tr, err := NewTransformer(Config{Options: Options{Models: ModelOptions{Swap: true}}, Catalog: cat})
	require.NoError(t, err)

	rec := testRecord()
	res, err := tr.Transform(rec, testScene, nil, rng.New(9))
	require.NoError(t, err)
	assert.Equal(t, modelA, res.Identity.Chosen[0])
	assert.Contains(t, []uint16{modelB, 402}, res.Identity.Chosen[1])
}

func TestModelSamplerCapKeepsOriginal(t *testing.T) {
	cat, err := catalog.New(catalog.File{})
	require.NoError(t, err)

	tr, err := NewTransformer(Config{
		Options:       Options{Models: ModelOptions{Swap: true}},
		Catalog:       cat,
		MaxModelDraws: 10,
	})
	require.NoError(t, err)

	rec := testRecord()
	rnd := &countingRand{Random: rng.New(3)}
	res, err := tr.Transform(rec, testScene, nil, rnd)
	require.NoError(t, err)

	assert.Equal(t, modelA, res.Identity.Chosen[0])
	assert.Equal(t, modelB, res.Identity.Chosen[1])
	// one template draw, then the capped sampler for each of the two enemies
	assert.Equal(t, 1+10+10, rnd.draws)
}

func TestExcludedSceneKeepsModelsAndFormations(t *testing.T) {
	rec := testRecord()
	want := clone(rec)

	opts := Options{Models: ModelOptions{Swap: true, Swarm: true}}
	tr := newTestTransformer(t, opts)
	res, err := tr.Transform(rec, excludedScene, nil, rng.New(5))
	require.NoError(t, err)

	assert.False(t, res.Identity.Swapped())
	assert.Equal(t, want.Section(EnemySlots), rec.Section(EnemySlots))
	assert.Equal(t, want.Section(BattleFormation), rec.Section(BattleFormation))
}

func TestFormationReferentialConsistency(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rec := testRecord()
		want := clone(rec)

		tr := newTestTransformer(t, Options{Models: ModelOptions{Swap: true}})
		res, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)
		require.Empty(t, res.Inconsistencies)

		a, b := res.Identity.Chosen[0], res.Identity.Chosen[1]
		assert.Equal(t, a, placementModel(rec, 0, 0))
		assert.Equal(t, b, placementModel(rec, 0, 1))
		assert.Equal(t, a, placementModel(rec, 0, 2))
		assert.Equal(t, b, placementModel(rec, 1, 0))

		// geometry and conditions are untouched without swarm
		for _, p := range [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}} {
			off := placementOffset(p[0], p[1])
			got := rec.Section(BattleFormation)[off+2 : off+PlacementSize]
			assert.Equal(t, want.Section(BattleFormation)[off+2:off+PlacementSize], got)
		}
		// empty slots stay empty
		assert.Equal(t, Sentinel16, placementModel(rec, 1, 1))
	}
}

func TestInconsistentPlacementIsReported(t *testing.T) {
	rec := testRecord()
	putPlacement(rec, 1, 1, 555)

	tr := newTestTransformer(t, Options{Models: ModelOptions{Swap: true}})
	res, err := tr.Transform(rec, testScene, nil, rng.New(2))
	require.NoError(t, err)

	require.Len(t, res.Inconsistencies, 1)
	assert.Equal(t, Inconsistency{Record: testScene, Formation: 1, Slot: 1, Model: 555}, res.Inconsistencies[0])
	assert.Equal(t, uint16(555), placementModel(rec, 1, 1))
	assert.Contains(t, res.Inconsistencies[0].String(), "model 555")
}

func templateGeometry(slot int) [][]byte {
	var out [][]byte
	for _, tmpl := range templates {
		out = append(out, tmpl.Bytes()[slot*placementGeomSize:(slot+1)*placementGeomSize])
	}
	return out
}

func TestSwarmFillsEmptySlots(t *testing.T) {
	rec := testRecord()
	putPlacement(rec, 1, 1, 555)

	tr := newTestTransformer(t, Options{Models: ModelOptions{Swap: true, Swarm: true}})
	res, err := tr.Transform(rec, testScene, nil, rng.New(4))
	require.NoError(t, err)
	assert.Empty(t, res.Inconsistencies)

	lead := res.Identity.Lead()
	assert.Equal(t, lead, placementModel(rec, 1, 1), "unknown model becomes the lead")
	assert.Equal(t, res.Identity.Chosen[1], placementModel(rec, 0, 1))

	section := rec.Section(BattleFormation)
	for f := 0; f < FormationCount; f++ {
		for s := 0; s < PlacementSlots; s++ {
			off := placementOffset(f, s)
			assert.NotEqual(t, Sentinel16, placementModel(rec, f, s), "formation %d slot %d left empty", f, s)
			assert.Contains(t, templateGeometry(s), section[off+2:off+12])
		}
	}

	// all slots of one record share a template
	first := section[2:12]
	idx := slices.IndexFunc(templateGeometry(0), func(g []byte) bool { return bytes.Equal(g, first) })
	require.GreaterOrEqual(t, idx, 0)
	for s := 0; s < PlacementSlots; s++ {
		off := placementOffset(3, s)
		assert.Equal(t, templateGeometry(s)[idx], section[off+2:off+12])
	}
}

func TestSwarmLeavesBossRecordsEmptySlots(t *testing.T) {
	rec := testRecord()
	putSlots(rec, 10, modelB, Sentinel16)
	putPlacement(rec, 0, 0, 10)
	putPlacement(rec, 0, 2, 10)

	tr := newTestTransformer(t, Options{Models: ModelOptions{Swap: true, Swarm: true}})
	res, err := tr.Transform(rec, testScene, nil, rng.New(4))
	require.NoError(t, err)
	require.True(t, res.Boss)

	empty := bytes.Repeat([]byte{Sentinel}, PlacementSize)
	off := placementOffset(2, 0)
	assert.Equal(t, empty, []byte(rec.Section(BattleFormation)[off:off+PlacementSize]))
	assert.Equal(t, res.Identity.Chosen[0], placementModel(rec, 0, 2))
}

func TestAbsentEnemyIsUntouched(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rec := testRecord()
		// slot C references a model, but its data block is absent
		putSlots(rec, modelA, modelB, 402)
		want := clone(rec)

		tr := newTestTransformer(t, allOptions())
		_, err := tr.Transform(rec, testScene, []byte{1, 2, 3, 4}, rng.New(seed))
		require.NoError(t, err)
		assert.Equal(t, enemyBlock(want, 2), enemyBlock(rec, 2))
	}
}

func TestUnusedAttackIsUntouched(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rec := testRecord()
		putAttack(rec, 4, 0x20, true)
		le.PutUint16(attackBlock(rec, 4)[attackCastingCost:], Sentinel16)
		want := clone(rec)

		tr := newTestTransformer(t, allOptions())
		_, err := tr.Transform(rec, testScene, []byte{1, 2, 3, 4}, rng.New(seed))
		require.NoError(t, err)

		for i := 4; i < AttackCount; i++ {
			assert.Equal(t, attackBlock(want, i), attackBlock(rec, i), "seed %d attack %d", seed, i)
		}
	}
}

func TestBattleSetupAndCamera(t *testing.T) {
	rec := testRecord()
	want := clone(rec)

	opts := Options{Battle: BattleOptions{RandomBackground: true, NoEscape: true, RandomCamera: true}}
	tr := newTestTransformer(t, opts)
	_, err := tr.Transform(rec, testScene, []byte{7, 8, 9, 10}, rng.New(11))
	require.NoError(t, err)

	setup := rec.Section(BattleSetup)
	for f := 0; f < 2; f++ {
		h := setup[f*SetupSize:]
		assert.Less(t, int(h[0]), BackgroundCount)
		assert.Equal(t, byte(0), h[1])
		assert.Equal(t, Unescapable, le.Uint16(h[4:]))
		assert.Equal(t, byte(7+f), h[19])
		assert.Equal(t, want.Section(BattleSetup)[f*SetupSize+6:f*SetupSize+19], h[6:19])
	}
	assert.Equal(t, want.Section(BattleSetup)[2*SetupSize:], setup[2*SetupSize:], "empty formations changed")

	camera := rec.Section(CameraPlacement)
	for f := 0; f < 2; f++ {
		block := camera[f*CameraSize : (f+1)*CameraSize]
		assert.Equal(t, testCamera(), []byte(block[:cameraIdleSize]))
		assert.Equal(t, want.Section(CameraPlacement)[f*CameraSize+cameraIdleSize:(f+1)*CameraSize], block[cameraIdleSize:])
	}
	assert.Equal(t, want.Section(CameraPlacement)[2*CameraSize:], camera[2*CameraSize:])
}

func TestShortInitialCameraKeepsMissingFormations(t *testing.T) {
	rec := testRecord()

	tr := newTestTransformer(t, Options{Battle: BattleOptions{RandomCamera: true}})
	_, err := tr.Transform(rec, testScene, []byte{7}, rng.New(11))
	require.NoError(t, err)

	setup := rec.Section(BattleSetup)
	assert.Equal(t, byte(7), setup[19])
	assert.Equal(t, byte(1), setup[SetupSize+19])
}

func TestEnemyNames(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		rec := testRecord()
		tr := newTestTransformer(t, Options{Enemies: EnemyOptions{RandomNames: true}})
		_, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		for e := 0; e < 2; e++ {
			name := enemyBlock(rec, e)[:NameSize]
			n := bytes.IndexByte(name, Sentinel)
			require.Contains(t, []int{shortName, longName}, n, "seed %d: name % X", seed, name)
			assert.Equal(t, bytes.Repeat([]byte{Sentinel}, NameSize-n), []byte(name[n:]))
		}
	}
}

func TestAttackNames(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		rec := testRecord()
		want := clone(rec)

		tr := newTestTransformer(t, Options{Attacks: AttackOptions{RandomNames: true}})
		_, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		names := rec.Section(AttackNames)
		for i := 0; i < 4; i++ {
			name := names[i*NameSize : (i+1)*NameSize]
			assert.Equal(t, Sentinel, name[NameSize-1])
			n := bytes.IndexByte(name, 0)
			require.Contains(t, []int{shortName, longName}, n)
			assert.Equal(t, make([]byte, NameSize-1-n), []byte(name[n:NameSize-1]))
		}
		assert.Equal(t, want.Section(AttackNames)[4*NameSize:], names[4*NameSize:])
	}
}

func TestStatRescale(t *testing.T) {
	tests := []struct {
		name string
		opts EnemyOptions
		want []byte
	}{
		{"stronger", EnemyOptions{Stronger: true}, []byte{12, 50, 60, 50, 75, 90, 84, 96}},
		{"weaker", EnemyOptions{Weaker: true}, []byte{7, 10, 0, 0, 37, 15, 52, 20}},
		{"stronger wins", EnemyOptions{Stronger: true, Weaker: true}, []byte{12, 50, 60, 50, 75, 90, 84, 96}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecord()
			tr := newTestTransformer(t, Options{Enemies: tt.opts})
			_, err := tr.Transform(rec, testScene, nil, rng.New(1))
			require.NoError(t, err)

			for e := 0; e < 2; e++ {
				got := enemyBlock(rec, e)[enemyStats : enemyStats+statCount]
				assert.Equal(t, tt.want, []byte(got))
			}
		})
	}
}

func TestRandomStatsStayInTier(t *testing.T) {
	for _, scene := range []int{0, 30, 73, 74, 120, 255} {
		for seed := int64(0); seed < 20; seed++ {
			rec := testRecord()
			tr := newTestTransformer(t, Options{Enemies: EnemyOptions{RandomStats: true}})
			_, err := tr.Transform(rec, scene, nil, rng.New(seed))
			require.NoError(t, err)

			b := enemyBlock(rec, 0)
			if scene >= worldMapScenes {
				assert.GreaterOrEqual(t, int(b[enemyStats+statSpeed]), 24)
				assert.Less(t, int(b[enemyStats+statLuck]), 32)
				assert.Less(t, int(b[enemyStats+statEvade]), 16)
			}
			assert.Less(t, int(b[162]), backAttackM)
		}
	}
}

func TestItemsMaxRates(t *testing.T) {
	rec := testRecord()
	want := clone(rec)

	tr := newTestTransformer(t, Options{Rewards: RewardOptions{MaxDropRates: true}})
	_, err := tr.Transform(rec, testScene, nil, rng.New(1))
	require.NoError(t, err)

	items := enemyBlock(rec, 0)[enemyItems : enemyItems+12]
	assert.Equal(t, []byte{maxDropRate, maxStealRate, Sentinel, Sentinel}, []byte(items[:4]))
	assert.Equal(t, enemyBlock(want, 0)[enemyItems+4:enemyItems+12], items[4:])
}

func TestRandomItemsAvoidReservedRange(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		rec := testRecord()
		tr := newTestTransformer(t, Options{Rewards: RewardOptions{RandomItems: true}})
		_, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		b := enemyBlock(rec, 0)
		assert.GreaterOrEqual(t, int(b[enemyItems]), 8)
		assert.Less(t, int(b[enemyItems]), maxDropRate)
		assert.GreaterOrEqual(t, int(b[enemyItems+1]), 88)
		assert.Less(t, int(b[enemyItems+1]), maxStealRate)

		for _, off := range []int{enemyItems + 4, enemyItems + 6, 160} {
			id := int(le.Uint16(b[off:]))
			assert.Less(t, id, itemIDCount)
			assert.False(t, id > reservedItemLo && id < reservedItemHi, "seed %d: reserved item %d", seed, id)
		}
	}
}

func TestPovertyAndZeroResources(t *testing.T) {
	rec := testRecord()

	opts := Options{Rewards: RewardOptions{Poverty: true, NoMP: true, RandomAP: true, RandomEXP: true}}
	tr := newTestTransformer(t, opts)
	_, err := tr.Transform(rec, testScene, nil, rng.New(1))
	require.NoError(t, err)

	b := enemyBlock(rec, 0)
	assert.Equal(t, bytes.Repeat([]byte{Sentinel}, 12), []byte(b[enemyItems:enemyItems+12]))
	assert.Equal(t, []byte{0, 0}, []byte(b[156:158]), "MP")
	assert.Equal(t, []byte{5, 0}, []byte(b[158:160]), "AP")
	assert.Equal(t, Sentinel16, le.Uint16(b[160:]), "morph")
	assert.Equal(t, uint32(0x0100), le.Uint32(b[enemyHP:]), "HP")
	assert.Equal(t, uint32(40), le.Uint32(b[enemyHP+4:]), "EXP")
	assert.Equal(t, uint32(30), le.Uint32(b[enemyHP+8:]), "Gil")
}

func TestBossResources(t *testing.T) {
	rec := testRecord()
	putSlots(rec, 10, modelB, Sentinel16)

	opts := Options{Rewards: RewardOptions{RandomMP: true, RandomAP: true, RandomHP: true, RandomEXP: true}}
	tr := newTestTransformer(t, opts)
	_, err := tr.Transform(rec, testScene, nil, rng.New(1))
	require.NoError(t, err)

	b := enemyBlock(rec, 0)
	assert.Equal(t, bossMP[:], []byte(b[156:158]))
	assert.Equal(t, bossAP[:], []byte(b[158:160]))
	assert.Equal(t, byte(testScene/16+1+2), b[enemyHP+1])
	assert.Equal(t, byte(testScene/32+1), b[enemyHP+5])
	assert.Equal(t, []byte{0, 0}, []byte(b[enemyHP+2:enemyHP+4]))
}

func TestResolveAnimations(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		rec := testRecord()
		tr := newTestTransformer(t, Options{Models: ModelOptions{Swap: true}})
		_, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		anims := enemyBlock(rec, 0)[enemyAnimations : enemyAnimations+EnemyAttacks]
		// attacks 0x10 and 0x12 are physical, 0x11 and 0x13 magic
		assert.Contains(t, []byte{21, 22}, anims[0])
		assert.Equal(t, byte(31), anims[1])
		assert.Contains(t, []byte{21, 22}, anims[2])
		assert.Equal(t, byte(31), anims[3])
		for i := 4; i < EnemyAttacks; i++ {
			assert.Equal(t, byte(i+1), anims[i], "animation %d without an attack changed", i)
		}
	}
}

func TestDrawAnimationCap(t *testing.T) {
	rnd := &countingRand{Random: rng.New(1)}
	_, ok := drawAnimation([]int{0, 0, 0}, rnd)
	assert.False(t, ok)
	assert.Equal(t, maxAnimationDraws, rnd.draws)

	rnd.draws = 0
	_, ok = drawAnimation(nil, rnd)
	assert.False(t, ok)
	assert.Zero(t, rnd.draws)

	v, ok := drawAnimation([]int{0, 9}, rng.New(1))
	assert.True(t, ok)
	assert.Equal(t, byte(9), v)
}

func TestImmunities(t *testing.T) {
	for _, boss := range []bool{false, true} {
		for seed := int64(0); seed < 200; seed++ {
			rec := testRecord()
			if boss {
				putSlots(rec, 10, modelB, Sentinel16)
			}
			tr := newTestTransformer(t, Options{Enemies: EnemyOptions{RandomImmunities: true}})
			_, err := tr.Transform(rec, testScene, nil, rng.New(seed))
			require.NoError(t, err)

			mask := enemyBlock(rec, 0)[176:180]
			bits := 0
			for _, m := range mask {
				for ; m != 0; m &= m - 1 {
					bits++
				}
			}
			require.Equal(t, 1, bits, "mask % X", mask)
			if boss {
				assert.Zero(t, mask[0]&0x03, "boss immune to death")
				assert.Zero(t, mask[2]&0xC0, "boss immune to manipulate/berserk")
				assert.Zero(t, mask[3]&^0x06, "boss byte 3 outside paralysis/darkness")
			}
		}
	}
}

func TestAttackStatusSafe(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		rec := testRecord()
		tr := newTestTransformer(t, Options{Attacks: AttackOptions{SafeStatus: true, UnsafeStatus: true}})
		_, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			b := attackBlock(rec, i)
			st := b[attackStatuses : attackStatuses+4]
			if b[attackStatusChange] == Sentinel {
				assert.Equal(t, []byte{0, 0, 0, 0}, []byte(st))
				continue
			}
			assert.Less(t, int(b[attackStatusChange]), statusChanceCount)
			assert.Zero(t, st[0]&0x03, "death or near-death")
			assert.Zero(t, st[1]&0xC0, "petrify or regen")
			assert.Zero(t, st[2])
			assert.Zero(t, st[3]&^statusDarkness)
		}
	}
}

func TestAttackStatusUnsafeNeverDualDrain(t *testing.T) {
	dual := false
	for seed := int64(0); seed < 300; seed++ {
		rec := testRecord()
		tr := newTestTransformer(t, Options{Attacks: AttackOptions{UnsafeStatus: true}})
		_, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			st := attackBlock(rec, i)[attackStatuses : attackStatuses+4]
			assert.Zero(t, st[3]&(1<<statusDualDrain), "seed %d: dual-drain set", seed)
			assert.Zero(t, st[1]&0x80, "regen")
			dual = dual || st[2] == statusDual
		}
	}
	assert.True(t, dual, "dual-drain draws should land on dual")
}

func TestAttackStatsAndElements(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rec := testRecord()
		want := clone(rec)
		tr := newTestTransformer(t, Options{Attacks: AttackOptions{RandomStats: true, RandomElements: true}})
		_, err := tr.Transform(rec, testScene, nil, rng.New(seed))
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			b, orig := attackBlock(rec, i), attackBlock(want, i)
			assert.GreaterOrEqual(t, int(b[0]), 50)
			assert.Less(t, int(b[0]), 150)
			assert.Equal(t, orig[1:4], b[1:4])
			assert.Equal(t, byte(0), b[attackCastingCost+1])
			assert.Equal(t, orig[6:15], b[6:15])
			assert.Less(t, int(b[15]), 40)
			assert.Equal(t, orig[16:24], b[16:24])
			assert.Equal(t, orig[26:], b[26:])

			el := b[attackElements : attackElements+2]
			switch {
			case el[0] == Sentinel:
				assert.Equal(t, Sentinel, el[1])
			case el[0] == 0:
				assert.NotZero(t, el[1])
				assert.Less(t, int(el[1]), 0x80)
			default:
				assert.Zero(t, el[1])
				assert.Less(t, int(el[0]), 0x80)
			}
		}
	}
}

func TestTransformRecoversPanic(t *testing.T) {
	tests := []struct {
		name    string
		catalog func(t *testing.T) catalog.Catalog
		section string
	}{
		{
			name: "classification",
			catalog: func(t *testing.T) catalog.Catalog {
				return &panicCatalog{Catalog: testCatalog(t), scene: testScene}
			},
			section: "EnemySlots",
		},
		{
			name: "animation lookup",
			catalog: func(t *testing.T) catalog.Catalog {
				c, err := catalog.New(catalog.File{ExcludedModels: []uint16{modelA, modelB}})
				require.NoError(t, err)
				return &panicCatalog{Catalog: c, scene: -1, animations: true}
			},
			section: "EnemyData",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransformer(Config{
				Options: Options{Models: ModelOptions{Swap: true}},
				Catalog: tt.catalog(t),
			})
			require.NoError(t, err)

			res, err := tr.Transform(testRecord(), testScene, nil, rng.New(1))
			require.Error(t, err)

			var se *SectionError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, testScene, se.Record)
			assert.Equal(t, tt.section, se.Section)
			assert.ErrorIs(t, err, ErrRecordPanic)
			require.NotNil(t, res)
			assert.Equal(t, testScene, res.Index)
		})
	}
}
