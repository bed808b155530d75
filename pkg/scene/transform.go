package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/godo/pkg/catalog"
)

// DefaultMaxModelDraws caps the general-case model sampler.
const DefaultMaxModelDraws = 4096

// Random is the draw interface the transform consumes. *rng.Rand implements it.
type Random interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
	// Range returns a value in [lo, hi), or lo when the range is empty.
	Range(lo, hi int) int
}

// Config holds the inputs shared by every record of a run.
type Config struct {
	Options Options
	Catalog catalog.Catalog

	// Camera holds the idle camera positions copied into every non-empty
	// formation when Battle.RandomCamera is set.
	Camera []byte

	// MaxModelDraws caps rejection sampling of a replacement model.
	// Zero means DefaultMaxModelDraws.
	MaxModelDraws int

	// Workers > 1 processes table records concurrently.
	Workers int

	Logger *zap.Logger
}

// Transformer applies the configured randomization to scene records.
// It holds no per-record state and is safe for concurrent use.
type Transformer struct {
	opts     Options
	policy   Policy
	catalog  catalog.Catalog
	camera   []byte
	maxDraws int
	workers  int
	log      *zap.Logger
}

// NewTransformer validates cfg and returns a Transformer.
func NewTransformer(cfg Config) (*Transformer, error) {
	if cfg.Catalog == nil {
		return nil, ErrNoCatalog
	}
	if cfg.Options.Battle.RandomCamera && len(cfg.Camera) < cameraIdleSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrCameraData, len(cfg.Camera), cameraIdleSize)
	}

	t := &Transformer{
		opts:     cfg.Options,
		policy:   cfg.Options.Resolve(),
		catalog:  cfg.Catalog,
		camera:   cfg.Camera,
		maxDraws: cfg.MaxModelDraws,
		workers:  cfg.Workers,
		log:      cfg.Logger,
	}
	if t.maxDraws <= 0 {
		t.maxDraws = DefaultMaxModelDraws
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	return t, nil
}

// Policy returns the resolved option policy.
func (t *Transformer) Policy() Policy {
	return t.policy
}

// RecordResult describes what happened to one record.
type RecordResult struct {
	Index           int
	Identity        IdentityMap
	Boss            bool
	Inconsistencies []Inconsistency
}

// recordState is the scratch state of one record transform.
// It is created per call and never shared between records.
type recordState struct {
	t        *Transformer
	rec      Record
	scene    int
	rnd      Random
	initCam  []byte
	template *Template

	ids         IdentityMap
	boss        bool
	excluded    bool
	attackTypes AttackTypeIndex

	section SectionID
	result  *RecordResult
}

type step struct {
	id SectionID
	fn func(*recordState, *Cursor) error
}

// steps run in record order; each consumes exactly its section.
var steps = [...]step{
	{EnemySlots, (*recordState).enemySlots},
	{BattleSetup, (*recordState).battleSetup},
	{CameraPlacement, (*recordState).cameraPlacement},
	{BattleFormation, (*recordState).battleFormation},
	{EnemyData, (*recordState).enemyData},
	{AttackData, (*recordState).attackData},
	{AttackIDs, passThrough},
	{AttackNames, (*recordState).attackNames},
	{FormationAIOffsets, passThrough},
	{FormationAI, passThrough},
	{EnemyAIOffsets, passThrough},
	{EnemyAI, passThrough},
}

func passThrough(_ *recordState, c *Cursor) error {
	c.Skip(c.Remaining())
	return nil
}

// Transform randomizes one record in place.
//
// index is the record's position in the table, which doubles as its scene
// ID. initCam holds the record's initial camera index per formation and may
// be shorter than FormationCount, in which case the missing formations keep
// their index. On failure the record keeps the bytes written so far and the
// error is a *SectionError naming the section that was running.
func (t *Transformer) Transform(rec Record, index int, initCam []byte, rnd Random) (res *RecordResult, err error) {
	if len(rec) != RecordSize {
		return nil, &SectionError{
			Record:  index,
			Section: EnemySlots.String(),
			Err:     fmt.Errorf("%w: %d bytes", ErrRecordSize, len(rec)),
		}
	}

	st := &recordState{
		t:       t,
		rec:     rec,
		scene:   index,
		rnd:     rnd,
		initCam: initCam,
		ids:     newIdentityMap(),
		result:  &RecordResult{Index: index},
	}

	defer func() {
		if p := recover(); p != nil {
			st.result.Identity = st.ids
			res = st.result
			err = &SectionError{Record: index, Section: st.section.String(), Err: panicError(p)}
		}
	}()

	st.prepare()

	for _, s := range steps {
		st.section = s.id
		c := NewCursor(rec.Section(s.id))
		if err := s.fn(st, c); err != nil {
			return st.result, &SectionError{Record: index, Section: s.id.String(), Err: err}
		}
		if err := c.Done(); err != nil {
			return st.result, &SectionError{Record: index, Section: s.id.String(), Err: err}
		}
	}

	st.result.Identity = st.ids
	st.result.Boss = st.boss
	return st.result, nil
}

// prepare classifies the record before any byte changes.
func (st *recordState) prepare() {
	st.template = templates[st.rnd.Intn(len(templates))]
	st.excluded = st.t.catalog.IsExcludedScene(st.scene)

	slots := NewCursor(st.rec.Section(EnemySlots))
	for i := 0; i < EnemySlotCount; i++ {
		model := slots.Uint16()
		if model != Sentinel16 && st.t.catalog.IsBossGroup(model) {
			st.boss = true
		}
	}
}
