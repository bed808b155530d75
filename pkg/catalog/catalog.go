// Package catalog classifies enemy models for the scene randomizer.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModelCount is the number of model IDs the game defines; valid IDs are [0, ModelCount).
const ModelCount = 676

// Catalog errors.
var (
	ErrModelOutOfRange = errors.New("model id out of range")
	ErrEmptyCatalog    = errors.New("catalog defines no models")
)

// BossSet lists the models sharing the curated boss idle/damage animation set.
var BossSet = []uint16{10, 11, 22, 33, 37, 71, 81, 195}

// AnimSet lists the models sharing the curated standard idle/damage animation set.
var AnimSet = []uint16{86, 131, 143, 147, 170, 202, 278, 339, 340, 341, 342, 343, 344, 347, 349, 350}

// AttackClass is the broad kind of an attack, used to pick a fitting animation.
type AttackClass uint8

// Attack classes.
const (
	Physical AttackClass = iota
	Magic
	Misc
)

// String returns the class name.
func (c AttackClass) String() string {
	switch c {
	case Physical:
		return "physical"
	case Magic:
		return "magic"
	case Misc:
		return "misc"
	default:
		return fmt.Sprintf("AttackClass(%d)", c)
	}
}

// Animations lists the animation indices a model can play per attack class.
// An entry of 0 marks an unusable slot.
type Animations struct {
	Physical []int `yaml:"physical"`
	Magic    []int `yaml:"magic"`
	Misc     []int `yaml:"misc"`
}

// For returns the index list for the given class.
func (a Animations) For(class AttackClass) []int {
	switch class {
	case Physical:
		return a.Physical
	case Magic:
		return a.Magic
	default:
		return a.Misc
	}
}

// Catalog answers the classification questions the randomizer asks about models and scenes.
type Catalog interface {
	IsExcludedModel(id uint16) bool
	IsExcludedScene(sceneID int) bool
	IsBossGroup(id uint16) bool
	IsAnimGroup(id uint16) bool
	AttackAnimationsFor(id uint16) (Animations, bool)
}

// File is the on-disk YAML form of a catalog.
type File struct {
	ExcludedModels []uint16              `yaml:"excluded_models"`
	ExcludedScenes []int                 `yaml:"excluded_scenes"`
	BossGroup      []uint16              `yaml:"boss_group,omitempty"`
	AnimGroup      []uint16              `yaml:"anim_group,omitempty"`
	Models         map[uint16]Animations `yaml:"models"`
}

// Static is an in-memory Catalog built from fixed lists.
type Static struct {
	excludedModels map[uint16]struct{}
	excludedScenes map[int]struct{}
	bossGroup      map[uint16]struct{}
	animGroup      map[uint16]struct{}
	animations     map[uint16]Animations
}

// New builds a Static catalog. Empty boss/anim group lists fall back to BossSet and AnimSet.
func New(f File) (*Static, error) {
	bossGroup := f.BossGroup
	if len(bossGroup) == 0 {
		bossGroup = BossSet
	}
	animGroup := f.AnimGroup
	if len(animGroup) == 0 {
		animGroup = AnimSet
	}

	s := &Static{
		excludedModels: idSet(f.ExcludedModels),
		excludedScenes: make(map[int]struct{}, len(f.ExcludedScenes)),
		bossGroup:      idSet(bossGroup),
		animGroup:      idSet(animGroup),
		animations:     make(map[uint16]Animations, len(f.Models)),
	}
	for _, id := range f.ExcludedScenes {
		s.excludedScenes[id] = struct{}{}
	}
	for id, anims := range f.Models {
		if int(id) >= ModelCount {
			return nil, fmt.Errorf("%w: %d", ErrModelOutOfRange, id)
		}
		s.animations[id] = anims
	}
	return s, nil
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Static, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(f.Models) == 0 {
		return nil, ErrEmptyCatalog
	}
	return New(f)
}

// Load reads and decodes a YAML catalog from disk.
func Load(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// IsExcludedModel reports whether the model must never be swapped.
func (s *Static) IsExcludedModel(id uint16) bool {
	_, ok := s.excludedModels[id]
	return ok
}

// IsExcludedScene reports whether the scene keeps its models and formations.
func (s *Static) IsExcludedScene(sceneID int) bool {
	_, ok := s.excludedScenes[sceneID]
	return ok
}

// IsBossGroup reports whether the model belongs to the boss animation group.
func (s *Static) IsBossGroup(id uint16) bool {
	_, ok := s.bossGroup[id]
	return ok
}

// IsAnimGroup reports whether the model belongs to the standard animation group.
func (s *Static) IsAnimGroup(id uint16) bool {
	_, ok := s.animGroup[id]
	return ok
}

// AttackAnimationsFor returns the animation lists of a model, if the model is known.
func (s *Static) AttackAnimationsFor(id uint16) (Animations, bool) {
	a, ok := s.animations[id]
	return a, ok
}

// Models returns the known model IDs in ascending order.
func (s *Static) Models() []uint16 {
	ids := make([]uint16, 0, len(s.animations))
	for id := range s.animations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func idSet(ids []uint16) map[uint16]struct{} {
	m := make(map[uint16]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
