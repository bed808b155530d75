package scene

import (
	"fmt"
	"sort"
)

// Options selects which field groups of each record are randomized.
// Every toggle gates exactly one field group. Toggles that compete for the
// same field are resolved by the priority tables below, highest first.
type Options struct {
	Models  ModelOptions  `yaml:"models"`
	Battle  BattleOptions `yaml:"battle"`
	Enemies EnemyOptions  `yaml:"enemies"`
	Rewards RewardOptions `yaml:"rewards"`
	Attacks AttackOptions `yaml:"attacks"`
}

// ModelOptions control which creatures appear.
type ModelOptions struct {
	Swap  bool `yaml:"swap"`  // replace enemy models and re-pick their animations
	Swarm bool `yaml:"swarm"` // fill empty formation slots with enemy A
}

// BattleOptions control the formation headers and cameras.
type BattleOptions struct {
	RandomBackground bool `yaml:"random_background"`
	NoEscape         bool `yaml:"no_escape"`
	RandomCamera     bool `yaml:"random_camera"`
}

// EnemyOptions control the enemy data blocks.
//
// Stronger and Weaker are exclusive; Stronger wins.
type EnemyOptions struct {
	RandomNames      bool `yaml:"random_names"`
	RandomStats      bool `yaml:"random_stats"`
	Stronger         bool `yaml:"stronger"`
	Weaker           bool `yaml:"weaker"`
	RandomElements   bool `yaml:"random_elements"`
	RandomImmunities bool `yaml:"random_immunities"`
}

// RewardOptions control items and resources.
//
// Per field the order is: zero > poverty > max rates > randomize > retain.
type RewardOptions struct {
	RandomItems  bool `yaml:"random_items"`
	MaxDropRates bool `yaml:"max_drop_rates"`
	Poverty      bool `yaml:"poverty"`
	RandomMP     bool `yaml:"random_mp"`
	NoMP         bool `yaml:"no_mp"`
	RandomAP     bool `yaml:"random_ap"`
	NoAP         bool `yaml:"no_ap"`
	RandomHP     bool `yaml:"random_hp"`
	RandomEXP    bool `yaml:"random_exp"`
	NoEXP        bool `yaml:"no_exp"`
	RandomGil    bool `yaml:"random_gil"`
	NoGil        bool `yaml:"no_gil"`
}

// AttackOptions control the attack data and name blocks.
//
// SafeStatus and UnsafeStatus are exclusive; SafeStatus wins.
type AttackOptions struct {
	RandomStats    bool `yaml:"random_stats"`
	SafeStatus     bool `yaml:"safe_status"`
	UnsafeStatus   bool `yaml:"unsafe_status"`
	RandomElements bool `yaml:"random_elements"`
	RandomNames    bool `yaml:"random_names"`
}

// ItemMode is the resolved treatment of drop/steal rates, item IDs and morph items.
type ItemMode uint8

// Item modes.
const (
	ItemsRetain ItemMode = iota
	ItemsRandom
	ItemsMaxRates
	ItemsNone
)

// ResourceMode is the resolved treatment of MP, AP, HP, EXP or Gil.
type ResourceMode uint8

// Resource modes.
const (
	ResourceRetain ResourceMode = iota
	ResourceRandom
	ResourcePoverty // keep the low byte, zero the rest
	ResourceZero
)

// RescaleMode is the post-roll stat adjustment.
type RescaleMode uint8

// Rescale modes.
const (
	RescaleNone RescaleMode = iota
	RescaleStronger
	RescaleWeaker
)

// StatusMode is the attack status-effect policy.
type StatusMode uint8

// Status modes.
const (
	StatusRetain StatusMode = iota
	StatusSafe
	StatusUnsafe
)

// Policy is the outcome of resolving Options through the priority tables.
type Policy struct {
	Items   ItemMode
	Morph   ItemMode
	MP      ResourceMode
	AP      ResourceMode
	HP      ResourceMode
	EXP     ResourceMode
	Gil     ResourceMode
	Rescale RescaleMode
	Status  StatusMode
}

type rule[M any] struct {
	on   func(*Options) bool
	mode M
}

// resolve returns the mode of the first enabled rule, or fallback.
func resolve[M any](o *Options, rules []rule[M], fallback M) M {
	for _, r := range rules {
		if r.on(o) {
			return r.mode
		}
	}
	return fallback
}

var (
	itemRules = []rule[ItemMode]{
		{func(o *Options) bool { return o.Rewards.RandomItems }, ItemsRandom},
		{func(o *Options) bool { return o.Rewards.MaxDropRates }, ItemsMaxRates},
		{func(o *Options) bool { return o.Rewards.Poverty }, ItemsNone},
	}
	morphRules = []rule[ItemMode]{
		{func(o *Options) bool { return o.Rewards.RandomItems }, ItemsRandom},
		{func(o *Options) bool { return o.Rewards.Poverty }, ItemsNone},
	}
	mpRules = []rule[ResourceMode]{
		{func(o *Options) bool { return o.Rewards.NoMP }, ResourceZero},
		{func(o *Options) bool { return o.Rewards.RandomMP }, ResourceRandom},
	}
	apRules = []rule[ResourceMode]{
		{func(o *Options) bool { return o.Rewards.NoAP }, ResourceZero},
		{func(o *Options) bool { return o.Rewards.Poverty }, ResourcePoverty},
		{func(o *Options) bool { return o.Rewards.RandomAP }, ResourceRandom},
	}
	hpRules = []rule[ResourceMode]{
		{func(o *Options) bool { return o.Rewards.RandomHP }, ResourceRandom},
	}
	expRules = []rule[ResourceMode]{
		{func(o *Options) bool { return o.Rewards.NoEXP }, ResourceZero},
		{func(o *Options) bool { return o.Rewards.Poverty }, ResourcePoverty},
		{func(o *Options) bool { return o.Rewards.RandomEXP }, ResourceRandom},
	}
	gilRules = []rule[ResourceMode]{
		{func(o *Options) bool { return o.Rewards.NoGil }, ResourceZero},
		{func(o *Options) bool { return o.Rewards.Poverty }, ResourcePoverty},
		{func(o *Options) bool { return o.Rewards.RandomGil }, ResourceRandom},
	}
	rescaleRules = []rule[RescaleMode]{
		{func(o *Options) bool { return o.Enemies.Stronger }, RescaleStronger},
		{func(o *Options) bool { return o.Enemies.Weaker }, RescaleWeaker},
	}
	statusRules = []rule[StatusMode]{
		{func(o *Options) bool { return o.Attacks.SafeStatus }, StatusSafe},
		{func(o *Options) bool { return o.Attacks.UnsafeStatus }, StatusUnsafe},
	}
)

// Resolve applies the priority tables.
func (o Options) Resolve() Policy {
	return Policy{
		Items:   resolve(&o, itemRules, ItemsRetain),
		Morph:   resolve(&o, morphRules, ItemsRetain),
		MP:      resolve(&o, mpRules, ResourceRetain),
		AP:      resolve(&o, apRules, ResourceRetain),
		HP:      resolve(&o, hpRules, ResourceRetain),
		EXP:     resolve(&o, expRules, ResourceRetain),
		Gil:     resolve(&o, gilRules, ResourceRetain),
		Rescale: resolve(&o, rescaleRules, RescaleNone),
		Status:  resolve(&o, statusRules, StatusRetain),
	}
}

// Legacy flat option indices, as stored by the original settings files.
const (
	FlagModelSwap        = 24
	FlagBattleBackground = 25
	FlagNoEscape         = 26
	FlagCamera           = 27
	FlagEnemySwarm       = 29
	FlagEnemyNames       = 30
	FlagEnemyStats       = 31
	FlagEnemyElements    = 32
	FlagItems            = 33
	FlagMP               = 34
	FlagAP               = 35
	FlagHP               = 36
	FlagEXP              = 37
	FlagGil              = 38
	FlagImmunities       = 39
	FlagAttackStats      = 40
	FlagStatusSafe       = 41
	FlagStatusUnsafe     = 42
	FlagAttackElements   = 43
	FlagAttackNames      = 44
	FlagPoverty          = 46
	FlagStronger         = 47
	FlagWeaker           = 48
	FlagMaxDropRates     = 49
	FlagNoMP             = 50
	FlagNoEXP            = 57
	FlagNoGil            = 58
	FlagNoAP             = 59

	FlagCount = 60
)

// fieldsByFlag binds each legacy index to the toggle it drives.
func (o *Options) fieldsByFlag() map[int]*bool {
	return map[int]*bool{
		FlagModelSwap:        &o.Models.Swap,
		FlagBattleBackground: &o.Battle.RandomBackground,
		FlagNoEscape:         &o.Battle.NoEscape,
		FlagCamera:           &o.Battle.RandomCamera,
		FlagEnemySwarm:       &o.Models.Swarm,
		FlagEnemyNames:       &o.Enemies.RandomNames,
		FlagEnemyStats:       &o.Enemies.RandomStats,
		FlagEnemyElements:    &o.Enemies.RandomElements,
		FlagItems:            &o.Rewards.RandomItems,
		FlagMP:               &o.Rewards.RandomMP,
		FlagAP:               &o.Rewards.RandomAP,
		FlagHP:               &o.Rewards.RandomHP,
		FlagEXP:              &o.Rewards.RandomEXP,
		FlagGil:              &o.Rewards.RandomGil,
		FlagImmunities:       &o.Enemies.RandomImmunities,
		FlagAttackStats:      &o.Attacks.RandomStats,
		FlagStatusSafe:       &o.Attacks.SafeStatus,
		FlagStatusUnsafe:     &o.Attacks.UnsafeStatus,
		FlagAttackElements:   &o.Attacks.RandomElements,
		FlagAttackNames:      &o.Attacks.RandomNames,
		FlagPoverty:          &o.Rewards.Poverty,
		FlagStronger:         &o.Enemies.Stronger,
		FlagWeaker:           &o.Enemies.Weaker,
		FlagMaxDropRates:     &o.Rewards.MaxDropRates,
		FlagNoMP:             &o.Rewards.NoMP,
		FlagNoEXP:            &o.Rewards.NoEXP,
		FlagNoGil:            &o.Rewards.NoGil,
		FlagNoAP:             &o.Rewards.NoAP,
	}
}

// OptionsFromFlags builds Options from a legacy flat boolean array.
// Indices that are out of range or unassigned are ignored.
func OptionsFromFlags(flags []bool) Options {
	var o Options
	for idx, field := range o.fieldsByFlag() {
		if idx < len(flags) {
			*field = flags[idx]
		}
	}
	return o
}

// Flags encodes Options as a legacy flat boolean array of length FlagCount.
func (o Options) Flags() []bool {
	flags := make([]bool, FlagCount)
	for idx, field := range o.fieldsByFlag() {
		flags[idx] = *field
	}
	return flags
}

// fieldsByName binds each toggle to its dotted YAML path.
func (o *Options) fieldsByName() map[string]*bool {
	return map[string]*bool{
		"models.swap":               &o.Models.Swap,
		"models.swarm":              &o.Models.Swarm,
		"battle.random_background":  &o.Battle.RandomBackground,
		"battle.no_escape":          &o.Battle.NoEscape,
		"battle.random_camera":      &o.Battle.RandomCamera,
		"enemies.random_names":      &o.Enemies.RandomNames,
		"enemies.random_stats":      &o.Enemies.RandomStats,
		"enemies.stronger":          &o.Enemies.Stronger,
		"enemies.weaker":            &o.Enemies.Weaker,
		"enemies.random_elements":   &o.Enemies.RandomElements,
		"enemies.random_immunities": &o.Enemies.RandomImmunities,
		"rewards.random_items":      &o.Rewards.RandomItems,
		"rewards.max_drop_rates":    &o.Rewards.MaxDropRates,
		"rewards.poverty":           &o.Rewards.Poverty,
		"rewards.random_mp":         &o.Rewards.RandomMP,
		"rewards.no_mp":             &o.Rewards.NoMP,
		"rewards.random_ap":         &o.Rewards.RandomAP,
		"rewards.no_ap":             &o.Rewards.NoAP,
		"rewards.random_hp":         &o.Rewards.RandomHP,
		"rewards.random_exp":        &o.Rewards.RandomEXP,
		"rewards.no_exp":            &o.Rewards.NoEXP,
		"rewards.random_gil":        &o.Rewards.RandomGil,
		"rewards.no_gil":            &o.Rewards.NoGil,
		"attacks.random_stats":      &o.Attacks.RandomStats,
		"attacks.safe_status":       &o.Attacks.SafeStatus,
		"attacks.unsafe_status":     &o.Attacks.UnsafeStatus,
		"attacks.random_elements":   &o.Attacks.RandomElements,
		"attacks.random_names":      &o.Attacks.RandomNames,
	}
}

// Set turns the named toggle on or off. Names are dotted YAML paths such
// as "models.swap"; "all" sets every toggle.
func (o *Options) Set(name string, on bool) error {
	fields := o.fieldsByName()
	if name == "all" {
		for _, f := range fields {
			*f = on
		}
		return nil
	}
	f, ok := fields[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	*f = on
	return nil
}

// OptionNames returns every toggle name accepted by Set, sorted.
func OptionNames() []string {
	var o Options
	names := make([]string, 0, len(o.fieldsByName()))
	for name := range o.fieldsByName() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enabled returns the names of the toggles that are on, sorted.
func (o Options) Enabled() []string {
	var names []string
	for name, f := range o.fieldsByName() {
		if *f {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
