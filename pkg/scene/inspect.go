package scene

import (
	"encoding/binary"

	"github.com/Faultbox/godo/pkg/encoding"
)

// EnemySummary describes one enemy data block.
type EnemySummary struct {
	Model   uint16
	Present bool
	Name    string
	Level   byte
	HP      uint32
	EXP     uint32
	Gil     uint32
}

// Summary is a read-only digest of one record.
type Summary struct {
	Models  [EnemySlotCount]uint16
	Enemies [EnemyCount]EnemySummary

	// Formations is the number of formations in use.
	Formations int
	// Placements counts occupied placement slots per formation.
	Placements [FormationCount]int

	Attacks     int
	AttackNames []string
}

// Inspect decodes the parts of rec shown by the info command.
func Inspect(rec Record) (*Summary, error) {
	if len(rec) != RecordSize {
		return nil, ErrRecordSize
	}

	s := &Summary{}
	le := binary.LittleEndian

	slots := rec.Section(EnemySlots)
	for i := range s.Models {
		s.Models[i] = le.Uint16(slots[i*2:])
	}

	setup := rec.Section(BattleSetup)
	placements := rec.Section(BattleFormation)
	for f := 0; f < FormationCount; f++ {
		if setup[f*SetupSize] != Sentinel {
			s.Formations++
		}
		for p := 0; p < PlacementSlots; p++ {
			off := (f*PlacementSlots + p) * PlacementSize
			if le.Uint16(placements[off:]) != Sentinel16 {
				s.Placements[f]++
			}
		}
	}

	enemies := rec.Section(EnemyData)
	for e := range s.Enemies {
		block := enemies[e*EnemySize : (e+1)*EnemySize]
		sum := &s.Enemies[e]
		sum.Model = s.Models[e]
		if block[0] == Sentinel {
			continue
		}
		sum.Present = true
		sum.Name = encoding.FixedToUTF8(block[:NameSize])
		sum.Level = block[enemyStats+statLevel]
		sum.HP = le.Uint32(block[enemyHP:])
		sum.EXP = le.Uint32(block[enemyHP+4:])
		sum.Gil = le.Uint32(block[enemyHP+8:])
	}

	attacks := rec.Section(AttackData)
	names := rec.Section(AttackNames)
	for i := 0; i < AttackCount; i++ {
		if le.Uint16(attacks[i*AttackSize+attackCastingCost:]) == Sentinel16 {
			continue
		}
		s.Attacks++
		name := names[i*NameSize : (i+1)*NameSize]
		if name[0] != Sentinel {
			s.AttackNames = append(s.AttackNames, encoding.FixedToUTF8(name))
		}
	}

	return s, nil
}
