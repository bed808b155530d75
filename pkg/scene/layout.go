// Package scene randomizes the 256-record battle scene table.
//
// Each record is a fixed 7814-byte span made of twelve sections laid out
// back to back. Sections are accessed through Record.Section, which hands
// out a capacity-capped slice, so a transform can never write past the
// section it works on.
package scene

import "fmt"

// Table geometry.
const (
	RecordSize  = 7814
	RecordCount = 256
	TableSize   = RecordSize * RecordCount
)

// Sentinel values marking empty slots, terminators and "no effect".
const (
	Sentinel   byte   = 0xFF
	Sentinel16 uint16 = 0xFFFF
)

// Sub-record geometry.
const (
	EnemySlotCount = 3
	FormationCount = 4
	PlacementSlots = 6
	EnemyCount     = 3
	AttackCount    = 32
	EnemyAttacks   = 16

	SetupSize     = 20
	CameraSize    = 48
	PlacementSize = 16
	EnemySize     = 184
	AttackSize    = 28
	NameSize      = 32

	cameraIdleSize    = 36 // 3 idle positions x (camera XYZ + focus XYZ) x 2 bytes
	placementGeomSize = 10 // X, Y, Z, row, cover flags
	conditionSize     = 4
)

// Section sizes.
const (
	sizeEnemySlots         = EnemySlotCount*2 + 2
	sizeBattleSetup        = FormationCount * SetupSize
	sizeCameraPlacement    = FormationCount * CameraSize
	sizeBattleFormation    = FormationCount * PlacementSlots * PlacementSize
	sizeEnemyData          = EnemyCount * EnemySize
	sizeAttackData         = AttackCount * AttackSize
	sizeAttackIDs          = AttackCount * 2
	sizeAttackNames        = AttackCount * NameSize
	sizeFormationAIOffsets = 8
	sizeFormationAI        = 504
	sizeEnemyAIOffsets     = 6
	sizeEnemyAI            = 4096
)

// Section offsets within a record.
const (
	offEnemySlots         = 0x000
	offBattleSetup        = offEnemySlots + sizeEnemySlots
	offCameraPlacement    = offBattleSetup + sizeBattleSetup
	offBattleFormation    = offCameraPlacement + sizeCameraPlacement
	offEnemyData          = offBattleFormation + sizeBattleFormation
	offAttackData         = offEnemyData + sizeEnemyData
	offAttackIDs          = offAttackData + sizeAttackData
	offAttackNames        = offAttackIDs + sizeAttackIDs
	offFormationAIOffsets = offAttackNames + sizeAttackNames
	offFormationAI        = offFormationAIOffsets + sizeFormationAIOffsets
	offEnemyAIOffsets     = offFormationAI + sizeFormationAI
	offEnemyAI            = offEnemyAIOffsets + sizeEnemyAIOffsets
	offEnd                = offEnemyAI + sizeEnemyAI
)

// The sections must tile the record exactly; either constant overflows otherwise.
const (
	_ = uint(RecordSize - offEnd)
	_ = uint(offEnd - RecordSize)
)

// SectionID names one of the twelve record sections, in file order.
type SectionID int

// Record sections.
const (
	EnemySlots SectionID = iota
	BattleSetup
	CameraPlacement
	BattleFormation
	EnemyData
	AttackData
	AttackIDs
	AttackNames
	FormationAIOffsets
	FormationAI
	EnemyAIOffsets
	EnemyAI
	sectionCount
)

type sectionInfo struct {
	name   string
	offset int
	size   int
}

var sections = [sectionCount]sectionInfo{
	EnemySlots:         {"EnemySlots", offEnemySlots, sizeEnemySlots},
	BattleSetup:        {"BattleSetup", offBattleSetup, sizeBattleSetup},
	CameraPlacement:    {"CameraPlacement", offCameraPlacement, sizeCameraPlacement},
	BattleFormation:    {"BattleFormation", offBattleFormation, sizeBattleFormation},
	EnemyData:          {"EnemyData", offEnemyData, sizeEnemyData},
	AttackData:         {"AttackData", offAttackData, sizeAttackData},
	AttackIDs:          {"AttackIDs", offAttackIDs, sizeAttackIDs},
	AttackNames:        {"AttackNames", offAttackNames, sizeAttackNames},
	FormationAIOffsets: {"FormationAIOffsets", offFormationAIOffsets, sizeFormationAIOffsets},
	FormationAI:        {"FormationAI", offFormationAI, sizeFormationAI},
	EnemyAIOffsets:     {"EnemyAIOffsets", offEnemyAIOffsets, sizeEnemyAIOffsets},
	EnemyAI:            {"EnemyAI", offEnemyAI, sizeEnemyAI},
}

// String returns the section name.
func (id SectionID) String() string {
	if id < 0 || id >= sectionCount {
		return fmt.Sprintf("SectionID(%d)", int(id))
	}
	return sections[id].name
}

// Offset returns the byte offset of the section within a record.
func (id SectionID) Offset() int {
	return sections[id].offset
}

// Size returns the byte length of the section.
func (id SectionID) Size() int {
	return sections[id].size
}

// Record is one fixed-size scene record.
type Record []byte

// Section returns the bytes of one section. The slice shares the record's
// backing array and is capped at the section end.
func (r Record) Section(id SectionID) []byte {
	s := sections[id]
	end := s.offset + s.size
	return r[s.offset:end:end]
}

// Records splits a full table into its records without copying.
func Records(table []byte) ([]Record, error) {
	if len(table) != TableSize {
		return nil, fmt.Errorf("%w: %d bytes, expected %d", ErrTableSize, len(table), TableSize)
	}
	recs := make([]Record, RecordCount)
	for i := range recs {
		start := i * RecordSize
		end := start + RecordSize
		recs[i] = Record(table[start:end:end])
	}
	return recs, nil
}
