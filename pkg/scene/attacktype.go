package scene

import (
	"encoding/binary"

	"github.com/Faultbox/godo/pkg/catalog"
)

// Offsets inside an attack data block that tell the attack class apart.
const (
	attackImpactEffect = 1
	attackSpellEffect  = 13
	attackCastingCost  = 4
	attackStatusChange = 17
)

// AttackTypeIndex maps the record's attack IDs to their class.
type AttackTypeIndex map[uint16]catalog.AttackClass

// buildAttackTypeIndex classifies every attack listed in the record's
// AttackIDs section. An attack with an impact effect is physical, one with
// a spell effect is magic, anything else is misc.
func buildAttackTypeIndex(rec Record) AttackTypeIndex {
	ids := rec.Section(AttackIDs)
	data := rec.Section(AttackData)

	idx := make(AttackTypeIndex, AttackCount)
	for i := 0; i < AttackCount; i++ {
		id := binary.LittleEndian.Uint16(ids[i*2:])
		if id == Sentinel16 {
			continue
		}
		block := data[i*AttackSize : (i+1)*AttackSize]
		switch {
		case block[attackImpactEffect] != Sentinel:
			idx[id] = catalog.Physical
		case block[attackSpellEffect] != Sentinel:
			idx[id] = catalog.Magic
		default:
			idx[id] = catalog.Misc
		}
	}
	return idx
}
