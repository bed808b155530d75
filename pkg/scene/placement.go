package scene

import "go.uber.org/zap"

// battleFormation keeps the 4x6 enemy placements in line with the swapped
// models. Each 16-byte slot holds a model ID (2), X/Y/Z/row/cover (10) and
// initial condition flags (4). Condition flags are never touched.
//
// Excluded scenes are left exactly as they are.
func (st *recordState) battleFormation(c *Cursor) error {
	if st.excluded {
		c.Skip(c.Remaining())
		return nil
	}

	swarm := st.t.opts.Models.Swarm
	lead := st.ids.Lead()

	for f := 0; f < FormationCount; f++ {
		for s := 0; s < PlacementSlots; s++ {
			b := c.Block(PlacementSize)
			model := b.PeekUint16(0)

			switch {
			case model != Sentinel16:
				if chosen, ok := st.ids.Lookup(model); ok {
					b.PutUint16(chosen)
				} else if swarm && lead != Sentinel16 {
					b.PutUint16(lead)
				} else {
					st.inconsistent(f, s, model)
					b.Skip(2)
				}
				if swarm {
					st.template[s].put(b)
				} else {
					b.Skip(placementGeomSize)
				}
				b.Skip(conditionSize)

			case swarm && !st.boss && lead != Sentinel16:
				b.PutUint16(lead)
				st.template[s].put(b)
				b.Skip(conditionSize)

			default:
				b.Skip(PlacementSize)
			}

			if err := b.Done(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (st *recordState) inconsistent(formation, slot int, model uint16) {
	inc := Inconsistency{Record: st.scene, Formation: formation, Slot: slot, Model: model}
	st.result.Inconsistencies = append(st.result.Inconsistencies, inc)
	st.t.log.Warn("formation references unknown enemy",
		zap.Int("record", st.scene),
		zap.Int("formation", formation),
		zap.Int("slot", slot),
		zap.Uint16("model", model))
}
