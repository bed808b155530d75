package scene

// IdentityMap remembers, for one record, which model each enemy slot held
// before randomization and which model it holds afterwards. It is filled
// while the enemy slots are processed and read-only afterwards.
type IdentityMap struct {
	Original [EnemySlotCount]uint16
	Chosen   [EnemySlotCount]uint16
}

func newIdentityMap() IdentityMap {
	var m IdentityMap
	for i := range m.Original {
		m.Original[i] = Sentinel16
		m.Chosen[i] = Sentinel16
	}
	return m
}

func (m *IdentityMap) set(slot int, original, chosen uint16) {
	m.Original[slot] = original
	m.Chosen[slot] = chosen
}

// Lookup returns the replacement for an original model ID.
// The first matching slot wins when two slots share a model.
func (m *IdentityMap) Lookup(model uint16) (uint16, bool) {
	if model == Sentinel16 {
		return 0, false
	}
	for i, orig := range m.Original {
		if orig == model {
			return m.Chosen[i], true
		}
	}
	return 0, false
}

// Lead returns enemy A's chosen model, used to populate swarm slots.
func (m *IdentityMap) Lead() uint16 {
	return m.Chosen[0]
}

// Swapped reports whether any slot received a different model.
func (m *IdentityMap) Swapped() bool {
	for i := range m.Original {
		if m.Original[i] != m.Chosen[i] {
			return true
		}
	}
	return false
}
