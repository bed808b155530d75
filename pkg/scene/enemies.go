package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/godo/pkg/catalog"
)

// enemySlots swaps the three enemy models and records the identity map.
func (st *recordState) enemySlots(c *Cursor) error {
	for slot := 0; slot < EnemySlotCount; slot++ {
		original := c.PeekUint16(0)
		chosen := original
		if original != Sentinel16 && st.t.opts.Models.Swap {
			chosen = st.pickModel(original)
			c.PutUint16(chosen)
		} else {
			c.Skip(2)
		}
		st.ids.set(slot, original, chosen)
	}

	c.PutUint16(Sentinel16)
	return nil
}

// pickModel chooses a replacement for original. The first matching rule wins:
// excluded model or scene keeps the model, boss-group models draw from
// BossSet, anim-group models draw from AnimSet, everything else is sampled
// uniformly among plain models the catalog knows animations for.
func (st *recordState) pickModel(original uint16) uint16 {
	cat := st.t.catalog
	switch {
	case cat.IsExcludedModel(original), st.excluded:
		return original
	case cat.IsBossGroup(original):
		return catalog.BossSet[st.rnd.Intn(len(catalog.BossSet))]
	case cat.IsAnimGroup(original):
		return catalog.AnimSet[st.rnd.Intn(len(catalog.AnimSet))]
	}

	for i := 0; i < st.t.maxDraws; i++ {
		id := uint16(st.rnd.Intn(catalog.ModelCount))
		if _, ok := cat.AttackAnimationsFor(id); !ok {
			continue
		}
		if cat.IsExcludedModel(id) || cat.IsBossGroup(id) || cat.IsAnimGroup(id) {
			continue
		}
		return id
	}

	st.t.log.Warn("no replacement model found, keeping original",
		zap.Int("record", st.scene),
		zap.Uint16("model", original),
		zap.Int("draws", st.t.maxDraws))
	return original
}
