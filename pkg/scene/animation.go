package scene

// maxAnimationDraws bounds the search for a usable animation index.
const maxAnimationDraws = 32

// resolveAnimations picks, for each of the enemy's 16 attacks, an
// animation index the enemy's model can actually play. Empty attacks, unknown
// attacks or models, and lists with no usable entry within
// maxAnimationDraws keep their byte.
func (st *recordState) resolveAnimations(b *Cursor, enemy int) {
	model := st.ids.Chosen[enemy]
	anims, known := st.t.catalog.AttackAnimationsFor(model)

	for i := 0; i < EnemyAttacks; i++ {
		attack := b.Uint16At(enemyAttackIDs + i*2)
		if attack == Sentinel16 || !known {
			b.Skip(1)
			continue
		}
		class, ok := st.attackTypes[attack]
		if !ok {
			b.Skip(1)
			continue
		}
		if idx, ok := drawAnimation(anims.For(class), st.rnd); ok {
			b.PutByte(idx)
		} else {
			b.Skip(1)
		}
	}
}

// drawAnimation draws uniformly from list, rejecting the unusable marker 0.
func drawAnimation(list []int, rnd Random) (byte, bool) {
	if len(list) == 0 {
		return 0, false
	}
	for i := 0; i < maxAnimationDraws; i++ {
		if v := list[rnd.Intn(len(list))]; v != 0 {
			return byte(v), true
		}
	}
	return 0, false
}
