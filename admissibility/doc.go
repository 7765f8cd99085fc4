// Package admissibility implements the shared local-drift metric every
// component of the engine is scored with.
//
// 🚀 What is admissibility?
//
//	One integer cursor is threaded through a token stream. For each
//	lattice-mapped token with window w the step asks: is w within
//	Tolerance ring-steps of (cursor+offset) mod K? A yes counts as
//	admissible. Either way the cursor then moves according to the
//	RecoveryPolicy: SnapOnMiss (the default) always sets it to w, so a
//	miss never stalls the walk.
//
// ✨ Key properties:
//   - Pure: (tokens, map, options, offsets) ⇒ identical (admissible, total).
//   - Explicit state: Step takes and returns the cursor; nothing is global,
//     so lines and permutation trials can be scored concurrently.
//   - Monotone in Tolerance under SnapOnMiss (the cursor trajectory does not
//     depend on hits, so a wider band only adds hits).
//   - K=1 ⇒ every mapped token is admissible.
//
// Unmapped tokens are skipped: they neither count nor move the cursor.
//
// Complexity: O(tokens) per stream; O(1) per Step.
package admissibility
