// Package schedule infers a per-line window offset schedule for a fixed
// lattice and measures how well coarse rules predict it.
//
// The oracle tries every offset in [0,K) on each line independently (cursor
// at 0, lowest offset on ties). Oracle offsets are then grouped by a closed
// set of Groupings (global, section, quire, hand, page) and each group's mode
// feeds a Resolver. A Rule is an ordered chain of resolvers that always ends
// in the global one; Evaluate scores every rule and reports the fraction of
// the oracle's gain over the zero-offset baseline it recovers.
//
// Lines without any mapped token get offset 0, stay out of every mode and
// still appear in the schedule.
package schedule
