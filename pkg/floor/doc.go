// Package floor generates the spatial floor plan of a sewing line.
//
// # Coordinate System
//
// X is the placement axis: machines of a lane are laid out along +X. Z is
// the cross axis holding four parallel lanes at fixed offsets, paired into
// facing groups A/B (cuff, sleeve, back) and C/D (collar, front). Y points
// up; only section boards are raised. Rotation is a yaw around Y.
//
// # Algorithm
//
// [Generate] admits operations whose section name contains one of the
// [Tags], substitutes the canonical sequence from the embedded
// templates.toml for the first section of each tag and visits sections in
// [Tags] order. For a parts section it:
//
//  1. places a board at the lane pair's cursor (plus [SectionGap] when the
//     pair is already in use),
//  2. walks the operations two at a time, left lane then right lane,
//     replicating each by its balanced machine count at the section's
//     [Spacing], advancing by the wider side,
//  3. applies the literal [Nudges] table,
//  4. appends an inspection table unless the section already has one,
//  5. appends a supermarket after front and back, and a crossover pathway
//     after back.
//
// Assembly always comes last, past the furthest lane, with three boards, a
// bank of auxiliary machines in lane C and the assembly sequence replicated
// across lanes B, A and D.
//
// All cursor state lives in a per-call accumulator, so Generate is safe to
// call concurrently.
package floor
