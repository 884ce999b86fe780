// Package engine composes the core into the state lifecycle: building the
// optimization problem from a translation, evaluating shapes for rendering,
// exposing the energy over the varying state, and resampling.
//
// The lifecycle is:
//
//  1. Compile checks the translation against the registries, then
//     GenOptProblemAndState discovers the varying paths, samples every open
//     slot, harvests objective and constraint functions, solves the
//     layering order and freezes the initial State.
//  2. EvalTranslation evaluates every shape under the current varying state
//     for the renderer. Shapes are not evaluated at build time, so a
//     computation name only used by rendering cannot fail a build.
//  3. ResampleBest draws fresh candidates, scores each with the current
//     penalty weight, and installs the lowest-energy one.
//
// Everything is deterministic given the config seed: the sampler, the
// evaluator and the resampler all draw from stage RNGs derived from it.
package engine
