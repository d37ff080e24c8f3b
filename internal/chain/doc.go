// Package chain orders providers into fallback chains and paces batch
// fetches through them.
//
// Components:
//   - Chain: immutable priority-ordered provider list; first positive
//     price wins, exhaustion logs one ERROR entry
//   - Batch: strictly sequential multi-symbol fetch with a fixed pacing
//     delay between consecutive symbols
//
// Chains are built once at startup and are safe for concurrent reads.
package chain
