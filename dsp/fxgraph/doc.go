// Package fxgraph is the modular effect graph: a set of effect units
// wired by weighted directed connections, executed in topological order
// once per audio block. Topology edits are validated eagerly (cycles
// and dangling endpoints are rejected) and swapped in atomically so the
// audio thread never observes a half-edited graph.
package fxgraph
