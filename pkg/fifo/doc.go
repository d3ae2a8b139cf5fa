// Package fifo implements the core of a replicated FIFO message
// queue: a deterministic state machine meant to be driven by a
// consensus log (Raft-family). Every replica applies the same
// ordered stream of commands through Apply and derives an identical
// State.
//
// The package has zero external dependencies and performs no I/O:
// Apply is a deterministic, total, synchronous method that updates
// *State in place for a (LogIndex, Command) pair and returns []Effect.
// Everything the state machine needs
// from the outside world — watching customer liveness, delivering
// messages, incrementing metrics, compacting the log — is expressed
// as a value in the returned []Effect slice for a host to execute;
// see pkg/fifo/host for the interface such a host implements.
package fifo
