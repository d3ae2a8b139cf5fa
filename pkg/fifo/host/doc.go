// Package host defines the boundary between the fifo state machine and
// the surrounding system: the Host interface a concrete deployment
// implements, and the Executor that walks a batch of fifo.Effect
// values and dispatches each to it.
//
// The package depends on pkg/fifo but nothing in pkg/fifo depends on
// it: core interfaces with zero external dependencies, adapters in
// their own sub-packages pulling in only the SDK each one needs.
package host
