// Package index implements the ordered LogIndex map the queue state
// machine uses to track which log indices still contribute to state.
//
// It is an AVL tree keyed by a monotonically increasing uint64,
// adapted from the self-balancing insert/rotate/search shape of
// pkg/datastructures/tree/avl, generalized with the minimum/successor/
// delete operations an ordered map over a log needs that a plain
// key-value tree does not.
package index
