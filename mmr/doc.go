// Package mmr provides the Merkle Mountain Range arithmetic used to build
// checkpoints and inclusion proofs against node hashes held elsewhere.
package mmr

/*

# Post order numbering

All functions in this package work with zero based node indices, called
positions. Leaves and interior nodes share the one numbering space, which is
the post order traversal of the tree. Given a graph of 7 nodes like this,

	2        6
	       /   \
	1     2     5
	     / \   / \
	0   0   1 3   4

the post order (children first, siblings left to right) is [0, 1, 2, 3, 4, 5,
6], which is also the natural append order of an MMR. Independent of the size
of the tree we can navigate from any position using binary arithmetic on the
position, so nothing here needs to materialise the tree.

The low level functions place a burden of knowledge on the caller. For
example, asking for the path of a position that is not in an MMR of the
provided size yields nonsense rather than an error. VerifyProof is the
exception: it is fed untrusted input and checks the shape of everything it is
given.

# Interior nodes

Interior nodes are Merge(left, right) = H(left || right). Unlike the
position committing scheme of the datatrails logs, the position is not mixed
into the hash. This is the scheme used by the indexers these proofs are
computed against.

# Peaks, bagging and the proof layout

For an MMR of size 11 the peaks are [6, 9, 10]

	2        6
	       /   \
	1     2     5      9
	     / \   / \    / \
	0   0   1 3   4  7   8 10

The root is obtained by bagging the peaks from the right,

	root = Merge(Merge(H(10), H(9)), H(6))

An inclusion proof for leaf 7 is laid out as

	[H(6), H(8), H(10)]
	 ^      ^     ^
	 |      |     BagPeaks of the peaks to the right of the containing peak
	 |      the path from 7 to its peak, bottom up
	 the peaks to the left of the containing peak, left to right

The verifier recovers the containing peak from the path, and re-bags the full
peak list to reproduce the root.

# References

* https://github.com/mimblewimble/grin/blob/0ff6763ee64e5a14e70ddd4642b99789a1648a32/core/src/core/pmmr.rs#L606
* https://github.com/nervosnetwork/merkle-mountain-range
* https://github.com/jjyr/mmr.py/blob/master/mmr/mmr.py#L145
*/
