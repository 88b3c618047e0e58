package mmr

import "errors"

var (
	ErrNotFound        = errors.New("node not found")
	ErrInvalidMMRSize  = errors.New("the mmr size is not a valid, complete, mmr size")
	ErrIndexOutOfRange = errors.New("the node index is not in the mmr")
	ErrProofShape      = errors.New("the proof does not have the shape required by the mmr size and node index")
	ErrUnknownHash     = errors.New("unknown hash algorithm")
)
