package indexer

import "errors"

var (
	ErrMissingNode       = errors.New("the indexer has no node at the requested position")
	ErrTimeout           = errors.New("the indexer lookup timed out")
	ErrTransportFailure  = errors.New("the indexer lookup failed")
	ErrQueryFailed       = errors.New("the indexer rejected the query")
	ErrMalformedResponse = errors.New("the indexer response could not be parsed")
	ErrConflictingNode   = errors.New("the indexer returned conflicting hashes for a position")
)
