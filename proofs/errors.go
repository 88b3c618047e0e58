package proofs

import "errors"

var (
	ErrInvalidHeight             = errors.New("the block height does not identify a checkpoint")
	ErrInvalidVerificationTarget = errors.New("the verification target is not included in the checkpoint")
	ErrInvalidProof              = errors.New("the proof is structurally invalid")
)
