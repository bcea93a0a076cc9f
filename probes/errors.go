package probes

import "errors"

var (
	// ErrNilDB indicates a SQL probe was constructed without a database
	// handle.
	ErrNilDB = errors.New("probes: nil database handle")

	// ErrNilClient indicates a storage probe was constructed without a
	// client.
	ErrNilClient = errors.New("probes: nil storage client")
)
