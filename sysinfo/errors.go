package sysinfo

import "errors"

var (
	// ErrMemoryUnavailable indicates the memory sample could not be taken.
	ErrMemoryUnavailable = errors.New("sysinfo: memory stats unavailable")
)
