package client

import "errors"

// ErrUnavailable reports that the ledger could not be reached or did not
// answer in time.
var ErrUnavailable = errors.New("server unavailable")
