package domain

import "errors"

// ErrUnknownProbe marks a probe spec the factory cannot build. It is a
// configuration error: the run aborts before any probing begins.
var ErrUnknownProbe = errors.New("unknown probe kind")
