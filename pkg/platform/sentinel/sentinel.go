// Package sentinel holds infrastructure errors that stores return and
// services translate into domain errors.
package sentinel

import "errors"

// ErrNotFound reports a missing or expired entry, e.g. a snapshot cache miss.
var ErrNotFound = errors.New("not found")
