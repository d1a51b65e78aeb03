// Package domain holds domain primitives that enforce their invariants at
// parse time, so values that reach services are already trusted.
package domain
