// Package models defines the holder record types shared by the matcher,
// record sources, caches and the holdings service.
package models
