// Package contract holds reusable conformance checks that every record
// source backend runs in its own tests.
package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"shareholder/internal/holdings/models"
	"shareholder/internal/holdings/source"
)

// FetchTest defines one successful-fetch expectation for a backend.
type FetchTest struct {
	Name         string
	Source       source.Source
	WantRecords  int
	ValidateFunc func(snapshot *models.Snapshot) error
}

// ContractSuite is a collection of fetch checks for one backend.
type ContractSuite struct {
	SourceName string
	Tests      []FetchTest
}

// Run executes all contract tests in the suite.
func (s *ContractSuite) Run(t *testing.T) {
	for _, test := range s.Tests {
		t.Run(test.Name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if got := test.Source.Name(); got != s.SourceName {
				t.Errorf("expected source name %s, got %s", s.SourceName, got)
			}

			snapshot, err := test.Source.Fetch(ctx)
			if err != nil {
				t.Fatalf("fetch failed: %v", err)
			}
			if snapshot == nil {
				t.Fatal("fetch returned nil snapshot without error")
			}
			if snapshot.Records == nil {
				t.Error("snapshot records must be non-nil")
			}
			if snapshot.Source != s.SourceName {
				t.Errorf("expected snapshot source %s, got %s", s.SourceName, snapshot.Source)
			}
			if snapshot.FetchedAt.IsZero() {
				t.Error("FetchedAt not set")
			}
			if snapshot.Len() != test.WantRecords {
				t.Errorf("expected %d records, got %d", test.WantRecords, snapshot.Len())
			}

			if test.ValidateFunc != nil {
				if err := test.ValidateFunc(snapshot); err != nil {
					t.Errorf("custom validation failed: %v", err)
				}
			}
		})
	}
}

// ErrorContractTest validates that backend errors follow the taxonomy.
type ErrorContractTest struct {
	Name              string
	Source            source.Source
	ExpectedError     source.ErrorCategory
	ExpectedRetry     bool
	InvalidCollection bool
}

// Run executes an error contract test.
func (ect *ErrorContractTest) Run(t *testing.T) {
	t.Run(ect.Name, func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err := ect.Source.Fetch(ctx)
		if err == nil {
			t.Fatal("expected error but got none")
		}

		var se *source.SourceError
		if !errors.As(err, &se) {
			t.Fatalf("expected *source.SourceError, got %T: %v", err, err)
		}
		if se.Category != ect.ExpectedError {
			t.Errorf("expected error category %s, got %s", ect.ExpectedError, se.Category)
		}
		if se.Retryable != ect.ExpectedRetry {
			t.Errorf("expected retryable=%v, got %v", ect.ExpectedRetry, se.Retryable)
		}
		if se.Source != ect.Source.Name() {
			t.Errorf("expected error source %s, got %s", ect.Source.Name(), se.Source)
		}
		if got := errors.Is(err, source.ErrInvalidCollection); got != ect.InvalidCollection {
			t.Errorf("expected invalid collection=%v, got %v", ect.InvalidCollection, got)
		}
	})
}
