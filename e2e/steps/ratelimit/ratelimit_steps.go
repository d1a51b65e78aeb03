package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseHeader(name string) string
}

// RegisterSteps registers search throttling step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I search for "([^"]*)" (\d+) times in quick succession$`, steps.searchRepeatedly)
	ctx.Step(`^at least one search should be throttled$`, steps.atLeastOneThrottled)
	ctx.Step(`^the throttled response should carry a Retry-After header$`, steps.retryAfterPresent)
}

type ratelimitSteps struct {
	tc TestContext
	// State for tracking across steps
	statuses       []int
	retryAfterSeen string
}

func (s *ratelimitSteps) searchRepeatedly(ctx context.Context, nationalID string, times int) error {
	s.statuses = s.statuses[:0]
	s.retryAfterSeen = ""
	for i := 0; i < times; i++ {
		if err := s.tc.POST("/holdings/search", map[string]string{"national_id": nationalID}); err != nil {
			return err
		}
		status := s.tc.GetLastResponseStatus()
		s.statuses = append(s.statuses, status)
		if status == 429 && s.retryAfterSeen == "" {
			s.retryAfterSeen = s.tc.GetLastResponseHeader("Retry-After")
		}
	}
	return nil
}

func (s *ratelimitSteps) atLeastOneThrottled(ctx context.Context) error {
	for _, st := range s.statuses {
		if st == 429 {
			return nil
		}
	}
	return fmt.Errorf("no search was throttled: %v", s.statuses)
}

func (s *ratelimitSteps) retryAfterPresent(ctx context.Context) error {
	if s.retryAfterSeen == "" {
		return fmt.Errorf("throttled response had no Retry-After header")
	}
	if n, err := strconv.Atoi(s.retryAfterSeen); err != nil || n < 1 {
		return fmt.Errorf("Retry-After %q is not a positive number of seconds", s.retryAfterSeen)
	}
	return nil
}
