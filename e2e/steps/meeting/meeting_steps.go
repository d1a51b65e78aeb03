package meeting

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetLastResponseStatus() int
	GetLastResponseHeader(name string) string
}

// RegisterSteps registers debenture link step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &meetingSteps{tc: tc}

	ctx.Step(`^I select debenture "([^"]*)"$`, steps.selectDebenture)
	ctx.Step(`^I should be redirected to "([^"]*)"$`, steps.redirectedTo)
}

type meetingSteps struct {
	tc TestContext
}

func (s *meetingSteps) selectDebenture(ctx context.Context, code string) error {
	return s.tc.GET("/debentures/"+code, nil)
}

func (s *meetingSteps) redirectedTo(ctx context.Context, target string) error {
	if status := s.tc.GetLastResponseStatus(); status != 302 {
		return fmt.Errorf("expected a 302 redirect, got %d", status)
	}
	if got := s.tc.GetLastResponseHeader("Location"); got != target {
		return fmt.Errorf("expected redirect to %q, got %q", target, got)
	}
	return nil
}
