package holdings

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	GetAdminToken() string
}

// RegisterSteps registers holder lookup step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &holdingsSteps{tc: tc}

	ctx.Step(`^I search holdings for national ID "([^"]*)"$`, steps.searchFor)
	ctx.Step(`^I list holdings with limit (\d+)$`, steps.listWithLimit)
	ctx.Step(`^I list holdings without the admin token$`, steps.listWithoutToken)
	ctx.Step(`^(\d+) holdings? should be returned$`, steps.holdingsReturned)
	ctx.Step(`^every holding should have "([^"]*)"$`, steps.everyHoldingHas)
}

type holdingsSteps struct {
	tc TestContext
}

func (s *holdingsSteps) searchFor(ctx context.Context, nationalID string) error {
	return s.tc.POST("/holdings/search", map[string]string{"national_id": nationalID})
}

func (s *holdingsSteps) listWithLimit(ctx context.Context, limit int) error {
	if s.tc.GetAdminToken() == "" {
		return godog.ErrPending
	}
	return s.tc.GET(fmt.Sprintf("/holdings?limit=%d", limit), map[string]string{
		"X-Admin-Token": s.tc.GetAdminToken(),
	})
}

func (s *holdingsSteps) listWithoutToken(ctx context.Context) error {
	return s.tc.GET("/holdings", nil)
}

func (s *holdingsSteps) holdings() ([]any, error) {
	v, err := s.tc.GetResponseField("holdings")
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("holdings is %T, not a list", v)
	}
	return list, nil
}

func (s *holdingsSteps) holdingsReturned(ctx context.Context, n int) error {
	list, err := s.holdings()
	if err != nil {
		return err
	}
	if len(list) != n {
		return fmt.Errorf("expected %d holdings, got %d", n, len(list))
	}
	return nil
}

func (s *holdingsSteps) everyHoldingHas(ctx context.Context, field string) error {
	list, err := s.holdings()
	if err != nil {
		return err
	}
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("holding %d is %T", i, item)
		}
		if v, ok := m[field]; !ok || v == "" {
			return fmt.Errorf("holding %d has no %q", i, field)
		}
	}
	return nil
}
