package e2e

import (
	"github.com/cucumber/godog"

	"shareholder/e2e/steps/common"
	"shareholder/e2e/steps/holdings"
	"shareholder/e2e/steps/meeting"
	"shareholder/e2e/steps/ratelimit"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register holder lookup steps
	holdings.RegisterSteps(ctx, tc)

	// Register meeting and debenture link steps
	meeting.RegisterSteps(ctx, tc)

	// Register search throttling steps
	ratelimit.RegisterSteps(ctx, tc)
}
