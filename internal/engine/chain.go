package engine

import (
	"context"
	"fmt"
	"time"

	"imagelab/internal/raster"
)

// Step is one operator call in a chain.
type Step struct {
	Operator Operator
	Config   Config
}

// StepHook observes a completed step. It runs before the next step starts.
type StepHook func(i int, step Step, res *Result, elapsed time.Duration)

// Chain feeds each step's output into the next step.
type Chain struct {
	steps []Step
}

// NewChain returns a chain over steps, run in order.
func NewChain(steps ...Step) *Chain {
	return &Chain{steps: steps}
}

// Validate checks every step before any of them runs.
func (c *Chain) Validate() error {
	for i, step := range c.steps {
		if err := step.Config.Validate(step.Operator); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Operator, err)
		}
	}
	return nil
}

// Execute runs the steps in order. Cancellation is checked between steps;
// a running operator always completes. The returned results hold one entry
// per executed step. Hooks are called after each successful step.
func (c *Chain) Execute(ctx context.Context, e *Engine, input *raster.Buffer, hooks ...StepHook) ([]*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	current := input
	results := make([]*Result, 0, len(c.steps))
	for i, step := range c.steps {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		start := time.Now()
		res, err := e.Apply(current, step.Operator, step.Config)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) failed: %w", i, step.Operator, err)
		}
		elapsed := time.Since(start)
		for _, hook := range hooks {
			hook(i, step, res, elapsed)
		}
		results = append(results, res)
		current = res.Buffer
	}
	return results, nil
}

// AddStep appends step to the end of the chain.
func (c *Chain) AddStep(step Step) {
	c.steps = append(c.steps, step)
}

// StepCount returns the number of steps.
func (c *Chain) StepCount() int {
	return len(c.steps)
}

// GetStepNames returns the operator name of each step.
func (c *Chain) GetStepNames() []string {
	names := make([]string, len(c.steps))
	for i, step := range c.steps {
		names[i] = step.Operator.String()
	}
	return names
}
