package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mudhasirp/Leather-Ecommerce-API/pkg/logger"
)

type undoStep struct {
	name string
	undo func(ctx context.Context) error
}

// compensation is a stack of undo actions for the writes made so far.
type compensation struct {
	steps []undoStep
}

func (c *compensation) push(name string, undo func(ctx context.Context) error) {
	c.steps = append(c.steps, undoStep{name: name, undo: undo})
}

// run undoes every step in reverse order. It ignores cancellation of ctx so
// that a rollback started by a cancelled request still completes, and keeps
// going past failed steps.
func (c *compensation) run(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var errs []error
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.undo(ctx); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("step", step.name).Msg("compensation step failed")
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}
	c.steps = nil
	return errors.Join(errs...)
}
