package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/matcha/matcha-api/internal/domain/profile"
)

// Finalizer persists a complete draft.
type Finalizer interface {
	SaveDraft(ctx context.Context, draft *profile.Profile) error
}

// Outcome reports what a navigation call did.
type Outcome struct {
	Advanced      bool
	Finished      bool
	Fields        map[string]string
	MissingFields []string
	Err           error
}

// Controller drives one session through its steps. Calls are serialized.
type Controller struct {
	mu        sync.Mutex
	steps     []Step
	finalizer Finalizer
	photos    PhotoLister
	session   *Session
}

// NewController binds steps to a session. photos, when set, refreshes the
// draft's photo list before a finish is evaluated.
func NewController(steps []Step, finalizer Finalizer, photos PhotoLister, session *Session) *Controller {
	if session.Step >= len(steps) {
		session.Step = len(steps) - 1
	}
	if session.Step < 0 {
		session.Step = 0
	}
	return &Controller{steps: steps, finalizer: finalizer, photos: photos, session: session}
}

// Session returns the state backing the controller.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Current returns the active step.
func (c *Controller) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps[c.session.Step]
}

// Steps returns the step names in order.
func (c *Controller) Steps() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name()
	}
	return names
}

// Next saves the current step and advances. On the last step it finishes.
func (c *Controller) Next(ctx context.Context) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Done {
		return Outcome{Err: ErrAlreadyDone}
	}

	res := c.steps[c.session.Step].ValidateAndSave(ctx, c.session.Draft)
	if !res.OK() {
		return Outcome{Fields: res.Fields, Err: res.Err}
	}

	if c.session.Step == len(c.steps)-1 {
		return c.finish(ctx)
	}
	c.session.Step++
	c.touch()
	return Outcome{Advanced: true}
}

// Previous moves back without saving.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Step > 0 && !c.session.Done {
		c.session.Step--
		c.touch()
	}
}

// Skip advances past an optional step without running its save.
func (c *Controller) Skip(ctx context.Context) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Done {
		return Outcome{Err: ErrAlreadyDone}
	}
	if !c.steps[c.session.Step].Optional() {
		return Outcome{Err: ErrStepNotOptional}
	}

	if c.session.Step == len(c.steps)-1 {
		return c.finish(ctx)
	}
	c.session.Step++
	c.touch()
	return Outcome{Advanced: true}
}

// Finish persists the draft only when the completeness evaluator accepts it.
func (c *Controller) Finish(ctx context.Context) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Done {
		return Outcome{Err: ErrAlreadyDone}
	}
	return c.finish(ctx)
}

func (c *Controller) finish(ctx context.Context) Outcome {
	// Photos change outside the wizard, so the draft copy may be stale.
	if c.photos != nil {
		if err := loadPhotos(ctx, c.photos, c.session.Draft); err != nil {
			return Outcome{Err: err}
		}
	}
	draft := c.session.Draft.Profile()

	status := profile.EvaluateCompleteness(draft)
	if !status.IsComplete {
		return Outcome{MissingFields: status.MissingFields}
	}

	if err := c.finalizer.SaveDraft(ctx, draft); err != nil {
		return Outcome{Err: err}
	}
	c.session.Done = true
	c.touch()
	return Outcome{Finished: true}
}

func (c *Controller) touch() {
	c.session.UpdatedAt = time.Now()
}
