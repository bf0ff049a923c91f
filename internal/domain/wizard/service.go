package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/domain/profile"
	"github.com/matcha/matcha-api/internal/pkg/logger"
)

// ProfileStore loads the stored profile and persists finished drafts.
type ProfileStore interface {
	GetMine(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	Finalizer
}

// Service runs onboarding sessions. Calls for the same user are serialized.
type Service struct {
	store    Store
	profiles ProfileStore
	names    NameSaver
	photos   PhotoLister

	locks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewService(store Store, profiles ProfileStore, names NameSaver, photos PhotoLister) *Service {
	return &Service{store: store, profiles: profiles, names: names, photos: photos}
}

func (s *Service) lock(userID uuid.UUID) func() {
	m, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Get returns the user's session, starting one seeded from the stored profile
// when none exists. flow only applies to a new session.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, flow Flow) (*StateResponse, error) {
	defer s.lock(userID)()

	c, err := s.controller(ctx, userID, flow, true)
	if err != nil {
		return nil, err
	}
	return stateFrom(c, Outcome{}), nil
}

// Next merges input into the draft, saves the current step and advances.
func (s *Service) Next(ctx context.Context, userID uuid.UUID, input *StepInput) (*StateResponse, error) {
	return s.navigate(ctx, userID, func(c *Controller) Outcome {
		if input != nil {
			// Merged even if the step then fails, so the user keeps what they typed.
			input.ApplyTo(c.Session().Draft)
		}
		return c.Next(ctx)
	})
}

// Previous moves back one step.
func (s *Service) Previous(ctx context.Context, userID uuid.UUID) (*StateResponse, error) {
	return s.navigate(ctx, userID, func(c *Controller) Outcome {
		c.Previous()
		return Outcome{}
	})
}

// Skip leaves an optional step without saving it.
func (s *Service) Skip(ctx context.Context, userID uuid.UUID) (*StateResponse, error) {
	return s.navigate(ctx, userID, func(c *Controller) Outcome { return c.Skip(ctx) })
}

// Finish persists the draft if it is complete.
func (s *Service) Finish(ctx context.Context, userID uuid.UUID) (*StateResponse, error) {
	return s.navigate(ctx, userID, func(c *Controller) Outcome { return c.Finish(ctx) })
}

// Abandon drops the session and its draft.
func (s *Service) Abandon(ctx context.Context, userID uuid.UUID) error {
	defer s.lock(userID)()
	return s.store.Delete(ctx, userID)
}

func (s *Service) navigate(ctx context.Context, userID uuid.UUID, move func(*Controller) Outcome) (*StateResponse, error) {
	defer s.lock(userID)()

	c, err := s.controller(ctx, userID, "", false)
	if err != nil {
		return nil, err
	}

	out := move(c)
	if err := s.store.Save(ctx, c.Session()); err != nil {
		return nil, fmt.Errorf("save wizard session: %w", err)
	}
	if out.Err != nil {
		return nil, out.Err
	}
	if out.Finished {
		logger.LogInfo(ctx, "Onboarding finished", "user_id", userID, "flow", string(c.Session().Flow))
	}
	return stateFrom(c, out), nil
}

func (s *Service) controller(ctx context.Context, userID uuid.UUID, flow Flow, create bool) (*Controller, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if session == nil {
		if !create {
			return nil, ErrSessionNotFound
		}
		p, err := s.profiles.GetMine(ctx, userID)
		if err != nil {
			return nil, err
		}
		session = &Session{
			UserID:    userID,
			Flow:      ParseFlow(string(flow)),
			Draft:     DraftFromProfile(p),
			UpdatedAt: time.Now(),
		}
		if err := s.store.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save wizard session: %w", err)
		}
	}

	return NewController(Steps(session.Flow, s.names, s.photos), s.profiles, s.photos, session), nil
}
