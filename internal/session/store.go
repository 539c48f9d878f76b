// Package session keeps in-memory planning sessions for the API server. Each
// session owns one meal sequence, and every edit replaces that sequence
// wholesale with the engine's result.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/macro-planner/internal/nutrition"
	"github.com/iwvelando/macro-planner/internal/suggest"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrConflict is returned when a session changed while a suggestion
	// was being generated for it.
	ErrConflict = errors.New("session changed during request")
	// ErrSuggestionsDisabled is returned by Suggest when the store has no provider.
	ErrSuggestionsDisabled = errors.New("suggestions are disabled")
)

// Session is a snapshot of one planning session.
type Session struct {
	ID               uuid.UUID                   `json:"id" yaml:"id"`
	CreatedAt        time.Time                   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt" yaml:"updatedAt"`
	Revision         int                         `json:"revision" yaml:"revision"`
	Profile          nutrition.PatientProfile    `json:"profile" yaml:"profile"`
	Estimate         nutrition.EstimateBreakdown `json:"estimate" yaml:"estimate"`
	Budget           nutrition.MacroTarget       `json:"budget" yaml:"budget"`
	Split            *nutrition.SplitOptions     `json:"split,omitempty" yaml:"split,omitempty"`
	Meals            nutrition.Sequence          `json:"meals" yaml:"meals"`
	AutoRedistribute bool                        `json:"autoRedistribute" yaml:"autoRedistribute"`
	CalorieFloor     int                         `json:"calorieFloor" yaml:"calorieFloor"`
	History          []nutrition.Adjustment      `json:"history" yaml:"history"`
	Prescriptions    []suggest.MealPrescription  `json:"prescriptions,omitempty" yaml:"prescriptions,omitempty"`
}

func (s *Session) clone() Session {
	out := *s
	out.Meals = s.Meals.Clone()
	if s.Split != nil {
		split := *s.Split
		out.Split = &split
	}
	out.History = append([]nutrition.Adjustment(nil), s.History...)
	if s.Prescriptions != nil {
		out.Prescriptions = make([]suggest.MealPrescription, len(s.Prescriptions))
		for i, p := range s.Prescriptions {
			p.Foods = append([]suggest.Food(nil), p.Foods...)
			out.Prescriptions[i] = p
		}
	}
	return out
}

// touch records a change that invalidates earlier prescriptions.
func (s *Session) touch(now time.Time) {
	s.UpdatedAt = now
	s.Revision++
}

// Store holds sessions keyed by id. It is safe for concurrent use.
type Store struct {
	logger   *zap.Logger
	defaults nutrition.EngineOptions
	provider suggest.Provider
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates an empty store. New sessions start with the given engine
// options. If logger is nil, it will use a no-op logger to prevent panics.
func NewStore(logger *zap.Logger, defaults nutrition.EngineOptions, provider suggest.Provider) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		logger:   logger,
		defaults: defaults,
		provider: provider,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create estimates the profile's daily target and opens a session for it.
func (st *Store) Create(profile nutrition.PatientProfile) (Session, error) {
	p, err := profile.Normalize()
	if err != nil {
		return Session{}, err
	}
	breakdown, err := nutrition.Breakdown(p)
	if err != nil {
		return Session{}, err
	}
	now := st.now()
	s := &Session{
		ID:               uuid.New(),
		CreatedAt:        now,
		UpdatedAt:        now,
		Profile:          p,
		Estimate:         breakdown,
		Budget:           breakdown.Target,
		Meals:            nutrition.Sequence{},
		AutoRedistribute: st.defaults.AutoRedistribute,
		CalorieFloor:     st.defaults.CalorieFloor,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Info("session created",
		zap.String("op", "session.Create"),
		zap.String("session", s.ID.String()),
		zap.Int("calories", s.Budget.TotalCalories),
	)
	return s.clone(), nil
}

// Get returns a snapshot of the session.
func (st *Store) Get(id uuid.UUID) (Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.clone(), nil
}

// Delete removes the session.
func (st *Store) Delete(id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(st.sessions, id)
	st.logger.Info("session deleted", zap.String("op", "session.Delete"), zap.String("session", id.String()))
	return nil
}

// Len returns the number of open sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// update runs fn on the live session under the write lock and returns a
// snapshot of the result. fn must leave the session untouched on error.
func (st *Store) update(id uuid.UUID, fn func(s *Session) error) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err := fn(s); err != nil {
		return Session{}, err
	}
	return s.clone(), nil
}

// Split divides the session's budget into meals, replacing any previous
// meals, adjustment history and prescriptions.
func (st *Store) Split(id uuid.UUID, opts nutrition.SplitOptions) (Session, error) {
	return st.update(id, func(s *Session) error {
		seq, err := nutrition.Split(s.Budget, opts)
		if err != nil {
			return err
		}
		s.Meals = seq
		s.Split = &opts
		s.History = nil
		s.Prescriptions = nil
		s.touch(st.now())
		st.logger.Debug("session split",
			zap.String("op", "session.Split"),
			zap.String("session", id.String()),
			zap.Int("meals", len(seq)),
		)
		return nil
	})
}

func (s *Session) engine(logger *zap.Logger) *nutrition.Engine {
	return nutrition.NewEngine(logger, nutrition.EngineOptions{
		AutoRedistribute: s.AutoRedistribute,
		CalorieFloor:     s.CalorieFloor,
	})
}

// apply installs an engine result as the session's sequence.
func (s *Session) apply(seq nutrition.Sequence, adj nutrition.Adjustment, now time.Time) {
	s.Meals = seq
	s.History = append(s.History, adj)
	s.Prescriptions = nil
	s.touch(now)
}

// AdjustCalories sets one meal's calories in the session.
func (st *Store) AdjustCalories(id uuid.UUID, mealID string, calories int) (Session, nutrition.Adjustment, error) {
	var adj nutrition.Adjustment
	s, err := st.update(id, func(s *Session) error {
		seq, a, err := s.engine(st.logger).AdjustCalories(s.Meals, mealID, calories)
		if err != nil {
			return err
		}
		adj = a
		s.apply(seq, a, st.now())
		return nil
	})
	return s, adj, err
}

// AdjustMacro sets one macro of one meal in the session.
func (st *Store) AdjustMacro(id uuid.UUID, mealID string, macro nutrition.Macro, grams int) (Session, nutrition.Adjustment, error) {
	var adj nutrition.Adjustment
	s, err := st.update(id, func(s *Session) error {
		seq, a, err := s.engine(st.logger).AdjustMacro(s.Meals, mealID, macro, grams)
		if err != nil {
			return err
		}
		adj = a
		s.apply(seq, a, st.now())
		return nil
	})
	return s, adj, err
}

// SetAutoRedistribute toggles redistribution for later edits.
func (st *Store) SetAutoRedistribute(id uuid.UUID, enabled bool) (Session, error) {
	return st.update(id, func(s *Session) error {
		s.AutoRedistribute = enabled
		s.UpdatedAt = st.now()
		return nil
	})
}

// Report measures the session's meals against its budget.
func (st *Store) Report(id uuid.UUID, opts nutrition.ReportOptions) (nutrition.DeviationReport, error) {
	s, err := st.Get(id)
	if err != nil {
		return nutrition.DeviationReport{}, err
	}
	return nutrition.Report(s.Meals, s.Budget, opts), nil
}

// Suggest asks the provider for prescriptions and stores them. The provider
// runs without the store lock held; if the session's meals change meanwhile
// the result is discarded with ErrConflict.
func (st *Store) Suggest(ctx context.Context, id uuid.UUID) (Session, error) {
	if st.provider == nil {
		return Session{}, ErrSuggestionsDisabled
	}
	snapshot, err := st.Get(id)
	if err != nil {
		return Session{}, err
	}

	prescriptions, err := st.provider.Suggest(ctx, snapshot.Meals)
	if err != nil {
		st.logger.Warn("suggestion provider failed",
			zap.String("op", "session.Suggest"),
			zap.String("session", id.String()),
			zap.Error(err),
		)
		return Session{}, fmt.Errorf("generating suggestions: %w", err)
	}

	return st.update(id, func(s *Session) error {
		if s.Revision != snapshot.Revision {
			return fmt.Errorf("%w: %s", ErrConflict, id)
		}
		s.Prescriptions = prescriptions
		s.UpdatedAt = st.now()
		return nil
	})
}

// ChangeQuantity rescales one prescribed food.
func (st *Store) ChangeQuantity(id uuid.UUID, mealID, foodID string, qty int) (Session, error) {
	return st.update(id, func(s *Session) error {
		for i, p := range s.Prescriptions {
			if p.MealID != mealID {
				continue
			}
			updated, err := suggest.ChangeQuantity(p, foodID, qty)
			if err != nil {
				return err
			}
			s.Prescriptions[i] = updated
			s.UpdatedAt = st.now()
			return nil
		}
		return fmt.Errorf("%w: no prescription for %s", nutrition.ErrMealNotFound, mealID)
	})
}
