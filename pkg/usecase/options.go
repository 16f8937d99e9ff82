package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/fieldline-hq/fieldline/pkg/domain/types"
	"github.com/fieldline-hq/fieldline/pkg/service/options"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// sessionIdleTimeout is how long an option session may sit untouched
// before the sweeper closes it
const sessionIdleTimeout = 30 * time.Minute

// OptionsUseCase manages option resolution sessions. A session holds one
// Resolver so a client filling in a form keeps its fetch dedup cache and
// staleness tracking across successive value changes.
type OptionsUseCase struct {
	repo   interfaces.Repository
	source interfaces.OptionSource

	mu       sync.Mutex
	sessions map[string]*optionSession
}

type optionSession struct {
	resolver *options.Resolver
	formID   string
	touched  time.Time
}

func NewOptionsUseCase(repo interfaces.Repository, source interfaces.OptionSource) *OptionsUseCase {
	return &OptionsUseCase{
		repo:     repo,
		source:   source,
		sessions: make(map[string]*optionSession),
	}
}

// Enabled reports whether a dynamic option source is configured
func (uc *OptionsUseCase) Enabled() bool {
	return uc.source != nil
}

// OpenSession creates a resolver session for one form and returns its ID
func (uc *OptionsUseCase) OpenSession(ctx context.Context, formID string) (string, error) {
	if !uc.Enabled() {
		return "", goerr.New("dynamic options are not configured")
	}

	form, err := uc.repo.Form().Get(ctx, formID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get form", goerr.V(FormIDKey, formID))
	}
	if form == nil {
		return "", goerr.Wrap(ErrFormNotFound, "form not found", goerr.V(FormIDKey, formID))
	}

	id := uuid.NewString()
	sess := &optionSession{
		resolver: options.New(form, uc.source),
		formID:   formID,
		touched:  time.Now(),
	}

	uc.mu.Lock()
	uc.sessions[id] = sess
	uc.mu.Unlock()

	return id, nil
}

// Resolve feeds the current form values to a session's resolver and
// returns the per-field option snapshot once in-flight fetches settle
func (uc *OptionsUseCase) Resolve(ctx context.Context, sessionID string, values model.FormValues) (map[types.FieldID]options.FieldSnapshot, error) {
	sess, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.resolver.Resolve(ctx, values); err != nil {
		return nil, goerr.Wrap(err, "failed to resolve options", goerr.V(SessionIDKey, sessionID))
	}

	return sess.resolver.Snapshot(), nil
}

// Refresh forces a refetch of one field's options, bypassing the dedup cache
func (uc *OptionsUseCase) Refresh(ctx context.Context, sessionID string, fieldID types.FieldID) (map[types.FieldID]options.FieldSnapshot, error) {
	sess, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.resolver.Refresh(ctx, fieldID); err != nil {
		return nil, goerr.Wrap(err, "failed to refresh options", goerr.V(SessionIDKey, sessionID), goerr.V(model.FieldIDKey, fieldID))
	}

	return sess.resolver.Snapshot(), nil
}

// CloseSession discards a session and its resolver
func (uc *OptionsUseCase) CloseSession(sessionID string) error {
	uc.mu.Lock()
	sess, ok := uc.sessions[sessionID]
	if ok {
		delete(uc.sessions, sessionID)
	}
	uc.mu.Unlock()

	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "option session not found", goerr.V(SessionIDKey, sessionID))
	}
	sess.resolver.Close()
	return nil
}

// SweepIdleSessions closes sessions untouched for longer than the idle
// timeout and returns how many were closed
func (uc *OptionsUseCase) SweepIdleSessions(now time.Time) int {
	uc.mu.Lock()
	var stale []*optionSession
	for id, sess := range uc.sessions {
		if now.Sub(sess.touched) > sessionIdleTimeout {
			stale = append(stale, sess)
			delete(uc.sessions, id)
		}
	}
	uc.mu.Unlock()

	for _, sess := range stale {
		sess.resolver.Close()
	}
	return len(stale)
}

func (uc *OptionsUseCase) session(id string) (*optionSession, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	sess, ok := uc.sessions[id]
	if !ok {
		return nil, goerr.Wrap(ErrSessionNotFound, "option session not found", goerr.V(SessionIDKey, id))
	}
	sess.touched = time.Now()
	return sess, nil
}
