package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quantumconnections/internal/cache"
	"quantumconnections/internal/model"
	"quantumconnections/internal/question"
	"quantumconnections/internal/theme"
	"quantumconnections/internal/wizard"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrWrongStep       = errors.New("session is not on that step")
	ErrNoResult        = errors.New("result is not ready")
)

// NoticeUnreachable is shown when the loader finishes without a usable result.
const NoticeUnreachable = "تعذر الاتصال بالكون. حاول مرة أخرى."

const (
	matchBase   = 85
	matchSpread = 15 // 85..99
)

// flight is one in-progress resonance request.
type flight struct {
	attempt string
	done    chan struct{}
}

// SessionService drives a client's pass through the app: the input wizard,
// the loading screen with its single background request, and the result.
type SessionService struct {
	cache       cache.SessionCache
	auth        *AuthService
	resonance   *ResonanceService
	broadcaster Broadcaster
	logger      *zap.Logger
	minDisplay  time.Duration
	random      question.Source

	store   sync.Mutex // serialises read-modify-write of stored sessions
	mu      sync.Mutex
	flights map[string]*flight
	wg      sync.WaitGroup
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionCache cache.SessionCache,
	auth *AuthService,
	resonance *ResonanceService,
	minDisplay time.Duration,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		cache:      sessionCache,
		auth:       auth,
		resonance:  resonance,
		logger:     logger,
		minDisplay: minDisplay,
		random:     question.DefaultSource(),
		flights:    make(map[string]*flight),
	}
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetRandom replaces the source used for question rolls and match percentages.
func (s *SessionService) SetRandom(src question.Source) {
	s.random = src
}

// Start opens a new session at the names step
func (s *SessionService) Start(ctx context.Context) (*model.StartResponse, error) {
	m := wizard.New(s.random)
	session := &model.Session{
		ID:        uuid.New().String(),
		Step:      model.AppInput,
		Wizard:    m.State(),
		CreatedAt: time.Now(),
	}
	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.auth.GenerateSessionToken(session.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("session started",
		zap.String("session", session.ID),
		zap.String("category", string(session.Wizard.Record.Relationship)))

	return &model.StartResponse{
		SessionID: session.ID,
		Token:     token,
		Session:   BuildView(session),
	}, nil
}

// Get loads a session
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.cache.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SetParticipants records both names and gender tags
func (s *SessionService) SetParticipants(ctx context.Context, id, name1 string, gender1 model.Gender, name2 string, gender2 model.Gender) (*model.Session, error) {
	return s.mutate(ctx, id, func(m *wizard.Machine, _ *model.Session) error {
		return m.SetParticipants(name1, gender1, name2, gender2)
	})
}

// SetCategory selects the relationship category
func (s *SessionService) SetCategory(ctx context.Context, id string, cat model.Category) (*model.Session, error) {
	return s.mutate(ctx, id, func(m *wizard.Machine, _ *model.Session) error {
		return m.SetCategory(cat)
	})
}

// Advance leaves the names step
func (s *SessionService) Advance(ctx context.Context, id string) (*model.Session, error) {
	return s.mutate(ctx, id, func(m *wizard.Machine, _ *model.Session) error {
		return m.Advance()
	})
}

// Answer commits an option of the current question. The Q3 commit moves the
// session to SIMULATING and launches the resonance request.
func (s *SessionService) Answer(ctx context.Context, id string, index int) (*model.Session, error) {
	var finished bool
	session, err := s.mutate(ctx, id, func(m *wizard.Machine, session *model.Session) error {
		done, err := m.Choose(index)
		if err != nil || !done {
			return err
		}
		now := time.Now()
		finished = true
		session.Step = model.AppSimulating
		session.Attempt = uuid.New().String()
		session.SubmittedAt = &now
		session.Notice = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	if finished {
		s.launch(session.ID, session.Attempt, session.Wizard.Record)
	}
	return session, nil
}

// mutate applies a wizard operation to a session on the input screen.
func (s *SessionService) mutate(ctx context.Context, id string, fn func(m *wizard.Machine, session *model.Session) error) (*model.Session, error) {
	s.store.Lock()
	defer s.store.Unlock()

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step != model.AppInput {
		return nil, fmt.Errorf("%w: session is %s", ErrWrongStep, session.Step)
	}

	m := wizard.Restore(session.Wizard, s.random)
	if err := fn(m, session); err != nil {
		return nil, err
	}
	session.Wizard = m.State()

	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func (s *SessionService) launch(id, attempt string, record model.AnswerRecord) {
	f := &flight{attempt: attempt, done: make(chan struct{})}
	s.mu.Lock()
	s.flights[id] = f
	s.mu.Unlock()

	s.logger.Info("resonance requested",
		zap.String("session", id),
		zap.String("attempt", attempt),
		zap.String("category", string(record.Relationship)))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(f.done)

		// The request outlives the HTTP call that triggered it.
		outcome := s.resonance.Request(context.Background(), record)
		s.resolve(id, attempt, outcome)

		s.mu.Lock()
		if s.flights[id] == f {
			delete(s.flights, id)
		}
		s.mu.Unlock()
	}()
}

// resolve stores the outcome unless the session moved on in the meantime.
func (s *SessionService) resolve(id, attempt string, outcome model.Outcome) {
	s.store.Lock()
	defer s.store.Unlock()

	ctx := context.Background()
	session, err := s.Get(ctx, id)
	if err != nil {
		s.logger.Warn("resonance resolved for missing session", zap.String("session", id), zap.Error(err))
		return
	}
	if session.Step != model.AppSimulating || session.Attempt != attempt {
		s.logger.Info("stale resonance dropped",
			zap.String("session", id),
			zap.String("attempt", attempt))
		return
	}

	result := outcome.Result
	now := time.Now()
	session.Result = &result
	session.Fallback = outcome.Fallback
	session.Notice = outcome.Notice
	session.MatchPercent = matchBase + s.random.IntN(matchSpread)
	session.ResolvedAt = &now

	if err := s.cache.Set(ctx, session); err != nil {
		s.logger.Error("failed to save resonance", zap.String("session", id), zap.Error(err))
		return
	}
	s.logger.Info("resonance resolved",
		zap.String("session", id),
		zap.Bool("fallback", outcome.Fallback),
		zap.String("failure", string(outcome.Failure)))
}

// doneFor returns a channel closed when the session's request finishes. When
// no request is in flight for the attempt the channel is already closed.
func (s *SessionService) doneFor(id, attempt string) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.flights[id]; ok && f.attempt == attempt {
		return f.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Await blocks until both the minimum loader display time has passed since
// submission and the request has finished. stalled is called once if the
// display time passes first. The session then moves to RESULT, or back to
// INPUT with NoticeUnreachable when no result was stored. If the attempt
// was superseded meanwhile, the current session is returned untouched.
func (s *SessionService) Await(ctx context.Context, id string, stalled func()) (*model.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch session.Step {
	case model.AppResult:
		return session, nil
	case model.AppInput:
		return nil, fmt.Errorf("%w: nothing submitted", ErrWrongStep)
	}

	attempt := session.Attempt
	wait := s.minDisplay
	if session.SubmittedAt != nil {
		wait -= time.Since(*session.SubmittedAt)
	}
	done := s.doneFor(id, attempt)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		select {
		case <-done:
		default:
			if stalled != nil {
				stalled()
			}
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-done:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.finish(ctx, id, attempt)
}

// finish settles the joined attempt. A session that was reset, or reset
// and submitted again, is returned as it is.
func (s *SessionService) finish(ctx context.Context, id, attempt string) (*model.Session, error) {
	s.store.Lock()
	defer s.store.Unlock()

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step != model.AppSimulating || session.Attempt != attempt {
		return session, nil
	}

	if session.Result != nil {
		session.Step = model.AppResult
		if err := s.cache.Set(ctx, session); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		return session, nil
	}

	s.logger.Warn("loader finished without a result", zap.String("session", id))
	s.restart(session)
	session.Notice = NoticeUnreachable
	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Result returns a session that has reached the result screen
func (s *SessionService) Result(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step != model.AppResult || session.Result == nil {
		return nil, ErrNoResult
	}
	return session, nil
}

// Reset clears the session back to a fresh wizard. A request still in
// flight is left to finish and its outcome discarded. Open loader
// connections are told and then closed.
func (s *SessionService) Reset(ctx context.Context, id string) (*model.Session, error) {
	s.store.Lock()
	defer s.store.Unlock()

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.flights, id)
	s.mu.Unlock()

	s.restart(session)
	if err := s.cache.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("session reset", zap.String("session", id))
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(id, MsgSessionReset, BuildView(session))
		s.broadcaster.DisconnectSession(id)
	}
	return session, nil
}

func (s *SessionService) restart(session *model.Session) {
	m := wizard.New(s.random)
	session.Step = model.AppInput
	session.Wizard = m.State()
	session.Attempt = ""
	session.Result = nil
	session.Fallback = false
	session.Notice = ""
	session.MatchPercent = 0
	session.SubmittedAt = nil
	session.ResolvedAt = nil
}

// Wait blocks until background requests have finished. Used on shutdown.
func (s *SessionService) Wait() {
	s.wg.Wait()
}

// BuildView projects a session for the client. The current question is
// included on the input screen, the category palette on the result screen.
func BuildView(session *model.Session) *model.SessionView {
	v := &model.SessionView{
		ID:         session.ID,
		Step:       session.Step,
		WizardStep: session.Wizard.Step,
		Record:     session.Wizard.Record,
		Fallback:   session.Fallback,
		Notice:     session.Notice,
		Match:      session.MatchPercent,
	}

	switch session.Step {
	case model.AppInput:
		if phase, q, ok := wizard.Restore(session.Wizard, nil).CurrentQuestion(); ok {
			v.Phase = phase.String()
			v.Question = &q
		}
	case model.AppResult:
		if session.Result != nil {
			r := *session.Result
			if r.Quote == "" {
				r.Quote = model.DefaultQuote
			}
			v.Result = &r
		}
		p := theme.For(session.Wizard.Record.Relationship)
		v.Palette = &p
	}
	return v
}
