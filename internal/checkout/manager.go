package checkout

import (
	"sync"
	"time"

	"fusefi/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager owns all in-progress checkout sessions. Lookups are scoped to
// the owning cart session, so one caller can never see or drive another
// caller's checkout. Expired sessions are reaped lazily.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewManager creates a checkout session manager. Sessions idle longer
// than ttl are discarded.
func NewManager(ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger.With().Str("component", "checkout-manager").Logger(),
	}
}

// Begin starts a new checkout at the shipping step. The prefill address
// carries any name/email the identity gate supplied.
func (m *Manager) Begin(owner string, prefill model.ShippingAddress) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()

	now := m.now()
	s := &Session{
		ID:             uuid.New(),
		Owner:          owner,
		Step:           StepShipping,
		Shipping:       prefill,
		SameAsShipping: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.sessions[s.ID] = s

	m.logger.Debug().Str("checkout_id", s.ID.String()).Msg("checkout started")

	return *s
}

// Get returns a snapshot of the session, or ErrCheckoutNotFound when it
// does not exist, expired, or belongs to another owner.
func (m *Manager) Get(id uuid.UUID, owner string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, err := m.lookupLocked(id, owner)
	if err != nil {
		return Session{}, err
	}
	return *s, nil
}

// SubmitShipping records the shipping form and, when it validates,
// advances to the billing step. The entered values are kept either way.
func (m *Manager) SubmitShipping(id uuid.UUID, owner string, addr model.ShippingAddress) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookupLocked(id, owner)
	if err != nil {
		return Session{}, err
	}
	if s.Step != StepShipping {
		return Session{}, model.ErrInvalidCheckoutStep
	}

	s.Shipping = addr
	s.UpdatedAt = m.now()

	if err := ValidateShipping(addr); err != nil {
		return *s, err
	}

	s.Step = StepBilling
	return *s, nil
}

// SubmitBilling records the billing form and, when it validates,
// advances to the review step.
func (m *Manager) SubmitBilling(id uuid.UUID, owner string, addr model.BillingAddress, sameAsShipping bool) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookupLocked(id, owner)
	if err != nil {
		return Session{}, err
	}
	if s.Step != StepBilling {
		return Session{}, model.ErrInvalidCheckoutStep
	}

	s.Billing = addr
	s.SameAsShipping = sameAsShipping
	s.UpdatedAt = m.now()

	if err := ValidateBilling(addr, sameAsShipping); err != nil {
		return *s, err
	}

	s.Step = StepReview
	return *s, nil
}

// Back moves exactly one step back, preserving every entered field and
// triggering no re-validation. It is not available from the shipping
// step or after submission.
func (m *Manager) Back(id uuid.UUID, owner string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookupLocked(id, owner)
	if err != nil {
		return Session{}, err
	}

	switch s.Step {
	case StepBilling:
		s.Step = StepShipping
	case StepReview:
		s.Step = StepBilling
	default:
		return Session{}, model.ErrInvalidCheckoutStep
	}

	s.UpdatedAt = m.now()
	return *s, nil
}

// MarkSubmitted moves a reviewed checkout to its terminal state. It is
// called only after the external endpoint confirmed the submission.
func (m *Manager) MarkSubmitted(id uuid.UUID, owner, orderNotes string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookupLocked(id, owner)
	if err != nil {
		return Session{}, err
	}
	if s.Step != StepReview {
		return Session{}, model.ErrInvalidCheckoutStep
	}

	s.OrderNotes = orderNotes
	s.Step = StepSubmitted
	s.UpdatedAt = m.now()

	m.logger.Debug().Str("checkout_id", s.ID.String()).Msg("checkout submitted")

	return *s, nil
}

// lookupLocked finds a live session for the owner. Owner mismatches are
// reported as not-found so ids cannot be probed.
func (m *Manager) lookupLocked(id uuid.UUID, owner string) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok || s.Owner != owner || m.expired(s) {
		return nil, model.ErrCheckoutNotFound
	}
	return s, nil
}

func (m *Manager) expired(s *Session) bool {
	return m.now().Sub(s.UpdatedAt) > m.ttl
}

func (m *Manager) pruneLocked() {
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
		}
	}
}
