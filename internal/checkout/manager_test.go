package checkout

import (
	"testing"
	"time"

	"fusefi/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "guest:session-1"

func newTestManager() *Manager {
	return NewManager(30*time.Minute, zerolog.Nop())
}

func advance(m *Manager, id uuid.UUID, t *testing.T) Session {
	t.Helper()
	s, err := m.SubmitShipping(id, testOwner, validShipping())
	require.NoError(t, err)
	require.Equal(t, StepBilling, s.Step)
	s, err = m.SubmitBilling(id, testOwner, model.BillingAddress{}, true)
	require.NoError(t, err)
	require.Equal(t, StepReview, s.Step)
	return s
}

func TestManager_Begin(t *testing.T) {
	m := newTestManager()

	prefill := model.ShippingAddress{FullName: "Jordan Reyes", Email: "jordan@example.com"}
	s := m.Begin(testOwner, prefill)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, StepShipping, s.Step)
	assert.Equal(t, prefill.FullName, s.Shipping.FullName)
	assert.Equal(t, prefill.Email, s.Shipping.Email)
	assert.True(t, s.SameAsShipping)
}

func TestManager_Get_OwnerScoped(t *testing.T) {
	m := newTestManager()
	s := m.Begin(testOwner, model.ShippingAddress{})

	got, err := m.Get(s.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	// Another owner probing the same id sees not-found, not forbidden
	_, err = m.Get(s.ID, "guest:someone-else")
	assert.Equal(t, model.ErrCheckoutNotFound, err)

	_, err = m.Get(uuid.New(), testOwner)
	assert.Equal(t, model.ErrCheckoutNotFound, err)
}

func TestManager_SubmitShipping_AdvancesOnValid(t *testing.T) {
	m := newTestManager()
	s := m.Begin(testOwner, model.ShippingAddress{})

	got, err := m.SubmitShipping(s.ID, testOwner, validShipping())

	require.NoError(t, err)
	assert.Equal(t, StepBilling, got.Step)
	assert.Equal(t, "Jordan Reyes", got.Shipping.FullName)
}

func TestManager_SubmitShipping_KeepsFieldsOnValidationFailure(t *testing.T) {
	m := newTestManager()
	s := m.Begin(testOwner, model.ShippingAddress{})

	addr := validShipping()
	addr.Email = "a@b"

	got, err := m.SubmitShipping(s.ID, testOwner, addr)

	require.Error(t, err)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidationFailed, domainErr.Code)

	// Step did not advance but the entered values survived
	assert.Equal(t, StepShipping, got.Step)
	assert.Equal(t, "a@b", got.Shipping.Email)

	stored, err := m.Get(s.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, "a@b", stored.Shipping.Email)
	assert.Equal(t, StepShipping, stored.Step)
}

func TestManager_SubmitShipping_WrongStep(t *testing.T) {
	m := newTestManager()
	s := m.Begin(testOwner, model.ShippingAddress{})
	advance(m, s.ID, t)

	_, err := m.SubmitShipping(s.ID, testOwner, validShipping())
	assert.Equal(t, model.ErrInvalidCheckoutStep, err)
}

func TestManager_SubmitBilling_SeparateAddress(t *testing.T) {
	m := newTestManager()
	s := m.Begin(testOwner, model.ShippingAddress{})
	_, err := m.SubmitShipping(s.ID, testOwner, validShipping())
	require.NoError(t, err)

	billing := model.BillingAddress{
		FullName: "Accounts Payable",
		Street:   "1 Corporate Plaza",
		City:     "Dallas",
		State:    "TX",
		Zip:      "75201",
	}

	got, err := m.SubmitBilling(s.ID, testOwner, billing, false)

	require.NoError(t, err)
	assert.Equal(t, StepReview, got.Step)
	assert.False(t, got.SameAsShipping)
	assert.Equal(t, billing, got.Billing)
}

func TestManager_SubmitBilling_ValidationFailureKeepsFields(t *testing.T) {
	m := newTestManager()
	s := m.Begin(testOwner, model.ShippingAddress{})
	_, err := m.SubmitShipping(s.ID, testOwner, validShipping())
	require.NoError(t, err)

	incomplete := model.BillingAddress{FullName: "Accounts Payable"}
	got, err := m.SubmitBilling(s.ID, testOwner, incomplete, false)

	require.Error(t, err)
	assert.Equal(t, StepBilling, got.Step)
	assert.Equal(t, incomplete, got.Billing)
	assert.False(t, got.SameAsShipping)
}

func TestManager_Back(t *testing.T) {
	m := newTestManager()
	s := m.Begin(testOwner, model.ShippingAddress{})

	// Back from shipping is not allowed
	_, err := m.Back(s.ID, testOwner)
	assert.Equal(t, model.ErrInvalidCheckoutStep, err)

	advance(m, s.ID, t)

	got, err := m.Back(s.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, StepBilling, got.Step)

	got, err = m.Back(s.ID, testOwner)
	require.NoError(t, err)
	assert.Equal(t, StepShipping, got.Step)

	// Entered fields survive the round trip
	assert.Equal(t, "Jordan Reyes", got.Shipping.FullName)
	assert.True(t, got.SameAsShipping)
}

func TestManager_MarkSubmitted(t *testing.T) {
	m := newTestManager()
	s := m.Begin(testOwner, model.ShippingAddress{})

	// Only a reviewed checkout can be submitted
	_, err := m.MarkSubmitted(s.ID, testOwner, "")
	assert.Equal(t, model.ErrInvalidCheckoutStep, err)

	advance(m, s.ID, t)

	got, err := m.MarkSubmitted(s.ID, testOwner, "deliver to loading dock B")
	require.NoError(t, err)
	assert.Equal(t, StepSubmitted, got.Step)
	assert.Equal(t, "deliver to loading dock B", got.OrderNotes)

	// Terminal: no further transitions
	_, err = m.Back(s.ID, testOwner)
	assert.Equal(t, model.ErrInvalidCheckoutStep, err)
	_, err = m.MarkSubmitted(s.ID, testOwner, "")
	assert.Equal(t, model.ErrInvalidCheckoutStep, err)
}

func TestManager_Expiry(t *testing.T) {
	m := NewManager(30*time.Minute, zerolog.Nop())

	current := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	s := m.Begin(testOwner, model.ShippingAddress{})

	// Still live just inside the TTL
	current = current.Add(29 * time.Minute)
	_, err := m.Get(s.ID, testOwner)
	require.NoError(t, err)

	// Activity refreshes the deadline
	_, err = m.SubmitShipping(s.ID, testOwner, validShipping())
	require.NoError(t, err)

	current = current.Add(29 * time.Minute)
	_, err = m.Get(s.ID, testOwner)
	require.NoError(t, err)

	// Idle past the TTL expires it
	current = current.Add(31 * time.Minute)
	_, err = m.Get(s.ID, testOwner)
	assert.Equal(t, model.ErrCheckoutNotFound, err)

	// A new Begin reaps the expired session from the map
	m.Begin(testOwner, model.ShippingAddress{})
	m.mu.RLock()
	_, stillThere := m.sessions[s.ID]
	m.mu.RUnlock()
	assert.False(t, stillThere)
}
