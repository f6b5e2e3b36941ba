package payments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dently/internal/catalog"
	"dently/internal/pending"
	"dently/internal/shared/config"
	"dently/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu          sync.Mutex
	status      Status
	verifyErr   error
	createErr   error
	sessions    []SessionRequest
	verifyCalls int
}

func (f *fakeGateway) CreatePaymentSession(_ context.Context, req SessionRequest) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.sessions = append(f.sessions, req)
	return &Session{TransID: "T123", PaymentURL: "https://pay.example/T123"}, nil
}

func (f *fakeGateway) VerifyPayment(context.Context, string) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	if f.verifyErr != nil {
		return "", f.verifyErr
	}
	return f.status, nil
}

type fakeMaterializer struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeMaterializer) Materialize(context.Context, *pending.Booking) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return uuid.New(), nil
}

func (f *fakeMaterializer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCatalog struct {
	service *catalog.Service
	err     error
}

func (f *fakeCatalog) GetServiceByID(context.Context, uuid.UUID) (*catalog.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

func (f *fakeCatalog) GetServiceBySlug(context.Context, string) (*catalog.Service, error) {
	return f.service, f.err
}

func (f *fakeCatalog) GetServiceByName(context.Context, string) (*catalog.Service, error) {
	return f.service, f.err
}

func (f *fakeCatalog) ListActiveServices(context.Context) ([]catalog.Service, error) {
	return nil, f.err
}

func testService() *catalog.Service {
	return &catalog.Service{
		ID:              uuid.New(),
		Name:            "Dentální hygiena",
		Slug:            "dentalni-hygiena",
		Price:           190000,
		DepositAmount:   50000,
		DurationMinutes: 60,
		Active:          true,
	}
}

func storedPending(t *testing.T, store pending.Store, serviceID uuid.UUID) string {
	t.Helper()
	id, err := store.Store(context.Background(), &pending.Booking{
		ServiceID:       serviceID,
		CustomerName:    "Jana Nováková",
		CustomerEmail:   "jana@example.com",
		CustomerPhone:   "+420777123456",
		AppointmentDate: "2025-03-14",
		AppointmentTime: "10:00",
		GDPRConsent:     true,
	})
	require.NoError(t, err)
	return id
}

func newTestService(gateway *fakeGateway, store pending.Store, svc *catalog.Service, mat *fakeMaterializer) Service {
	return NewService(gateway, store, &fakeCatalog{service: svc}, mat,
		config.BookingConfig{PendingTTL: 30 * time.Minute, CancellationCutoff: 24 * time.Hour, Currency: "CZK"},
		logger.GetDefault())
}

func TestCreateSession(t *testing.T) {
	gateway := &fakeGateway{}
	store := pending.NewMemoryStore(30*time.Minute, nil)
	svc := testService()
	sut := newTestService(gateway, store, svc, &fakeMaterializer{})

	id := storedPending(t, store, svc.ID)

	paymentURL, transID, err := sut.CreateSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/T123", paymentURL)
	assert.Equal(t, "T123", transID)

	require.Len(t, gateway.sessions, 1)
	req := gateway.sessions[0]
	assert.Equal(t, svc.DepositAmount, req.Amount, "session amount is the deposit, not the full price")
	assert.Equal(t, "CZK", req.Currency)
	assert.Equal(t, id, req.ExternalRef)
}

func TestCreateSessionExpiredPending(t *testing.T) {
	sut := newTestService(&fakeGateway{}, pending.NewMemoryStore(30*time.Minute, nil), testService(), &fakeMaterializer{})

	_, _, err := sut.CreateSession(context.Background(), "gone")
	assert.ErrorIs(t, err, pending.ErrNotFound)
}

func TestWebhookPaidMaterializesOnce(t *testing.T) {
	gateway := &fakeGateway{status: StatusPaid}
	store := pending.NewMemoryStore(30*time.Minute, nil)
	svc := testService()
	mat := &fakeMaterializer{}
	sut := newTestService(gateway, store, svc, mat)

	id := storedPending(t, store, svc.ID)
	n := &WebhookNotification{TransID: "T123", RefID: id, Status: "PAID"}

	require.NoError(t, sut.HandleWebhook(context.Background(), n))
	assert.Equal(t, 1, mat.Calls())
	assert.Equal(t, 1, gateway.verifyCalls, "status must be re-verified with the gateway")

	// Pending booking is gone after materialization.
	_, err := store.Get(context.Background(), id)
	assert.ErrorIs(t, err, pending.ErrNotFound)
}

func TestWebhookDuplicateDeliveriesSingleBooking(t *testing.T) {
	gateway := &fakeGateway{status: StatusPaid}
	store := pending.NewMemoryStore(30*time.Minute, nil)
	svc := testService()
	mat := &fakeMaterializer{}
	sut := newTestService(gateway, store, svc, mat)

	id := storedPending(t, store, svc.ID)
	n := &WebhookNotification{TransID: "T123", RefID: id, Status: "PAID"}

	const deliveries = 20
	var wg sync.WaitGroup
	errs := make([]error, deliveries)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = sut.HandleWebhook(context.Background(), n)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "delivery %d must be acknowledged", i)
	}
	assert.Equal(t, 1, mat.Calls(), "exactly one booking per pending id")
}

func TestWebhookCancelledDiscardsPending(t *testing.T) {
	gateway := &fakeGateway{status: StatusCancelled}
	store := pending.NewMemoryStore(30*time.Minute, nil)
	svc := testService()
	mat := &fakeMaterializer{}
	sut := newTestService(gateway, store, svc, mat)

	id := storedPending(t, store, svc.ID)
	n := &WebhookNotification{TransID: "T123", RefID: id, Status: "CANCELLED"}

	require.NoError(t, sut.HandleWebhook(context.Background(), n))
	assert.Equal(t, 0, mat.Calls(), "failed payment must never create a booking")

	_, err := store.Get(context.Background(), id)
	assert.ErrorIs(t, err, pending.ErrNotFound)
}

func TestWebhookPayloadSaysPaidButVerificationDisagrees(t *testing.T) {
	// The payload claims PAID; the gateway says CANCELLED. The gateway wins.
	gateway := &fakeGateway{status: StatusCancelled}
	store := pending.NewMemoryStore(30*time.Minute, nil)
	svc := testService()
	mat := &fakeMaterializer{}
	sut := newTestService(gateway, store, svc, mat)

	id := storedPending(t, store, svc.ID)
	n := &WebhookNotification{TransID: "T123", RefID: id, Status: "PAID"}

	require.NoError(t, sut.HandleWebhook(context.Background(), n))
	assert.Equal(t, 0, mat.Calls())
}

func TestWebhookVerificationFailure(t *testing.T) {
	gateway := &fakeGateway{verifyErr: errors.New("gateway down")}
	store := pending.NewMemoryStore(30*time.Minute, nil)
	svc := testService()
	mat := &fakeMaterializer{}
	sut := newTestService(gateway, store, svc, mat)

	id := storedPending(t, store, svc.ID)
	n := &WebhookNotification{TransID: "T123", RefID: id, Status: "PAID"}

	err := sut.HandleWebhook(context.Background(), n)
	assert.Error(t, err, "unverifiable webhook must be retried, not acted on")
	assert.Equal(t, 0, mat.Calls())

	// The pending booking survives for the retry.
	_, err = store.Get(context.Background(), id)
	assert.NoError(t, err)
}

func TestWebhookPendingStatusIsIgnored(t *testing.T) {
	gateway := &fakeGateway{status: StatusPending}
	store := pending.NewMemoryStore(30*time.Minute, nil)
	svc := testService()
	mat := &fakeMaterializer{}
	sut := newTestService(gateway, store, svc, mat)

	id := storedPending(t, store, svc.ID)
	n := &WebhookNotification{TransID: "T123", RefID: id, Status: "PENDING"}

	require.NoError(t, sut.HandleWebhook(context.Background(), n))
	assert.Equal(t, 0, mat.Calls())

	_, err := store.Get(context.Background(), id)
	assert.NoError(t, err, "pending booking must survive a non-final status")
}

func TestWebhookMaterializationFailurePropagates(t *testing.T) {
	gateway := &fakeGateway{status: StatusPaid}
	store := pending.NewMemoryStore(30*time.Minute, nil)
	svc := testService()
	mat := &fakeMaterializer{err: errors.New("calendar down")}
	sut := newTestService(gateway, store, svc, mat)

	id := storedPending(t, store, svc.ID)
	n := &WebhookNotification{TransID: "T123", RefID: id, Status: "PAID"}

	err := sut.HandleWebhook(context.Background(), n)
	assert.Error(t, err, "a paid-but-unmaterialized booking must fail loudly")
}
