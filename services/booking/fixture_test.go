package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "glowhub/database/repository/booking"
	resourceRepo "glowhub/database/repository/resource"
	transactionRepo "glowhub/database/repository/transaction"
	userRepo "glowhub/database/repository/user"
	"glowhub/models"
	"glowhub/services/payment"
	"glowhub/services/tasks"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const testDate = "2025-03-14"

// Before opening on testDate, so no slot is in the past.
var testNow = time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testSalon() models.Resource {
	settings := models.DefaultShopSettings()
	return models.Resource{
		ID:       "salon-1",
		Name:     "Glamour Studio",
		Kind:     models.ResourceKindSalon,
		Currency: "PKR",
		Services: []models.Service{
			{ID: "svc-haircut", Name: "Haircut & Style", Price: 1500},
			{ID: "svc-manicure", Name: "Manicure", Price: 800},
		},
		Staff: []models.Staff{
			{ID: "staff-a", Name: "Ayesha"},
			{ID: "staff-b", Name: "Sana"},
		},
		Settings: &settings,
	}
}

type fakeReconciler struct {
	mu       sync.Mutex
	payloads []tasks.ReconcilePayload
}

func (r *fakeReconciler) Enqueue(ctx context.Context, p tasks.ReconcilePayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, p)
	return nil
}

func (r *fakeReconciler) Payloads() []tasks.ReconcilePayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tasks.ReconcilePayload(nil), r.payloads...)
}

type fixture struct {
	engine     *DefaultSlotEngine
	orch       *DefaultBookingOrchestrator
	bookings   *bookingRepo.MemoryBookingRepo
	resources  *resourceRepo.MemoryResourceRepo
	payments   *payment.DefaultPaymentService
	wallet     *payment.SimulatedProvider
	ledger     *userRepo.MemoryLedger
	reconciler *fakeReconciler
}

// newFixture wires the orchestrator against in-memory stores. Wallet and
// card payments approve after approveAfter; negative never approves.
func newFixture(t *testing.T, approveAfter time.Duration) *fixture {
	t.Helper()

	f := &fixture{
		bookings:   bookingRepo.NewMemoryBookingRepo(),
		resources:  resourceRepo.NewMemoryResourceRepo(testSalon()),
		wallet:     payment.NewSimulatedProvider(approveAfter, "https://receipts.glowhub.pk"),
		ledger:     userRepo.NewMemoryLedger(0),
		reconciler: &fakeReconciler{},
	}
	f.payments = &payment.DefaultPaymentService{
		Repo: transactionRepo.NewMemoryTransactionRepo(),
		Providers: map[models.PaymentMethod]payment.Provider{
			models.PaymentJazzCash:  f.wallet,
			models.PaymentEasyPaisa: f.wallet,
			models.PaymentCard:      f.wallet,
		},
		Settings: payment.Settings{CommissionRate: 0.15, PointsEarnDivisor: 100, Currency: "PKR"},
		Logger:   zap.NewNop(),
	}
	f.engine = &DefaultSlotEngine{
		Resources: f.resources,
		Bookings:  f.bookings,
		Clock:     fixedClock(testNow),
	}
	f.orch = &DefaultBookingOrchestrator{
		Engine:          f.engine,
		Bookings:        f.bookings,
		Payments:        f.payments,
		Ledger:          f.ledger,
		Reconciler:      f.reconciler,
		Pricing:         PricingRules{PeakMultiplier: 1.2, PromoCodes: map[string]float64{"GLOW10": 0.10}},
		Currency:        "PKR",
		PollInterval:    10 * time.Millisecond,
		MaxPollAttempts: 10,
		Logger:          zap.NewNop(),
	}
	return f
}

// withHolds adds Redis slot holds to both the engine and the orchestrator.
func (f *fixture) withHolds(t *testing.T) (*miniredis.Miniredis, *RedisSlotHolder) {
	t.Helper()
	mr, client := setupTestRedis(t)
	holder := NewRedisSlotHolder(client)
	f.engine.Holds = holder
	f.orch.Holds = holder
	return mr, holder
}

func slotRequest(serviceID string, minute int, method models.PaymentMethod) models.BookingRequest {
	return models.BookingRequest{
		ResourceID:    "salon-1",
		ServiceID:     serviceID,
		UserID:        "user-1",
		Date:          testDate,
		SlotID:        SlotID(testDate, minute),
		PaymentMethod: method,
		ContactNumber: "0300-1234567",
	}
}
