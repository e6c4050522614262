package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"glowhub/models"
)

// SimulatedProvider stands in for mobile wallets: every charge is approved
// once ApproveAfter has elapsed. A negative ApproveAfter never approves.
type SimulatedProvider struct {
	ApproveAfter   time.Duration
	ReceiptBaseURL string
	// Decline, when set, fails matching charges instead of approving them.
	Decline func(tx models.Transaction) bool
	Now     func() time.Time

	mu      sync.Mutex
	charges map[string]simulatedCharge
}

type simulatedCharge struct {
	startedAt time.Time
	declined  bool
	refunded  bool
}

func NewSimulatedProvider(approveAfter time.Duration, receiptBaseURL string) *SimulatedProvider {
	return &SimulatedProvider{
		ApproveAfter:   approveAfter,
		ReceiptBaseURL: strings.TrimRight(receiptBaseURL, "/"),
		charges:        make(map[string]simulatedCharge),
	}
}

func (p *SimulatedProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *SimulatedProvider) Charge(ctx context.Context, tx models.Transaction) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.charges == nil {
		p.charges = make(map[string]simulatedCharge)
	}
	p.charges[tx.ID] = simulatedCharge{
		startedAt: p.now(),
		declined:  p.Decline != nil && p.Decline(tx),
	}
	return tx.ID, nil
}

func (p *SimulatedProvider) Status(ctx context.Context, ref string) (ProviderStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.charges[ref]
	if !ok {
		return ProviderStatus{Status: models.PaymentFailed}, nil
	}
	if p.ApproveAfter < 0 || p.now().Sub(c.startedAt) < p.ApproveAfter {
		return ProviderStatus{Status: models.PaymentPendingVerification}, nil
	}
	if c.declined {
		return ProviderStatus{Status: models.PaymentFailed}, nil
	}
	return ProviderStatus{
		Status:     models.PaymentPaid,
		ReceiptURL: fmt.Sprintf("%s/%s.pdf", p.ReceiptBaseURL, ref),
	}, nil
}

func (p *SimulatedProvider) Refund(ctx context.Context, ref string, amount int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.charges[ref]
	if !ok {
		return fmt.Errorf("unknown charge %s", ref)
	}
	c.refunded = true
	p.charges[ref] = c
	return nil
}

// Refunded reports whether ref was refunded.
func (p *SimulatedProvider) Refunded(ref string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.charges[ref].refunded
}
