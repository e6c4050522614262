package transactionRepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"glowhub/models"
)

// MemoryTransactionRepo is a process-local TransactionRepository.
type MemoryTransactionRepo struct {
	mu  sync.Mutex
	txs map[string]models.Transaction
}

func NewMemoryTransactionRepo() *MemoryTransactionRepo {
	return &MemoryTransactionRepo{txs: make(map[string]models.Transaction)}
}

func (r *MemoryTransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.txs[tx.ID]; dup {
		return fmt.Errorf("transaction %s already exists", tx.ID)
	}
	r.txs[tx.ID] = *tx
	return nil
}

func (r *MemoryTransactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.txs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &tx, nil
}

func (r *MemoryTransactionRepo) UpdateStatus(ctx context.Context, id string, from, to models.PaymentStatus, receiptURL string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.txs[id]
	if !ok || tx.Status != from {
		return false, nil
	}
	tx.Status = to
	if receiptURL != "" {
		tx.ReceiptURL = receiptURL
	}
	tx.UpdatedAt = time.Now()
	r.txs[id] = tx
	return true, nil
}

func (r *MemoryTransactionRepo) SetGatewayRef(ctx context.Context, id, ref string) error {
	return r.update(id, func(tx *models.Transaction) { tx.GatewayRef = ref })
}

func (r *MemoryTransactionRepo) LinkBooking(ctx context.Context, id, bookingID string) error {
	return r.update(id, func(tx *models.Transaction) { tx.BookingID = bookingID })
}

func (r *MemoryTransactionRepo) update(id string, fn func(*models.Transaction)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.txs[id]
	if !ok {
		return ErrNotFound
	}
	fn(&tx)
	tx.UpdatedAt = time.Now()
	r.txs[id] = tx
	return nil
}
