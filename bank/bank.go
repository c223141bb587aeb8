package bank

import (
	"errors"
	"sync"
)

var ErrNegativeAmount = errors.New("amount must not be negative")

// MemoryBank holds one player's chip balance in memory. It is safe for
// concurrent use.
type MemoryBank struct {
	mu      sync.Mutex
	balance int
}

func NewMemoryBank(balance int) *MemoryBank {
	return &MemoryBank{balance: balance}
}

func (b *MemoryBank) Balance() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance
}

// Debit takes amount from the balance, or nothing at all. The balance is
// decremented first and restored if it went negative, so two concurrent
// debits can never both succeed against the same chips.
func (b *MemoryBank) Debit(amount int) bool {
	if amount < 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.balance -= amount
	if b.balance < 0 {
		b.balance += amount
		return false
	}
	return true
}

func (b *MemoryBank) Credit(amount int) {
	if amount <= 0 {
		return
	}
	b.mu.Lock()
	b.balance += amount
	b.mu.Unlock()
}

// Deposit adds chips from outside the game, such as a top-up.
func (b *MemoryBank) Deposit(amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	b.Credit(amount)
	return nil
}
