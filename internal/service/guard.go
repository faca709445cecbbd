package service

import "sync"

// CheckoutGuard serializes checkouts per punto de venta. Invoice numbering is
// assigned remotely as ultimo autorizado + 1, so two concurrent checkouts on
// the same PDV would race for the same number; the guard admits one at a time
// and rejects the rest instead of queueing them.
type CheckoutGuard struct {
	mu    sync.Mutex
	enUso map[int]bool
}

func NewCheckoutGuard() *CheckoutGuard {
	return &CheckoutGuard{enUso: make(map[int]bool)}
}

// TryAcquire claims the punto de venta. Returns false if a checkout is
// already in flight for it.
func (g *CheckoutGuard) TryAcquire(ptoVta int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.enUso[ptoVta] {
		return false
	}
	g.enUso[ptoVta] = true
	return true
}

func (g *CheckoutGuard) Release(ptoVta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.enUso, ptoVta)
}
