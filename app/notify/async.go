package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mytheresa/go-storefront/app/checkout"
)

// Async sends through next in the background so callers never wait on delivery.
// Each send gets its own timeout and outlives the caller's context.
// Failures are logged.
type Async struct {
	next    Notifier
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, timeout time.Duration) *Async {
	return &Async{next: next, timeout: timeout}
}

func (a *Async) SendPaymentInstructions(ctx context.Context, summary checkout.Summary) error {
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		if err := a.next.SendPaymentInstructions(ctx, summary); err != nil {
			log.Printf("Failed to send payment instructions to %q: %v", summary.Customer.Email, err)
		}
	}()
	return nil
}

// Wait blocks until every pending send has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
