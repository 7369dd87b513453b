package checkout

import (
	"errors"
	"fmt"

	"github.com/mytheresa/go-storefront/app/cart"
	"github.com/mytheresa/go-storefront/app/session"
	"github.com/shopspring/decimal"
)

var (
	// ErrCartEmpty is returned when a step needs at least one reconciled cart line.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrCustomerInfoMissing is returned when the payment step is reached before checkout.
	ErrCustomerInfoMissing = errors.New("customer info missing")
)

// Warning returns the notice shown when a guard turns the visitor away.
func Warning(err error) string {
	switch {
	case errors.Is(err, ErrCartEmpty):
		return "Your cart is empty!"
	case errors.Is(err, ErrCustomerInfoMissing):
		return "Please complete checkout information first."
	default:
		return err.Error()
	}
}

type State string

const (
	StateEmpty                  State = "EMPTY"
	StateCollectingInfo         State = "COLLECTING_INFO"
	StateInfoCollected          State = "INFO_COLLECTED"
	StateSelectingPayment       State = "SELECTING_PAYMENT"
	StatePaymentInstructionSent State = "PAYMENT_INSTRUCTION_SENT"
)

// InstructionsSent reports whether payment instructions went out for the current cart.
func (s State) InstructionsSent() bool {
	return s == StatePaymentInstructionSent
}

// StateOf derives the checkout state from the session and its reconciled cart.
// atPayment tells whether the visitor is currently on the payment step.
func StateOf(sess *session.Session, res cart.Result, atPayment bool) State {
	switch {
	case res.IsEmpty():
		return StateEmpty
	case !sess.HasCustomerInfo():
		return StateCollectingInfo
	case sess.SelectedPaymentMethod != "":
		return StatePaymentInstructionSent
	case atPayment:
		return StateSelectingPayment
	default:
		return StateInfoCollected
	}
}

// GuardCheckout allows the checkout step only with a non-empty cart.
func GuardCheckout(res cart.Result) error {
	if res.IsEmpty() {
		return ErrCartEmpty
	}
	return nil
}

// GuardPayment allows the payment step with a non-empty cart and collected
// customer info. The cart is checked first.
func GuardPayment(sess *session.Session, res cart.Result) error {
	if res.IsEmpty() {
		return ErrCartEmpty
	}
	if !sess.HasCustomerInfo() {
		return ErrCustomerInfoMissing
	}
	return nil
}

// SubmitCustomerInfo stores the form values verbatim and moves to INFO_COLLECTED.
// A payment method chosen earlier is dropped so the next payment step starts over.
func SubmitCustomerInfo(sess *session.Session, info session.CustomerInfo) State {
	sess.CustomerInfo = &info
	sess.SelectedPaymentMethod = ""
	sess.MarkModified()
	return StateInfoCollected
}

// SelectPaymentMethod records the chosen method and returns the message shown
// to the customer. No order is recorded; fulfilment happens over email.
func SelectPaymentMethod(sess *session.Session, method string) (State, string) {
	sess.SelectedPaymentMethod = method
	sess.MarkModified()
	return StatePaymentInstructionSent, PaymentUnavailableMessage(method)
}

func PaymentUnavailableMessage(method string) string {
	return fmt.Sprintf(
		"%s payment is not available through our online system. "+
			"Please check your email for instructions to complete your purchase.",
		method,
	)
}

// Summary describes what the customer asked for at the end of checkout.
type Summary struct {
	Customer      session.CustomerInfo
	PaymentMethod string
	Lines         []cart.Line
	Total         decimal.Decimal
}

func NewSummary(sess *session.Session, res cart.Result) Summary {
	s := Summary{
		PaymentMethod: sess.SelectedPaymentMethod,
		Lines:         res.Lines,
		Total:         res.Total,
	}
	if sess.CustomerInfo != nil {
		s.Customer = *sess.CustomerInfo
	}
	return s
}
