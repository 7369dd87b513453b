package checkout

import (
	"testing"

	"github.com/mytheresa/go-storefront/app/cart"
	"github.com/mytheresa/go-storefront/app/session"
	"github.com/mytheresa/go-storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nonEmptyResult() cart.Result {
	return cart.Result{
		Lines: []cart.Line{{
			Key:       "1",
			Item:      models.Item{ID: 1, Title: "Shirt", CurrentPrice: decimal.RequireFromString("10.00")},
			Quantity:  2,
			LineTotal: decimal.RequireFromString("20.00"),
		}},
		Total: decimal.RequireFromString("20.00"),
	}
}

func TestGuardPayment(t *testing.T) {
	withInfo := session.New()
	withInfo.CustomerInfo = &session.CustomerInfo{}

	testCases := []struct {
		name        string
		sess        *session.Session
		res         cart.Result
		expectedErr error
	}{
		{
			name:        "Empty cart and no info: cart check wins",
			sess:        session.New(),
			res:         cart.Result{},
			expectedErr: ErrCartEmpty,
		},
		{
			name:        "Empty cart with info",
			sess:        withInfo,
			res:         cart.Result{},
			expectedErr: ErrCartEmpty,
		},
		{
			name:        "Cart without info",
			sess:        session.New(),
			res:         nonEmptyResult(),
			expectedErr: ErrCustomerInfoMissing,
		},
		{
			name: "Cart with info",
			sess: withInfo,
			res:  nonEmptyResult(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := GuardPayment(tc.sess, tc.res)
			if tc.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expectedErr)
			}
		})
	}
}

func TestGuardCheckout(t *testing.T) {
	assert.ErrorIs(t, GuardCheckout(cart.Result{}), ErrCartEmpty)
	assert.NoError(t, GuardCheckout(nonEmptyResult()))
}

func TestFlow(t *testing.T) {
	sess := session.New()
	res := nonEmptyResult()

	assert.Equal(t, StateEmpty, StateOf(sess, cart.Result{}, false))
	assert.Equal(t, StateCollectingInfo, StateOf(sess, res, false))

	// Empty fields are accepted as-is.
	state := SubmitCustomerInfo(sess, session.CustomerInfo{FirstName: "Ada", Email: ""})
	assert.Equal(t, StateInfoCollected, state)
	assert.True(t, sess.Modified())
	assert.Equal(t, "Ada", sess.CustomerInfo.FirstName)
	assert.Equal(t, StateInfoCollected, StateOf(sess, res, false))
	assert.Equal(t, StateSelectingPayment, StateOf(sess, res, true))

	state, msg := SelectPaymentMethod(sess, "Venmo")
	assert.Equal(t, StatePaymentInstructionSent, state)
	assert.Equal(t, "Venmo", sess.SelectedPaymentMethod)
	assert.Equal(t,
		"Venmo payment is not available through our online system. Please check your email for instructions to complete your purchase.",
		msg)
	assert.Equal(t, StatePaymentInstructionSent, StateOf(sess, res, true))

	summary := NewSummary(sess, res)
	assert.Equal(t, "Ada", summary.Customer.FirstName)
	assert.Equal(t, "Venmo", summary.PaymentMethod)
	assert.Len(t, summary.Lines, 1)
	assert.Equal(t, "20.00", summary.Total.StringFixed(2))
}

func TestReenteredCheckout(t *testing.T) {
	sess := session.New()
	res := nonEmptyResult()

	SubmitCustomerInfo(sess, session.CustomerInfo{FirstName: "Ada"})
	SelectPaymentMethod(sess, "Zelle")
	require.Equal(t, StatePaymentInstructionSent, StateOf(sess, res, true))

	state := SubmitCustomerInfo(sess, session.CustomerInfo{FirstName: "Grace"})

	assert.Equal(t, StateInfoCollected, state)
	assert.Empty(t, sess.SelectedPaymentMethod)
	assert.Equal(t, StateInfoCollected, StateOf(sess, res, false))
	assert.Equal(t, StateSelectingPayment, StateOf(sess, res, true))
	assert.False(t, StateOf(sess, res, true).InstructionsSent())
}

func TestWarning(t *testing.T) {
	assert.Equal(t, "Your cart is empty!", Warning(ErrCartEmpty))
	assert.Equal(t, "Please complete checkout information first.", Warning(ErrCustomerInfoMissing))
}
