package render

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mytheresa/go-storefront/app/cart"
	"github.com/mytheresa/go-storefront/app/checkout"
	"github.com/mytheresa/go-storefront/app/session"
	"github.com/mytheresa/go-storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	item := models.Item{
		ID:            3,
		Title:         "Desk lamp",
		Vendor:        "Amazon",
		OriginalPrice: decimal.RequireFromString("40.00"),
		CurrentPrice:  decimal.RequireFromString("30.00"),
		Images:        []models.ItemImage{{Image: "item_images/lamp.jpg", AltText: "Lamp", IsPrimary: true}},
	}

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "home", Page{
		Title:   "Home",
		Flashes: []session.Flash{{Level: session.LevelSuccess, Message: "Desk lamp added to your cart!"}},
		Data:    struct{ Items []models.Item }{Items: []models.Item{item}},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "Home | Storefront")
	assert.Contains(t, body, "Desk lamp added to your cart!")
	assert.Contains(t, body, `href="/item/3/"`)
	assert.Contains(t, body, "$30.00")
	assert.Contains(t, body, "-25.00%")
	assert.Contains(t, body, "item_images/lamp.jpg")
}

func TestRenderStaticPages(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	for _, page := range []string{"how_it_works", "about", "policy", "contact", "not_found", "error"} {
		t.Run(page, func(t *testing.T) {
			rec := httptest.NewRecorder()
			assert.NoError(t, r.Render(rec, http.StatusOK, page, Page{}))
			assert.NotEmpty(t, rec.Body.String())
		})
	}
}

type paymentData struct {
	Lines                 []cart.Line
	Total                 decimal.Decimal
	Customer              *session.CustomerInfo
	SelectedPaymentMethod string
	PaymentMethods        []string
	State                 checkout.State
}

func TestRenderPaymentState(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	testCases := []struct {
		name       string
		state      checkout.State
		method     string
		contains   []string
		notContain []string
	}{
		{
			name:       "Selecting payment",
			state:      checkout.StateSelectingPayment,
			contains:   []string{`data-state="SELECTING_PAYMENT"`, "Choose how you would like to pay."},
			notContain: []string{"We have emailed instructions", "checked"},
		},
		{
			name:       "Instructions sent",
			state:      checkout.StatePaymentInstructionSent,
			method:     "Venmo",
			contains:   []string{`data-state="PAYMENT_INSTRUCTION_SENT"`, "Selected payment method: Venmo", "We have emailed instructions", `value="Venmo" checked`},
			notContain: []string{"Choose how you would like to pay."},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			err := r.Render(rec, http.StatusOK, "payment", Page{Title: "Payment", Data: paymentData{
				Total:                 decimal.RequireFromString("12.00"),
				Customer:              &session.CustomerInfo{FirstName: "Ada"},
				SelectedPaymentMethod: tc.method,
				PaymentMethods:        []string{"Zelle", "Venmo"},
				State:                 tc.state,
			}})
			require.NoError(t, err)

			body := rec.Body.String()
			for _, s := range tc.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tc.notContain {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	assert.Error(t, r.Render(rec, http.StatusOK, "missing", Page{}))
	assert.Empty(t, rec.Body.String())
}
