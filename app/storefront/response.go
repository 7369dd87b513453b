package storefront

import (
	"log"
	"net/http"

	"github.com/mytheresa/go-storefront/app/cart"
	"github.com/mytheresa/go-storefront/app/checkout"
	"github.com/mytheresa/go-storefront/app/render"
	"github.com/mytheresa/go-storefront/app/session"
	"github.com/mytheresa/go-storefront/models"
	"github.com/shopspring/decimal"
)

// response is what a page handler decides to send. It is written only after
// the session has been saved.
type response interface {
	write(w http.ResponseWriter, r *http.Request, h *Handler)
}

type redirectResponse struct {
	url string
}

func redirect(url string) response {
	return redirectResponse{url: url}
}

func (res redirectResponse) write(w http.ResponseWriter, r *http.Request, h *Handler) {
	http.Redirect(w, r, res.url, http.StatusFound)
}

type pageResponse struct {
	status int
	name   string
	page   render.Page
}

func page(name, title string, data any) response {
	return &pageResponse{
		status: http.StatusOK,
		name:   name,
		page:   render.Page{Title: title, Data: data},
	}
}

func notFound() response {
	return &pageResponse{
		status: http.StatusNotFound,
		name:   "not_found",
		page:   render.Page{Title: "Not found"},
	}
}

func serverError(err error) response {
	log.Printf("Request failed: %v", err)
	return &pageResponse{
		status: http.StatusInternalServerError,
		name:   "error",
		page:   render.Page{Title: "Error"},
	}
}

func (res *pageResponse) write(w http.ResponseWriter, r *http.Request, h *Handler) {
	if err := h.renderer.Render(w, res.status, res.name, res.page); err != nil {
		log.Printf("Failed to render %s: %v", res.name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// handle loads the session, runs fn and saves the session before writing the
// response. Rendered pages consume pending flashes.
func (h *Handler) handle(fn func(r *http.Request, sess *session.Session) response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := h.sessions.Load(ctx, r)

		res := fn(r, sess)
		if p, ok := res.(*pageResponse); ok {
			p.page.Flashes = sess.PopFlashes()
		}

		if err := h.sessions.Save(ctx, w, sess); err != nil {
			log.Printf("Failed to save session: %v", err)
			res = &pageResponse{
				status: http.StatusInternalServerError,
				name:   "error",
				page:   render.Page{Title: "Error"},
			}
		}

		res.write(w, r, h)
	}
}

type HomeData struct {
	Items []models.Item
}

type ItemDetailData struct {
	Item      *models.Item
	Related   []models.Item
	CartCount int
}

type StoreData struct {
	Items     []models.Item
	CartLines []cart.Line
	CartTotal decimal.Decimal
	CartCount int
}

type CartData struct {
	Lines []cart.Line
	Total decimal.Decimal
}

type CheckoutData struct {
	Lines    []cart.Line
	Total    decimal.Decimal
	Customer session.CustomerInfo
}

type PaymentData struct {
	Lines                 []cart.Line
	Total                 decimal.Decimal
	Customer              *session.CustomerInfo
	SelectedPaymentMethod string
	PaymentMethods        []string
	State                 checkout.State
}
