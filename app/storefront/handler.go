package storefront

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/mytheresa/go-storefront/app/cart"
	"github.com/mytheresa/go-storefront/app/checkout"
	"github.com/mytheresa/go-storefront/app/notify"
	"github.com/mytheresa/go-storefront/app/render"
	"github.com/mytheresa/go-storefront/app/session"
	"github.com/mytheresa/go-storefront/models"
)

const relatedItemsLimit = 4

// PaymentMethods are offered on the payment page. Any submitted value is accepted.
var PaymentMethods = []string{"Zelle", "Venmo", "Cash App", "PayPal", "Bank Transfer"}

type ItemProvider interface {
	GetActiveItems(ctx context.Context) ([]models.Item, error)
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	GetActiveByID(ctx context.Context, id uint) (*models.Item, error)
	GetRelatedItems(ctx context.Context, item *models.Item, limit int) ([]models.Item, error)
}

type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, p render.Page) error
}

type SessionManager interface {
	Load(ctx context.Context, r *http.Request) *session.Session
	Save(ctx context.Context, w http.ResponseWriter, sess *session.Session) error
}

type Handler struct {
	items    ItemProvider
	sessions SessionManager
	renderer Renderer
	notifier notify.Notifier
}

func NewHandler(items ItemProvider, sessions SessionManager, renderer Renderer, notifier notify.Notifier) *Handler {
	return &Handler{
		items:    items,
		sessions: sessions,
		renderer: renderer,
		notifier: notifier,
	}
}

// Routes registers the storefront pages on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handle(h.HandleHome))
	mux.HandleFunc("GET /item/{id}/{$}", h.handle(h.HandleItemDetail))
	mux.HandleFunc("/add-to-cart/{id}/{$}", h.handle(h.HandleAddToCart))
	mux.HandleFunc("/remove-from-cart/{id}/{$}", h.handle(h.HandleRemoveFromCart))
	mux.HandleFunc("GET /store/{$}", h.handle(h.HandleStore))
	mux.HandleFunc("GET /cart/{$}", h.handle(h.HandleCart))
	mux.HandleFunc("GET /checkout/{$}", h.handle(h.HandleCheckout))
	mux.HandleFunc("POST /checkout/{$}", h.handle(h.HandleCheckout))
	mux.HandleFunc("GET /payment/{$}", h.handle(h.HandlePayment))
	mux.HandleFunc("POST /payment/{$}", h.handle(h.HandlePayment))
	mux.HandleFunc("GET /how-it-works/{$}", h.handle(h.static("how_it_works", "How it works")))
	mux.HandleFunc("GET /about/{$}", h.handle(h.static("about", "About")))
	mux.HandleFunc("GET /policy/{$}", h.handle(h.static("policy", "Policy")))
	mux.HandleFunc("GET /contact/{$}", h.handle(h.static("contact", "Contact")))
	mux.HandleFunc("/", h.handle(func(r *http.Request, sess *session.Session) response {
		return notFound()
	}))
}

func (h *Handler) HandleHome(r *http.Request, sess *session.Session) response {
	items, err := h.items.GetActiveItems(r.Context())
	if err != nil {
		return serverError(fmt.Errorf("list items: %w", err))
	}
	return page("home", "", HomeData{Items: items})
}

func (h *Handler) HandleItemDetail(r *http.Request, sess *session.Session) response {
	id, ok := pathID(r)
	if !ok {
		return notFound()
	}

	item, err := h.items.GetActiveByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrItemNotFound) {
			return notFound()
		}
		return serverError(fmt.Errorf("get item %d: %w", id, err))
	}

	related, err := h.items.GetRelatedItems(r.Context(), item, relatedItemsLimit)
	if err != nil {
		return serverError(fmt.Errorf("related items for %d: %w", id, err))
	}

	return page("item_detail", item.Title, ItemDetailData{
		Item:      item,
		Related:   related,
		CartCount: sess.Cart.Count(),
	})
}

func (h *Handler) HandleAddToCart(r *http.Request, sess *session.Session) response {
	id, ok := pathID(r)
	if !ok {
		return notFound()
	}

	if r.Method == http.MethodPost {
		if err := h.addToCart(r.Context(), sess, id); err != nil {
			sess.AddFlash(session.LevelError, fmt.Sprintf("Error adding to cart: %v", err))
		}
	}

	return redirect(fmt.Sprintf("/item/%d/", id))
}

func (h *Handler) addToCart(ctx context.Context, sess *session.Session, id uint) error {
	item, err := h.items.GetActiveByID(ctx, id)
	if err != nil {
		return err
	}
	if err := cart.Add(&sess.Cart, item); err != nil {
		return err
	}
	sess.MarkModified()
	sess.AddFlash(session.LevelSuccess, fmt.Sprintf("%s added to your cart!", item.Title))
	return nil
}

func (h *Handler) HandleRemoveFromCart(r *http.Request, sess *session.Session) response {
	id, ok := pathID(r)
	if !ok {
		return notFound()
	}

	if r.Method == http.MethodPost {
		h.removeFromCart(r.Context(), sess, id)
	}

	return redirect("/cart/")
}

func (h *Handler) removeFromCart(ctx context.Context, sess *session.Session, id uint) {
	item, err := h.items.GetByID(ctx, id)
	if err != nil && !errors.Is(err, models.ErrItemNotFound) {
		sess.AddFlash(session.LevelError, fmt.Sprintf("Error removing from cart: %v", err))
		return
	}

	entry, err := cart.Remove(&sess.Cart, id)
	if err != nil {
		sess.AddFlash(session.LevelError, "Item not in cart")
		return
	}
	sess.MarkModified()

	title := entry.Name
	if item != nil {
		title = item.Title
	}
	sess.AddFlash(session.LevelSuccess, fmt.Sprintf("%s removed from cart", title))
}

func (h *Handler) HandleStore(r *http.Request, sess *session.Session) response {
	items, err := h.items.GetActiveItems(r.Context())
	if err != nil {
		return serverError(fmt.Errorf("list items: %w", err))
	}

	res, err := h.reconcile(r.Context(), sess)
	if err != nil {
		return serverError(err)
	}

	return page("store", "Store", StoreData{
		Items:     items,
		CartLines: res.Lines,
		CartTotal: res.Total,
		CartCount: len(res.Lines),
	})
}

func (h *Handler) HandleCart(r *http.Request, sess *session.Session) response {
	res, err := h.reconcile(r.Context(), sess)
	if err != nil {
		return serverError(err)
	}
	return page("cart", "Cart", CartData{Lines: res.Lines, Total: res.Total})
}

func (h *Handler) HandleCheckout(r *http.Request, sess *session.Session) response {
	res, err := h.reconcile(r.Context(), sess)
	if err != nil {
		return serverError(err)
	}

	if err := checkout.GuardCheckout(res); err != nil {
		sess.AddFlash(session.LevelWarning, checkout.Warning(err))
		return redirect("/store/")
	}

	if r.Method == http.MethodPost {
		checkout.SubmitCustomerInfo(sess, customerInfoFromForm(r))
		return redirect("/payment/")
	}

	data := CheckoutData{Lines: res.Lines, Total: res.Total}
	if sess.CustomerInfo != nil {
		data.Customer = *sess.CustomerInfo
	}
	return page("checkout", "Checkout", data)
}

func (h *Handler) HandlePayment(r *http.Request, sess *session.Session) response {
	res, err := h.reconcile(r.Context(), sess)
	if err != nil {
		return serverError(err)
	}

	if err := checkout.GuardPayment(sess, res); err != nil {
		sess.AddFlash(session.LevelWarning, checkout.Warning(err))
		if errors.Is(err, checkout.ErrCustomerInfoMissing) {
			return redirect("/checkout/")
		}
		return redirect("/store/")
	}

	if r.Method == http.MethodPost {
		_, msg := checkout.SelectPaymentMethod(sess, r.PostFormValue("payment_method"))
		sess.AddFlash(session.LevelInfo, msg)

		if err := h.notifier.SendPaymentInstructions(r.Context(), checkout.NewSummary(sess, res)); err != nil {
			log.Printf("Failed to send payment instructions: %v", err)
		}
		return redirect("/payment/")
	}

	return page("payment", "Payment", PaymentData{
		Lines:                 res.Lines,
		Total:                 res.Total,
		Customer:              sess.CustomerInfo,
		SelectedPaymentMethod: sess.SelectedPaymentMethod,
		PaymentMethods:        PaymentMethods,
		State:                 checkout.StateOf(sess, res, true),
	})
}

func (h *Handler) static(name, title string) func(r *http.Request, sess *session.Session) response {
	return func(r *http.Request, sess *session.Session) response {
		return page(name, title, nil)
	}
}

// reconcile runs cart reconciliation and flags the session when entries were dropped.
func (h *Handler) reconcile(ctx context.Context, sess *session.Session) (cart.Result, error) {
	res, err := cart.Reconcile(ctx, &sess.Cart, h.items)
	if err != nil {
		return res, fmt.Errorf("reconcile cart: %w", err)
	}
	if res.Changed() {
		sess.MarkModified()
	}
	return res, nil
}

func customerInfoFromForm(r *http.Request) session.CustomerInfo {
	return session.CustomerInfo{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Email:     r.PostFormValue("email"),
		Phone:     r.PostFormValue("phone"),
		Address:   r.PostFormValue("address"),
		City:      r.PostFormValue("city"),
		State:     r.PostFormValue("state"),
		ZipCode:   r.PostFormValue("zip_code"),
	}
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
