package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mytheresa/go-storefront/app/cart"
)

// ErrSessionNotFound is returned when a session id has no stored state.
var ErrSessionNotFound = errors.New("session not found")

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// CustomerInfo holds the checkout form fields exactly as submitted.
type CustomerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
}

// Session is the per-visitor state carried between requests.
type Session struct {
	ID                    string        `json:"-"`
	Cart                  cart.Cart     `json:"cart"`
	CustomerInfo          *CustomerInfo `json:"customer_info,omitempty"`
	SelectedPaymentMethod string        `json:"selected_payment_method,omitempty"`
	Flashes               []Flash       `json:"flashes,omitempty"`

	modified bool
}

func New() *Session {
	return &Session{
		ID: uuid.NewString(),
	}
}

func (s *Session) MarkModified() {
	s.modified = true
}

func (s *Session) Modified() bool {
	return s.modified
}

func (s *Session) HasCustomerInfo() bool {
	return s.CustomerInfo != nil
}

func (s *Session) AddFlash(level Level, message string) {
	s.Flashes = append(s.Flashes, Flash{Level: level, Message: message})
	s.modified = true
}

// PopFlashes returns pending flashes and clears them.
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	s.modified = true
	return flashes
}

// Store persists sessions by id.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
