package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Son-2003/e-commerse-sub000/internal/api"
	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/format"
	"github.com/Son-2003/e-commerse-sub000/internal/storage"
)

// Query parameters the external payment provider redirects back with.
const (
	returnStatusPaid      = "PAID"
	returnStatusCancelled = "CANCELLED"
	returnCodeSuccess     = "00"
)

var (
	ErrEmptyCart           = errors.New("nothing to check out")
	ErrSubmitInProgress    = errors.New("a submission is already in progress")
	ErrNoPendingOrder      = errors.New("no pending order to confirm")
	IllegalTransitionError = errors.New("illegal checkout state transition")
)

// OrderAPI and PaymentAPI are the two remote surfaces a submission touches.
type OrderAPI interface {
	Create(ctx context.Context, draft *domain.OrderDraft) (*domain.OrderResponse, error)
}

type PaymentAPI interface {
	CreateCheckoutLink(ctx context.Context, req api.CheckoutLinkRequest) (*api.CheckoutLink, error)
}

// CartSource is the slice of the global store checkout reads and clears.
type CartSource interface {
	CheckoutLines() []domain.CartLine
	UsingBuyNow() bool
	ClearBuyNow()
	ClearCart(ctx context.Context) error
}

// Machine drives one checkout flow: Idle → Submitting → OrderCreated →
// {AwaitingPayment | Completed} → {Completed | Failed}. A BANK submission
// suspends at AwaitingPayment while the browser is on the external payment
// page; the only resumption signal is the return URL's query parameters,
// read against the pending order persisted before leaving.
type Machine struct {
	mu        sync.Mutex
	status    domain.CheckoutStatus
	cart      CartSource
	kv        storage.KV
	orders    OrderAPI
	payments  PaymentAPI
	returnURL string
	cancelURL string
	confirmed *domain.OrderResponse
	lastError string
}

func NewMachine(cart CartSource, kv storage.KV, orders OrderAPI, payments PaymentAPI, returnURL, cancelURL string) *Machine {
	return &Machine{
		status:    domain.CheckoutStatusIdle,
		cart:      cart,
		kv:        kv,
		orders:    orders,
		payments:  payments,
		returnURL: returnURL,
		cancelURL: cancelURL,
	}
}

// Result is what a successful submission yields. A non-empty RedirectURL
// means the flow is suspended and the browser must leave for the external
// checkout page.
type Result struct {
	Order       *domain.OrderResponse
	RedirectURL string
}

// Submit validates the form, creates the order and branches on the payment
// method. Validation failure issues no network call. A remote failure puts
// the machine back at Idle; there is no retry, the user resubmits.
func (m *Machine) Submit(ctx context.Context, form Form) (*Result, error) {
	if verr := Validate(form); verr != nil {
		return nil, verr
	}

	lines := m.cart.CheckoutLines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	if err := m.transition(domain.CheckoutStatusSubmitting); err != nil {
		return nil, ErrSubmitInProgress
	}

	draft := &domain.OrderDraft{
		Lines:          lines,
		FullName:       form.FullName,
		Email:          form.Email,
		Phone:          format.Digits(form.Phone),
		Address:        format.JoinAddress(form.AddressMain, form.AddressSecondary),
		PaymentMethod:  form.PaymentMethod,
		IdempotencyKey: uuid.NewString(),
	}

	order, err := m.orders.Create(ctx, draft)
	if err != nil {
		m.fail(domain.CheckoutStatusIdle, remoteMessage(err))
		return nil, err
	}
	m.setStatus(domain.CheckoutStatusOrderCreated)
	// The order exists from here on; the buy-now selection is spent even
	// when the payment leg below fails, so a resubmission reads the cart.
	m.cart.ClearBuyNow()

	switch form.PaymentMethod {
	case domain.PaymentMethodCash:
		return m.completeCash(ctx, order)
	default:
		return m.suspendForPayment(ctx, order, lines)
	}
}

func (m *Machine) completeCash(ctx context.Context, order *domain.OrderResponse) (*Result, error) {
	if err := m.cart.ClearCart(ctx); err != nil {
		log.Printf("cart clear after order %s failed: %v", order.Code, err)
	}
	m.mu.Lock()
	m.status = domain.CheckoutStatusCompleted
	m.confirmed = order
	m.mu.Unlock()
	return &Result{Order: order}, nil
}

func (m *Machine) suspendForPayment(ctx context.Context, order *domain.OrderResponse, lines []domain.CartLine) (*Result, error) {
	pending := domain.PendingOrder{Order: *order, WrittenAt: time.Now()}
	data, err := json.Marshal(pending)
	if err != nil {
		m.fail(domain.CheckoutStatusIdle, remoteMessage(err))
		return nil, fmt.Errorf("marshal pending order: %w", err)
	}
	if err := m.kv.Save(ctx, storage.KeyPendingOrder, data); err != nil {
		m.fail(domain.CheckoutStatusIdle, remoteMessage(err))
		return nil, fmt.Errorf("persist pending order: %w", err)
	}

	link, err := m.payments.CreateCheckoutLink(ctx, api.CheckoutLinkRequest{
		OrderID:   order.ID,
		OrderCode: order.Code,
		Lines:     lines,
		Amount:    order.Total,
		ReturnURL: m.returnURL,
		CancelURL: m.cancelURL,
	})
	if err != nil {
		// No link, no redirect: discard the pending record and let the
		// user resubmit.
		if derr := m.kv.Delete(ctx, storage.KeyPendingOrder); derr != nil {
			log.Printf("pending order cleanup failed: %v", derr)
		}
		m.fail(domain.CheckoutStatusIdle, remoteMessage(err))
		return nil, err
	}

	m.setStatus(domain.CheckoutStatusAwaitingPayment)
	return &Result{Order: order, RedirectURL: link.CheckoutURL}, nil
}

// ReturnOutcome is what the payment-return query parameters resolved to.
type ReturnOutcome string

const (
	ReturnConfirmed      ReturnOutcome = "CONFIRMED"
	ReturnCancelled      ReturnOutcome = "CANCELLED"
	ReturnNoOp           ReturnOutcome = "NO_OP"
	ReturnNoConfirmation ReturnOutcome = "NO_CONFIRMATION"
)

// HandleReturn consumes the query parameters the payment provider redirected
// back with. It deliberately does not require the in-memory status to be
// AwaitingPayment: a full navigation happened in between, so the persisted
// pending order is the state, not this process's memory.
//
//   - status=PAID&code=00 confirms: the pending order is consumed, the cart
//     and its snapshot are cleared.
//   - status=CANCELLED or cancel=true discards the pending order and keeps
//     the cart, so the user can retry.
//   - anything else changes nothing.
func (m *Machine) HandleReturn(ctx context.Context, query url.Values) (ReturnOutcome, *domain.OrderResponse, error) {
	status := query.Get("status")
	code := query.Get("code")
	cancelled := status == returnStatusCancelled || query.Get("cancel") == "true"

	switch {
	case status == returnStatusPaid && code == returnCodeSuccess:
		return m.confirmPending(ctx)
	case cancelled:
		if err := m.kv.Delete(ctx, storage.KeyPendingOrder); err != nil {
			log.Printf("pending order discard failed: %v", err)
		}
		m.mu.Lock()
		m.status = domain.CheckoutStatusFailed
		m.mu.Unlock()
		return ReturnCancelled, nil, nil
	default:
		return ReturnNoOp, nil, nil
	}
}

func (m *Machine) confirmPending(ctx context.Context) (ReturnOutcome, *domain.OrderResponse, error) {
	data, err := m.kv.Load(ctx, storage.KeyPendingOrder)
	if errors.Is(err, storage.ErrNotFound) {
		return ReturnNoConfirmation, nil, ErrNoPendingOrder
	}
	if err != nil {
		return ReturnNoConfirmation, nil, fmt.Errorf("load pending order: %w", err)
	}

	var pending domain.PendingOrder
	if err := json.Unmarshal(data, &pending); err != nil {
		// Corrupt record: degrade to no confirmation rather than crash.
		log.Printf("pending order corrupt: %v", err)
		if derr := m.kv.Delete(ctx, storage.KeyPendingOrder); derr != nil {
			log.Printf("pending order cleanup failed: %v", derr)
		}
		return ReturnNoConfirmation, nil, ErrNoPendingOrder
	}

	if err := m.kv.Delete(ctx, storage.KeyPendingOrder); err != nil {
		log.Printf("pending order consume failed: %v", err)
	}
	if err := m.cart.ClearCart(ctx); err != nil {
		log.Printf("cart clear after payment failed: %v", err)
	}

	m.mu.Lock()
	m.status = domain.CheckoutStatusCompleted
	m.confirmed = &pending.Order
	m.mu.Unlock()
	return ReturnConfirmed, &pending.Order, nil
}

// Reset returns a terminal machine to Idle so the user can start over.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = domain.CheckoutStatusIdle
	m.confirmed = nil
	m.lastError = ""
}

func (m *Machine) Status() domain.CheckoutStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// LastError is the single surfaced message from the most recent failure.
func (m *Machine) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

func (m *Machine) Confirmed() *domain.OrderResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirmed
}

func (m *Machine) transition(to domain.CheckoutStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	from := m.status
	if from == domain.CheckoutStatusFailed && to == domain.CheckoutStatusSubmitting {
		// Failed is recoverable; a resubmission restarts the flow.
		from = domain.CheckoutStatusIdle
	}
	if !domain.CanTransitionTo(from, to) {
		return IllegalTransitionError
	}
	m.status = to
	m.lastError = ""
	return nil
}

func (m *Machine) setStatus(to domain.CheckoutStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = to
}

func (m *Machine) fail(backTo domain.CheckoutStatus, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = backTo
	m.lastError = message
}

// remoteMessage extracts the server's human-readable message when there is
// one, falling back to a generic line.
func remoteMessage(err error) string {
	var remote *api.RemoteError
	if errors.As(err, &remote) {
		return remote.Message
	}
	return "something went wrong, please try again"
}
