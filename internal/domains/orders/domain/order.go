package domain

import (
	"errors"
	"strings"
)

// PaymentMethod enumerates the accepted payment instruments.
type PaymentMethod string

const (
	MethodCard         PaymentMethod = "card"
	MethodWallet       PaymentMethod = "wallet"
	MethodBankTransfer PaymentMethod = "bank-transfer"
)

// State tracks saga progression. Forward states are entered strictly in
// order; failed is terminal and reachable from any forward state.
type State string

const (
	StateInit            State = "init"
	StateStockChecked    State = "stock_checked"
	StatePriceResolved   State = "price_resolved"
	StatePaymentCreated  State = "payment_created"
	StatePurchaseCreated State = "purchase_created"
	StateCommitted       State = "committed"
	StateCompensating    State = "compensating"
	StateFailed          State = "failed"
)

var (
	ErrInvalidProductID     = errors.New("product id must be greater than zero")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidPaymentMethod = errors.New("payment method is not supported")
	ErrEmptyMailingAddress  = errors.New("mailing address must not be empty")
)

// OrderIntent is the working state of a single orchestration. It exists
// only for the lifetime of one CreateOrder call, is owned exclusively by
// that call, and is never persisted.
type OrderIntent struct {
	ProductID      int64
	Quantity       int32
	PaymentMethod  PaymentMethod
	MailingAddress string

	// StockSnapshot is the quantity observed at decision time. It is an
	// advisory read, not a reservation; staleness is accepted.
	StockSnapshot int32

	UnitPrice  float64
	TotalPrice float64

	// PaymentID and PurchaseID are zero until the corresponding remote
	// create succeeds. Zero means no compensation is owed for that step.
	PaymentID  int64
	PurchaseID int64
}

// NewOrderIntent validates the inbound request and builds the intent.
func NewOrderIntent(productID int64, quantity int32, method PaymentMethod, mailingAddress string) (*OrderIntent, error) {
	intent := &OrderIntent{
		ProductID:      productID,
		Quantity:       quantity,
		PaymentMethod:  method,
		MailingAddress: strings.TrimSpace(mailingAddress),
	}
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	return intent, nil
}

// Validate enforces the request invariants.
func (o *OrderIntent) Validate() error {
	if o.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !isValidMethod(o.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	if o.MailingAddress == "" {
		return ErrEmptyMailingAddress
	}
	return nil
}

// ResolvePrice records the unit price and derives the order total.
func (o *OrderIntent) ResolvePrice(unitPrice float64) {
	o.UnitPrice = unitPrice
	o.TotalPrice = unitPrice * float64(o.Quantity)
}

// CoversQuantity reports whether the observed stock satisfies the request.
func (o *OrderIntent) CoversQuantity() bool {
	return o.StockSnapshot >= o.Quantity
}

func isValidMethod(method PaymentMethod) bool {
	switch method {
	case MethodCard, MethodWallet, MethodBankTransfer:
		return true
	default:
		return false
	}
}
