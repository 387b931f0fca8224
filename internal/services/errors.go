package services

import "errors"

// Domain errors returned by the services. Handlers map them to status codes.
var (
	ErrNotFound             = errors.New("not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidAddress       = errors.New("invalid address")
	ErrProductUnavailable   = errors.New("product is not available")
	ErrCategoryUnavailable  = errors.New("product category is not available")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrQuantityLimit        = errors.New("quantity limit exceeded")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotCancellable  = errors.New("order cannot be cancelled")
	ErrOrderNotReturnable   = errors.New("only delivered orders can be returned")
	ErrReturnReasonRequired = errors.New("return reason is required")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountInactive      = errors.New("account is deactivated")
	ErrAdminAccount         = errors.New("admin accounts must use the admin login")
	ErrNotAdmin             = errors.New("admin access required")
	ErrEmailTaken           = errors.New("email already registered")
	ErrWrongPassword        = errors.New("current password is incorrect")
	ErrInvalidToken         = errors.New("invalid session token")
)

// StockError names the product that failed a stock check and wraps
// ErrProductUnavailable, ErrInsufficientStock or ErrQuantityLimit.
type StockError struct {
	ProductID   string
	ProductName string
	Available   int
	Err         error
	Msg         string
}

func (e *StockError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case errors.Is(e.Err, ErrInsufficientStock):
		return "Insufficient stock for " + e.ProductName
	case errors.Is(e.Err, ErrProductUnavailable):
		name := e.ProductName
		if name == "" {
			name = "Unknown"
		}
		return "Product " + name + " is not available"
	default:
		return e.Err.Error()
	}
}

func (e *StockError) Unwrap() error { return e.Err }
