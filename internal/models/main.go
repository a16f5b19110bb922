// Package models defines the wire-level data structures shared by the
// storefront client and the dev backend: products, users, roles, and
// payment requests. JSON field names follow the backend's French naming.
package models

// Product is a catalog entry as served by GET /api/produits.
type Product struct {
	// ID is the unique identifier for the product.
	ID int64 `json:"id"`
	// Name is the display name of the product.
	Name string `json:"nom"`
	// Price is the unit price of the product.
	Price float64 `json:"prix"`
	// Description holds the marketing text shown on the product card.
	Description string `json:"description"`
	// Category groups products on the storefront ("cakes", "beverages", ...).
	Category string `json:"category"`
	// Image is the path of the uploaded product image.
	Image string `json:"image"`
}

// Role is one privilege level owned by a user.
type Role struct {
	Name string `json:"name"`
}

const (
	// RoleAdmin grants access to the back-office screens.
	RoleAdmin = "ADMIN"
	// RoleUser is the standard customer role.
	RoleUser = "USER"
)

// User represents an account record for the admin user-management screens.
type User struct {
	// Name is the user's display name.
	Name string `json:"nom"`
	// Email identifies the account.
	Email string `json:"email"`
	// Address is the delivery address, if provided.
	Address string `json:"adresse,omitempty"`
	// Phone is the contact phone number, if provided.
	Phone string `json:"telephone,omitempty"`
	// Roles lists the privilege levels owned by the account.
	Roles []Role `json:"roles,omitempty"`
}

// LoginRequest is the JSON payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"motDePasse"`
}

// TokenResponse carries the bearer token returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisterRequest is the JSON payload for POST /api/auth/register and
// /api/auth/social-register. Password is empty for social registrations;
// Provider and ProviderID are empty for traditional ones.
type RegisterRequest struct {
	Name       string `json:"nom"`
	Email      string `json:"email"`
	Password   string `json:"motDePasse,omitempty"`
	Address    string `json:"adresse,omitempty"`
	Phone      string `json:"telephone,omitempty"`
	Provider   string `json:"provider,omitempty"`
	ProviderID string `json:"providerId,omitempty"`
}

// VerifyAdminRequest is the JSON payload for POST /api/auth/verify-admin.
type VerifyAdminRequest struct {
	Email string `json:"email"`
}

const (
	// MethodMobile is the deferred mobile-money payment method.
	MethodMobile = "mobile"
	// MethodCard completes synchronously.
	MethodCard = "card"
)

// Payment attempt statuses as reported by GET /api/payment/status.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// OrderItem is one cart line attached to a payment request.
type OrderItem struct {
	Product  OrderProduct `json:"product"`
	Quantity int          `json:"quantity"`
	Price    float64      `json:"price"`
}

// OrderProduct names the product an order item refers to.
type OrderProduct struct {
	Name string `json:"nom"`
}

// PaymentRequest is the JSON payload for POST /api/payment/process/{method}.
type PaymentRequest struct {
	PaymentMethod string      `json:"paymentMethod"`
	Operator      string      `json:"operator,omitempty"`
	PhoneNumber   string      `json:"phoneNumber,omitempty"`
	Amount        float64     `json:"amount"`
	OrderItems    []OrderItem `json:"orderItems"`
}

// PaymentResponse is the body returned by the processing endpoints.
type PaymentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	ReceiptNumber string `json:"receiptNumber,omitempty"`
}

// PaymentStatus is the body returned by GET /api/payment/status.
type PaymentStatus struct {
	Status        string `json:"status"`
	ReceiptNumber string `json:"receiptNumber,omitempty"`
}
