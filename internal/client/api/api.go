// Package api implements the typed HTTP client for the storefront
// backend. Every method decodes its response at the network boundary
// and turns non-2xx replies into an *APIError carrying the backend's
// message verbatim.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prodan/storefront/internal/models"
)

// APIError is a backend-rejected request: a non-2xx response with
// whatever message the backend supplied.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend rejected request (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend rejected request (%d)", e.StatusCode)
}

// Client talks to the storefront backend over HTTP.
type Client struct {
	// BaseURL is the backend root, e.g. "http://localhost:8081".
	BaseURL string
	// HTTP performs the requests. Tests swap in a fake transport.
	HTTP *http.Client
}

// New returns a Client for the given base URL with a sane timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// do issues a request and decodes a JSON response body into out when
// out is non-nil. A non-2xx status is returned as *APIError with the
// body's "message" field, or the raw body text when it is not JSON.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(body))
		var structured struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &structured); err == nil && structured.Message != "" {
			msg = structured.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

// newJSONRequest builds a request with a JSON body and optional bearer token.
func (c *Client) newJSONRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// Login exchanges email and password for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/auth/login", "",
		models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	var resp models.TokenResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates a new account, traditional or social depending on
// which fields of reg are set.
func (c *Client) Register(ctx context.Context, reg models.RegisterRequest) error {
	path := "/api/auth/register"
	if reg.Provider != "" {
		path = "/api/auth/social-register"
	}
	req, err := c.newJSONRequest(ctx, http.MethodPost, path, "", reg)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// ValidateToken asks the backend whether token is still valid.
// Any non-2xx response or transport failure is returned as an error.
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/auth/validate-token", token, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// GetUserRole lists the roles owned by the given email.
func (c *Client) GetUserRole(ctx context.Context, token, email string) ([]models.Role, error) {
	path := "/api/auth/get-user-role?email=" + url.QueryEscape(email)
	req, err := c.newJSONRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	var roles []models.Role
	if err := c.do(req, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// ResetPasswordRequest asks the backend to send a password-reset mail.
func (c *Client) ResetPasswordRequest(ctx context.Context, email string) (string, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/auth/reset-password-request", "",
		map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context, token string) ([]models.Product, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/api/produits", token, nil)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := c.do(req, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct uploads a new product as a multipart form, including
// the image file when image is non-nil. Admin only.
func (c *Client) CreateProduct(ctx context.Context, token string, p models.Product, imageName string, image io.Reader) error {
	return c.sendProductForm(ctx, http.MethodPost, "/api/produits", token, p, imageName, image)
}

// UpdateProduct replaces an existing product. Admin only.
func (c *Client) UpdateProduct(ctx context.Context, token string, id int64, p models.Product, imageName string, image io.Reader) error {
	return c.sendProductForm(ctx, http.MethodPut, "/api/produits/"+strconv.FormatInt(id, 10), token, p, imageName, image)
}

// DeleteProduct removes a product from the catalog. Admin only.
func (c *Client) DeleteProduct(ctx context.Context, token string, id int64) error {
	req, err := c.newJSONRequest(ctx, http.MethodDelete, "/api/produits/"+strconv.FormatInt(id, 10), token, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// sendProductForm encodes a product as the multipart form the backend
// expects for create and update.
func (c *Client) sendProductForm(ctx context.Context, method, path, token string, p models.Product, imageName string, image io.Reader) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"nom":         p.Name,
		"prix":        strconv.FormatFloat(p.Price, 'f', 2, 64),
		"description": p.Description,
		"category":    p.Category,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", imageName)
		if err != nil {
			return fmt.Errorf("encode image: %w", err)
		}
		if _, err := io.Copy(part, image); err != nil {
			return fmt.Errorf("read image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return c.do(req, nil)
}

// ProcessPayment submits a payment attempt for the given method
// ("mobile" or "card").
func (c *Client) ProcessPayment(ctx context.Context, token string, pr models.PaymentRequest) (models.PaymentResponse, error) {
	var resp models.PaymentResponse
	if pr.PaymentMethod != models.MethodMobile && pr.PaymentMethod != models.MethodCard {
		return resp, fmt.Errorf("unknown payment method %q", pr.PaymentMethod)
	}
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/payment/process/"+pr.PaymentMethod, token, pr)
	if err != nil {
		return resp, err
	}
	if err := c.do(req, &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// PaymentStatus polls the status of the caller's pending payment.
func (c *Client) PaymentStatus(ctx context.Context, token string) (models.PaymentStatus, error) {
	var status models.PaymentStatus
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/api/payment/status", token, nil)
	if err != nil {
		return status, err
	}
	if err := c.do(req, &status); err != nil {
		return status, err
	}
	return status, nil
}

// GetAllUsers lists every account. Admin only.
func (c *Client) GetAllUsers(ctx context.Context, token string) ([]models.User, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, "/api/auth/get-all-users", token, nil)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := c.do(req, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser replaces the account identified by email. Admin only.
func (c *Client) UpdateUser(ctx context.Context, token, email string, u models.User) error {
	path := "/api/auth/update-user?email=" + url.QueryEscape(email)
	req, err := c.newJSONRequest(ctx, http.MethodPut, path, token, u)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DeleteUser removes the account identified by email. Admin only.
func (c *Client) DeleteUser(ctx context.Context, token, email string) error {
	path := "/api/auth/delete-user?email=" + url.QueryEscape(email)
	req, err := c.newJSONRequest(ctx, http.MethodDelete, path, token, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// VerifyAdmin checks whether the given email holds the admin role.
func (c *Client) VerifyAdmin(ctx context.Context, token, email string) (bool, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/auth/verify-admin", token,
		models.VerifyAdminRequest{Email: email})
	if err != nil {
		return false, err
	}
	var resp struct {
		IsAdmin bool `json:"isAdmin"`
	}
	if err := c.do(req, &resp); err != nil {
		return false, err
	}
	return resp.IsAdmin, nil
}
