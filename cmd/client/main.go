package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/prodan/storefront/internal/client/api"
	"github.com/prodan/storefront/internal/client/cart"
	"github.com/prodan/storefront/internal/client/checkout"
	"github.com/prodan/storefront/internal/client/identity"
	"github.com/prodan/storefront/internal/client/session"
	"github.com/prodan/storefront/internal/client/store"
	"github.com/prodan/storefront/internal/models"
)

var (
	version   string
	buildDate string
)

// shell bundles the long-lived pieces the REPL commands operate on.
type shell struct {
	api      *api.Client
	cart     *cart.Cart
	session  *session.Session
	checkout *checkout.Orchestrator

	scanner *bufio.Scanner
	// catalog caches the last fetched product list so cart commands
	// can resolve ids without another round trip.
	catalog map[int64]models.Product
}

// prompt reads one line from stdin after printing label.
func (s *shell) prompt(label string) string {
	fmt.Print(label)
	if !s.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(s.scanner.Text())
}

// lookupProduct resolves a catalog product by id, fetching the catalog
// if it has not been listed yet.
func (s *shell) lookupProduct(ctx context.Context, id int64) (models.Product, bool) {
	if s.catalog == nil {
		if err := s.fetchCatalog(ctx); err != nil {
			fmt.Println("Failed to load products:", err)
			return models.Product{}, false
		}
	}
	p, ok := s.catalog[id]
	return p, ok
}

func (s *shell) fetchCatalog(ctx context.Context) error {
	products, err := s.api.ListProducts(ctx, s.session.Token())
	if err != nil {
		return err
	}
	s.catalog = make(map[int64]models.Product, len(products))
	for _, p := range products {
		s.catalog[p.ID] = p
	}
	return nil
}

func (s *shell) cmdProducts(ctx context.Context) {
	if err := s.fetchCatalog(ctx); err != nil {
		fmt.Println("Failed to load products:", err)
		return
	}
	if len(s.catalog) == 0 {
		fmt.Println("No products available")
		return
	}
	for _, p := range s.catalog {
		fmt.Printf("%4d  %-30s %8.2f  %s\n", p.ID, p.Name, p.Price, p.Category)
	}
}

func (s *shell) cmdAdd(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: add <product-id>")
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("Invalid product id")
		return
	}
	p, ok := s.lookupProduct(ctx, id)
	if !ok {
		fmt.Println("Product not found")
		return
	}
	s.cart.AddItem(cart.LineItem{ID: p.ID, Name: p.Name, Price: p.Price})
	fmt.Printf("Added %s (total %s)\n", p.Name, s.cart.TotalPrice())
}

func (s *shell) cmdCart() {
	items := s.cart.Items()
	if len(items) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	for _, it := range items {
		fmt.Printf("%4d  %-30s %8.2f x%d\n", it.ID, it.Name, it.Price, it.Quantity)
	}
	fmt.Printf("Total: %s (%d items)\n", s.cart.TotalPrice(), s.cart.TotalQuantity())
}

func (s *shell) cmdLogin(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: login <email>")
		return
	}
	email := args[1]
	password := s.prompt("Password: ")
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	s.session.Login(ctx, email, token)
	if msg := s.session.Err(); msg != "" {
		fmt.Println("Logged in, but:", msg)
		return
	}
	fmt.Printf("Logged in as %s (%s)\n", email, s.session.Role())
}

func (s *shell) cmdRegister(ctx context.Context) {
	reg := models.RegisterRequest{
		Name:     s.prompt("Name: "),
		Email:    s.prompt("Email: "),
		Password: s.prompt("Password: "),
		Address:  s.prompt("Address: "),
		Phone:    s.prompt("Phone: "),
	}
	if err := s.api.Register(ctx, reg); err != nil {
		fmt.Println("Registration failed:", err)
		return
	}
	fmt.Println("Registered. You can now log in.")
}

// cmdSocialRegister registers an account from a provider-issued
// identity token (the raw JWT a Google or Facebook sign-in returns).
func (s *shell) cmdSocialRegister(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Println("Usage: social-register <provider> <identity-token>")
		return
	}
	cred, err := identity.Decode(args[2], args[1])
	if err != nil {
		fmt.Println("Invalid identity token:", err)
		return
	}
	if err := s.api.Register(ctx, cred.RegisterPayload()); err != nil {
		fmt.Println("Registration failed:", err)
		return
	}
	fmt.Printf("Registered %s via %s\n", cred.Email, cred.Provider)
}

func (s *shell) cmdWhoami() {
	if !s.session.IsLoggedIn() {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("%s (%s)\n", s.session.Email(), s.session.Role())
}

func (s *shell) cmdCheckout(ctx context.Context, args []string) {
	if !s.session.IsLoggedIn() {
		fmt.Println("Log in before checking out")
		return
	}
	if len(s.cart.Items()) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: checkout card | checkout mobile <operator> <phone>")
		return
	}

	var fields checkout.Fields
	method := args[1]
	if method == models.MethodMobile {
		if len(args) < 4 {
			fmt.Println("Usage: checkout mobile <operator> <phone>")
			return
		}
		fields.Operator = args[2]
		fields.PhoneNumber = args[3]
		fmt.Println("Waiting for operator confirmation (Ctrl+C to abandon)...")
	}

	result, err := s.checkout.Submit(ctx, method, fields)
	if err != nil {
		fmt.Println("Payment failed:", result.Message)
		return
	}
	fmt.Printf("Payment complete. Receipt: %s\n", result.ReceiptNumber)
}

// promptProduct collects the fields of a product form, optionally
// attaching an image file from disk.
func (s *shell) promptProduct() (models.Product, string, *os.File, bool) {
	var p models.Product
	p.Name = s.prompt("Name: ")
	price, err := strconv.ParseFloat(s.prompt("Price: "), 64)
	if err != nil || price < 0 {
		fmt.Println("Price must be a non-negative number")
		return p, "", nil, false
	}
	p.Price = price
	p.Description = s.prompt("Description: ")
	p.Category = s.prompt("Category: ")

	imagePath := s.prompt("Image file (empty to skip): ")
	if imagePath == "" {
		return p, "", nil, true
	}
	f, err := os.Open(imagePath)
	if err != nil {
		fmt.Println("Cannot open image:", err)
		return p, "", nil, false
	}
	return p, filepath.Base(imagePath), f, true
}

func (s *shell) cmdProductAdd(ctx context.Context) {
	p, imageName, image, ok := s.promptProduct()
	if !ok {
		return
	}
	var reader io.Reader
	if image != nil {
		defer image.Close()
		reader = image
	}
	if err := s.api.CreateProduct(ctx, s.session.Token(), p, imageName, reader); err != nil {
		fmt.Println("Create failed:", err)
		return
	}
	s.catalog = nil
	fmt.Println("Product created")
}

func (s *shell) cmdProductUpdate(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: product-update <product-id>")
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("Invalid product id")
		return
	}
	p, imageName, image, ok := s.promptProduct()
	if !ok {
		return
	}
	var reader io.Reader
	if image != nil {
		defer image.Close()
		reader = image
	}
	if err := s.api.UpdateProduct(ctx, s.session.Token(), id, p, imageName, reader); err != nil {
		fmt.Println("Update failed:", err)
		return
	}
	s.catalog = nil
	fmt.Println("Product updated")
}

func (s *shell) cmdProductDelete(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: product-delete <product-id>")
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("Invalid product id")
		return
	}
	if err := s.api.DeleteProduct(ctx, s.session.Token(), id); err != nil {
		fmt.Println("Delete failed:", err)
		return
	}
	s.catalog = nil
	fmt.Println("Product deleted")
}

func (s *shell) cmdUserDelete(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: user-delete <email>")
		return
	}
	if err := s.api.DeleteUser(ctx, s.session.Token(), args[1]); err != nil {
		fmt.Println("Delete failed:", err)
		return
	}
	fmt.Println("User deleted")
}

func (s *shell) cmdUsers(ctx context.Context) {
	users, err := s.api.GetAllUsers(ctx, s.session.Token())
	if err != nil {
		fmt.Println("Failed to list users:", err)
		return
	}
	for _, u := range users {
		roles := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			roles = append(roles, r.Name)
		}
		fmt.Printf("%-30s %-20s %s\n", u.Email, u.Name, strings.Join(roles, ","))
	}
}

// repl runs the interactive storefront loop.
func repl(s *shell) {
	ctx := context.Background()

	// A credential kept from a previous run is only trusted once the
	// backend confirms it.
	if s.session.State() == session.Authenticating {
		if s.session.Validate(ctx) {
			s.session.FetchRole(ctx, s.session.Email())
			fmt.Printf("Welcome back, %s\n", s.session.Email())
		} else {
			fmt.Println("Stored session expired, please log in again")
		}
	}

	for {
		fmt.Print("storefront> ")
		if !s.scanner.Scan() {
			break
		}
		line := strings.TrimSpace(s.scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, products, add <id>, remove <id>, qty <id> <n>, cart, clear,")
			fmt.Println("  register, social-register <provider> <token>, login <email>, logout, whoami,")
			fmt.Println("  reset-password <email>, checkout card|mobile, users, user-delete <email>,")
			fmt.Println("  product-add, product-update <id>, product-delete <id>, exit")
		case "products":
			s.cmdProducts(ctx)
		case "add":
			s.cmdAdd(ctx, args)
		case "remove":
			if len(args) < 2 {
				fmt.Println("Usage: remove <product-id>")
				continue
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("Invalid product id")
				continue
			}
			s.cart.RemoveItem(id)
		case "qty":
			if len(args) < 3 {
				fmt.Println("Usage: qty <product-id> <quantity>")
				continue
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Println("Invalid product id")
				continue
			}
			s.cart.UpdateQuantity(id, args[2])
		case "cart":
			s.cmdCart()
		case "clear":
			s.cart.Clear()
			fmt.Println("Cart cleared")
		case "register":
			s.cmdRegister(ctx)
		case "social-register":
			s.cmdSocialRegister(ctx, args)
		case "login":
			s.cmdLogin(ctx, args)
		case "logout":
			s.session.Logout()
			fmt.Println("Logged out")
		case "whoami":
			s.cmdWhoami()
		case "reset-password":
			if len(args) < 2 {
				fmt.Println("Usage: reset-password <email>")
				continue
			}
			msg, err := s.api.ResetPasswordRequest(ctx, args[1])
			if err != nil {
				fmt.Println("Request failed:", err)
				continue
			}
			fmt.Println(msg)
		case "checkout":
			s.cmdCheckout(ctx, args)
		case "users":
			s.cmdUsers(ctx)
		case "user-delete":
			s.cmdUserDelete(ctx, args)
		case "product-add":
			s.cmdProductAdd(ctx)
		case "product-update":
			s.cmdProductUpdate(ctx, args)
		case "product-delete":
			s.cmdProductDelete(ctx, args)
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func main() {
	var (
		baseURL string
		dataDir string
		showVer bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8081", "backend base URL")
	flag.StringVar(&dataDir, "data", ".storefront", "client state directory")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Storefront Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	st, err := store.New(dataDir)
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewNop()
	client := api.New(baseURL)
	sess := session.New(st, client, logger)
	basket := cart.New(st, logger)

	s := &shell{
		api:      client,
		cart:     basket,
		session:  sess,
		checkout: checkout.New(basket, sess, client, logger),
		scanner:  bufio.NewScanner(os.Stdin),
	}
	repl(s)
}
