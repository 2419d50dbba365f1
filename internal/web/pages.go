package web

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/storefront"

	"github.com/go-chi/chi/v5"
)

// pageData is what every template receives.
type pageData struct {
	Title string
	State storefront.State
	Flash string
	Data  any
}

type checkoutData struct {
	Address model.ShippingAddress
}

type confirmationLine struct {
	Name     string
	Quantity int
}

type confirmationData struct {
	Order *model.Order
	Lines []confirmationLine
}

type accountData struct {
	Next string
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}

	products, err := s.api.ListProducts(r.Context())
	if err != nil {
		store.Dispatch(storefront.ProductsFailed{Err: err})
		s.renderError(w, r, err, http.StatusBadGateway, "We could not load the product list. Please try again.")
		return
	}
	state := store.Dispatch(storefront.ProductsLoaded{Products: products})

	s.render(w, http.StatusOK, "home", pageData{Title: "Latest Products", State: state})
}

func (s *Server) product(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}

	p, err := s.api.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, client.ErrNotFound) {
		s.renderError(w, r, nil, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		store.Dispatch(storefront.ProductsFailed{Err: err})
		s.renderError(w, r, err, http.StatusBadGateway, "We could not load this product. Please try again.")
		return
	}
	state := store.Dispatch(storefront.ProductSelected{Product: *p})

	s.render(w, http.StatusOK, "product", pageData{Title: p.Name, State: state})
}

func (s *Server) cart(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "cart", pageData{Title: "Shopping Cart", State: store.State()})
}

func (s *Server) cartAdd(w http.ResponseWriter, r *http.Request) {
	productID, qty, ok := s.cartForm(w, r, 1)
	if !ok {
		return
	}
	store, ok := s.store(w, r)
	if !ok {
		return
	}

	p, err := s.api.GetProduct(r.Context(), productID)
	if errors.Is(err, client.ErrNotFound) {
		s.renderError(w, r, nil, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		s.renderError(w, r, err, http.StatusBadGateway, "We could not add this product to your cart. Please try again.")
		return
	}

	unsubscribe := s.persistCart(w, store)
	defer unsubscribe()
	store.Dispatch(storefront.CartItemAdded{Product: *p, Quantity: qty})

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) cartUpdate(w http.ResponseWriter, r *http.Request) {
	productID, qty, ok := s.cartForm(w, r, 0)
	if !ok {
		return
	}
	store, ok := s.store(w, r)
	if !ok {
		return
	}

	unsubscribe := s.persistCart(w, store)
	defer unsubscribe()
	store.Dispatch(storefront.CartItemUpdated{ProductID: productID, Quantity: qty})

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (s *Server) cartRemove(w http.ResponseWriter, r *http.Request) {
	productID, _, ok := s.cartForm(w, r, 0)
	if !ok {
		return
	}
	store, ok := s.store(w, r)
	if !ok {
		return
	}

	unsubscribe := s.persistCart(w, store)
	defer unsubscribe()
	store.Dispatch(storefront.CartItemRemoved{ProductID: productID})

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// cartForm reads productId and quantity. An absent quantity means def.
func (s *Server) cartForm(w http.ResponseWriter, r *http.Request, def int) (string, int, bool) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, nil, http.StatusBadRequest, "Invalid form submission")
		return "", 0, false
	}

	productID := strings.TrimSpace(r.PostForm.Get("productId"))
	if productID == "" {
		s.renderError(w, r, nil, http.StatusBadRequest, "No product selected")
		return "", 0, false
	}

	qty := def
	if raw := r.PostForm.Get("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.renderError(w, r, nil, http.StatusBadRequest, "Quantity must be a whole number")
			return "", 0, false
		}
		if n > storefront.MaxQuantity {
			s.renderError(w, r, nil, http.StatusBadRequest, "Quantity is too large")
			return "", 0, false
		}
		qty = n
	}
	return productID, qty, true
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}
	state := store.State()

	if !state.User.SignedIn() {
		http.Redirect(w, r, "/account?next=/checkout", http.StatusSeeOther)
		return
	}
	if state.Cart.Empty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	s.render(w, http.StatusOK, "checkout", pageData{Title: "Checkout", State: state, Data: checkoutData{}})
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}
	state := store.State()

	if !state.User.SignedIn() {
		http.Redirect(w, r, "/account?next=/checkout", http.StatusSeeOther)
		return
	}
	if state.Cart.Empty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, nil, http.StatusBadRequest, "Invalid form submission")
		return
	}

	addr := model.ShippingAddress{
		Name:       strings.TrimSpace(r.PostForm.Get("name")),
		Address:    strings.TrimSpace(r.PostForm.Get("address")),
		City:       strings.TrimSpace(r.PostForm.Get("city")),
		PostalCode: strings.TrimSpace(r.PostForm.Get("postalCode")),
		Country:    strings.TrimSpace(r.PostForm.Get("country")),
	}
	if addr.Name == "" || addr.Address == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		s.render(w, http.StatusBadRequest, "checkout", pageData{
			Title: "Checkout",
			State: state,
			Flash: "Please fill in every shipping field.",
			Data:  checkoutData{Address: addr},
		})
		return
	}

	order, err := s.api.CreateOrder(r.Context(), state.User.Token, state.Cart.OrderRequest(addr))
	if err != nil {
		state = store.Dispatch(storefront.OrderFailed{Err: err})

		status, flash := http.StatusBadGateway, "We could not place your order. Please try again."
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			status, flash = http.StatusBadRequest, apiErr.Message
			s.logger.Warn().Err(err).Str("user_id", state.User.Identity.UserID).Msg("order rejected")
		} else {
			s.logger.Error().Err(err).Str("user_id", state.User.Identity.UserID).Msg("failed to place order")
		}

		s.render(w, status, "checkout", pageData{
			Title: "Checkout",
			State: state,
			Flash: flash,
			Data:  checkoutData{Address: addr},
		})
		return
	}

	unsubscribe := s.persistCart(w, store)
	defer unsubscribe()
	store.Dispatch(storefront.OrderPlaced{Order: *order})

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", order.UserID).
		Int("items", len(order.Items)).
		Msg("order placed")

	http.Redirect(w, r, "/orders/"+url.PathEscape(order.ID.String()), http.StatusSeeOther)
}

func (s *Server) confirmation(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}
	state := store.State()

	if !state.User.SignedIn() {
		http.Redirect(w, r, "/account?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
		return
	}

	order, err := s.api.GetOrder(r.Context(), state.User.Token, chi.URLParam(r, "id"))
	if errors.Is(err, client.ErrNotFound) {
		s.renderError(w, r, nil, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		s.renderError(w, r, err, http.StatusBadGateway, "We could not load this order. Please try again.")
		return
	}

	entries := make([]cartEntry, len(order.Items))
	for i, item := range order.Items {
		entries[i] = cartEntry{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	products, err := s.fetchProducts(r.Context(), entries)
	if err != nil {
		s.renderError(w, r, err, http.StatusBadGateway, "We could not load this order. Please try again.")
		return
	}

	lines := make([]confirmationLine, len(order.Items))
	for i, item := range order.Items {
		name := item.ProductID
		if products[i] != nil {
			name = products[i].Name
		}
		lines[i] = confirmationLine{Name: name, Quantity: item.Quantity}
	}

	s.render(w, http.StatusOK, "confirmation", pageData{
		Title: "Order " + order.ID.String(),
		State: state,
		Data:  confirmationData{Order: order, Lines: lines},
	})
}

func (s *Server) account(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w, r)
	if !ok {
		return
	}
	state := store.State()

	if state.User.SignedIn() {
		orders, err := s.api.ListOrders(r.Context(), state.User.Token)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", state.User.Identity.UserID).Msg("failed to load order history")
			state = store.Dispatch(storefront.OrderFailed{Err: err})
		} else {
			state = store.Dispatch(storefront.OrdersLoaded{Orders: orders})
		}
	}

	s.render(w, http.StatusOK, "account", pageData{
		Title: "Account",
		State: state,
		Data:  accountData{Next: safeNext(r.URL.Query().Get("next"))},
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, nil, http.StatusBadRequest, "Invalid form submission")
		return
	}
	token := strings.TrimSpace(r.PostForm.Get("token"))
	next := safeNext(r.PostForm.Get("next"))

	identity, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rejected sign-in token")
		s.render(w, http.StatusUnauthorized, "account", pageData{
			Title: "Account",
			Flash: "That token is not valid.",
			Data:  accountData{Next: next},
		})
		return
	}

	s.setToken(w, token)
	s.logger.Info().Str("user_id", identity.UserID).Str("role", identity.Role).Msg("user signed in")

	if next == "" {
		next = "/account"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.clearToken(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeNext keeps only local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

// store builds the request state and renders the error view when the
// cart cannot be restored.
func (s *Server) store(w http.ResponseWriter, r *http.Request) (*storefront.Store, bool) {
	store, err := s.newStore(r)
	if err != nil {
		s.renderError(w, r, err, http.StatusBadGateway, "We could not load your cart. Please try again.")
		return nil, false
	}
	return store, true
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error, status int, message string) {
	event := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg(message)

	s.render(w, status, "error", pageData{Title: http.StatusText(status), Flash: message})
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data pageData) {
	var buf bytes.Buffer
	if err := s.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error().Err(err).Str("page", page).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
