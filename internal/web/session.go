package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/storefront"

	"golang.org/x/sync/errgroup"
)

const (
	cartCookie  = "storefront_cart"
	tokenCookie = "storefront_token"

	cartMaxAge = 30 * 24 * time.Hour

	// maxCartFetches bounds concurrent product lookups when restoring a cart.
	maxCartFetches = 4
)

// cartEntry is the cookie form of a cart line.
type cartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func encodeCart(cart storefront.CartSlice) string {
	entries := make([]cartEntry, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		entries = append(entries, cartEntry{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	data, _ := json.Marshal(entries)
	return base64.RawURLEncoding.EncodeToString(data)
}

// decodeCart returns nil for a missing or malformed cookie value.
func decodeCart(value string) []cartEntry {
	if value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var entries []cartEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}

	valid := entries[:0]
	for _, e := range entries {
		if e.ProductID != "" && e.Quantity > 0 {
			e.Quantity = min(e.Quantity, storefront.MaxQuantity)
			valid = append(valid, e)
		}
	}
	return valid
}

// newStore builds the request's state from its cookies. Cart products are
// fetched from the API; lines whose product no longer exists are dropped.
func (s *Server) newStore(r *http.Request) (*storefront.Store, error) {
	store := storefront.NewStore(storefront.State{})

	if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
		identity, err := s.tokens.Parse(c.Value)
		if err != nil {
			s.logger.Debug().Err(err).Msg("ignoring invalid session token")
		} else {
			store.Dispatch(storefront.SignedIn{Token: c.Value, Identity: identity})
		}
	}

	c, err := r.Cookie(cartCookie)
	if err != nil {
		return store, nil
	}
	entries := decodeCart(c.Value)
	if len(entries) == 0 {
		return store, nil
	}

	products, err := s.fetchProducts(r.Context(), entries)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		if products[i] == nil {
			s.logger.Debug().Str("product_id", e.ProductID).Msg("dropping unknown product from cart")
			continue
		}
		store.Dispatch(storefront.CartItemAdded{Product: *products[i], Quantity: e.Quantity})
	}
	return store, nil
}

// fetchProducts looks up every cart product concurrently. The result is
// index-aligned with entries; nil marks a product the API does not know.
func (s *Server) fetchProducts(ctx context.Context, entries []cartEntry) ([]*model.Product, error) {
	products := make([]*model.Product, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCartFetches)

	for i, e := range entries {
		g.Go(func() error {
			p, err := s.api.GetProduct(ctx, e.ProductID)
			if errors.Is(err, client.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			products[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}

// persistCart writes the cart cookie every time the store changes.
func (s *Server) persistCart(w http.ResponseWriter, store *storefront.Store) func() {
	return store.Subscribe(func(state storefront.State) {
		http.SetCookie(w, &http.Cookie{
			Name:     cartCookie,
			Value:    encodeCart(state.Cart),
			Path:     "/",
			MaxAge:   int(cartMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
	})
}

func (s *Server) setToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
