// Package storefront holds the front end's application state: the user,
// product, cart and order slices, the actions that change them and a store
// that notifies subscribers after each change.
package storefront

import (
	"storefront/internal/auth"
	"storefront/internal/model"
)

// State is the whole front-end state, one field per slice.
type State struct {
	User    UserSlice
	Product ProductSlice
	Cart    CartSlice
	Order   OrderSlice
}

// UserSlice holds the signed-in user, if any.
type UserSlice struct {
	Token    string
	Identity *auth.Identity
}

// SignedIn reports whether a user token is present.
func (u UserSlice) SignedIn() bool {
	return u.Token != "" && u.Identity != nil
}

// ProductSlice holds the catalogue as last fetched.
type ProductSlice struct {
	Items    []model.Product
	Selected *model.Product
	Err      string
}

// CartLine is one product in the cart.
type CartLine struct {
	Product  model.Product
	Quantity int
}

// Subtotal is price times quantity for the line.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// CartSlice holds the lines in the cart, in the order they were added.
type CartSlice struct {
	Lines []CartLine
}

// Total sums price times quantity over every line.
func (c CartSlice) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of units in the cart.
func (c CartSlice) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c CartSlice) Empty() bool {
	return len(c.Lines) == 0
}

// OrderRequest builds the order payload for the cart. The total is computed
// here and sent as is.
func (c CartSlice) OrderRequest(addr model.ShippingAddress) *model.OrderRequest {
	items := make([]model.OrderItem, len(c.Lines))
	for i, l := range c.Lines {
		items[i] = model.OrderItem{ProductID: l.Product.ID, Quantity: l.Quantity}
	}
	return &model.OrderRequest{
		Items:           items,
		TotalAmount:     c.Total(),
		ShippingAddress: addr,
	}
}

// OrderSlice holds the user's orders and the most recently placed one.
type OrderSlice struct {
	Orders []model.Order
	Placed *model.Order
	Err    string
}
