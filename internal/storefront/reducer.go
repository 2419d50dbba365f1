package storefront

import (
	"math"

	"storefront/internal/auth"
	"storefront/internal/model"
)

// MaxQuantity is the largest quantity a cart line holds; larger values are
// clamped to it.
const MaxQuantity = math.MaxInt32

// Action describes a state change.
type Action interface {
	action()
}

type (
	// SignedIn stores the user's token and identity.
	SignedIn struct {
		Token    string
		Identity auth.Identity
	}
	// SignedOut clears the user and their orders.
	SignedOut struct{}

	// ProductsLoaded replaces the catalogue.
	ProductsLoaded struct{ Products []model.Product }
	// ProductSelected stores the product being viewed.
	ProductSelected struct{ Product model.Product }
	// ProductsFailed records a catalogue fetch failure.
	ProductsFailed struct{ Err error }

	// CartItemAdded adds quantity units of a product, merging with an
	// existing line for the same product.
	CartItemAdded struct {
		Product  model.Product
		Quantity int
	}
	// CartItemUpdated sets a line's quantity; zero or less removes it.
	CartItemUpdated struct {
		ProductID string
		Quantity  int
	}
	// CartItemRemoved drops a line.
	CartItemRemoved struct{ ProductID string }
	// CartCleared empties the cart.
	CartCleared struct{}

	// OrdersLoaded replaces the user's order list.
	OrdersLoaded struct{ Orders []model.Order }
	// OrderPlaced records a new order and empties the cart.
	OrderPlaced struct{ Order model.Order }
	// OrderFailed records an order fetch or placement failure.
	OrderFailed struct{ Err error }
)

func (SignedIn) action()        {}
func (SignedOut) action()       {}
func (ProductsLoaded) action()  {}
func (ProductSelected) action() {}
func (ProductsFailed) action()  {}
func (CartItemAdded) action()   {}
func (CartItemUpdated) action() {}
func (CartItemRemoved) action() {}
func (CartCleared) action()     {}
func (OrdersLoaded) action()    {}
func (OrderPlaced) action()     {}
func (OrderFailed) action()     {}

// Reduce returns the state that results from applying a to s.
// It never mutates s; slices are copied before they change.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SignedIn:
		id := a.Identity
		s.User = UserSlice{Token: a.Token, Identity: &id}
	case SignedOut:
		s.User = UserSlice{}
		s.Order = OrderSlice{}

	case ProductsLoaded:
		s.Product.Items = append([]model.Product(nil), a.Products...)
		s.Product.Err = ""
	case ProductSelected:
		p := a.Product
		s.Product.Selected = &p
		s.Product.Err = ""
	case ProductsFailed:
		s.Product.Err = errString(a.Err)

	case CartItemAdded:
		if a.Quantity <= 0 {
			return s
		}
		s.Cart.Lines = addLine(s.Cart.Lines, a.Product, a.Quantity)
	case CartItemUpdated:
		if a.Quantity <= 0 {
			s.Cart.Lines = removeLine(s.Cart.Lines, a.ProductID)
			return s
		}
		s.Cart.Lines = setQuantity(s.Cart.Lines, a.ProductID, a.Quantity)
	case CartItemRemoved:
		s.Cart.Lines = removeLine(s.Cart.Lines, a.ProductID)
	case CartCleared:
		s.Cart = CartSlice{}

	case OrdersLoaded:
		s.Order.Orders = append([]model.Order(nil), a.Orders...)
		s.Order.Err = ""
	case OrderPlaced:
		o := a.Order
		s.Order.Placed = &o
		s.Order.Orders = append([]model.Order{o}, s.Order.Orders...)
		s.Order.Err = ""
		s.Cart = CartSlice{}
	case OrderFailed:
		s.Order.Err = errString(a.Err)
	}
	return s
}

func addLine(lines []CartLine, p model.Product, qty int) []CartLine {
	out := make([]CartLine, 0, len(lines)+1)
	merged := false
	for _, l := range lines {
		if l.Product.ID == p.ID {
			l.Product = p
			if qty > MaxQuantity-l.Quantity {
				l.Quantity = MaxQuantity
			} else {
				l.Quantity += qty
			}
			merged = true
		}
		out = append(out, l)
	}
	if !merged {
		out = append(out, CartLine{Product: p, Quantity: min(qty, MaxQuantity)})
	}
	return out
}

func setQuantity(lines []CartLine, productID string, qty int) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	for i := range out {
		if out[i].Product.ID == productID {
			out[i].Quantity = min(qty, MaxQuantity)
		}
	}
	return out
}

func removeLine(lines []CartLine, productID string) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Product.ID != productID {
			out = append(out, l)
		}
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
