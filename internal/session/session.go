// Package session provides the server-side session core: opaque tokens
// delivered via cookie, a sliding expiry window, and a pluggable store
// (in-process memory by default, Redis when configured durable).
package session

import (
	"storefront/internal/models"
)

// CookieName is the cookie carrying the opaque session token.
const CookieName = "storefront_session"

// CartItem is a product reference plus quantity held in the session cart.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Session identifies a principal as an anonymous visitor (zero UserID), an
// authenticated shopper, or an authenticated administrator. It holds a
// reference (user id + role), not a snapshot of the user record, so profile
// edits and admin blocks take effect on the next lookup.
type Session struct {
	Token  string      `json:"-"`
	UserID string      `json:"userId,omitempty"`
	Role   models.Role `json:"role,omitempty"`
	Cart   []CartItem  `json:"cart"`
}

func (s *Session) LoggedIn() bool {
	return s.UserID != ""
}

func (s *Session) IsAdmin() bool {
	return s.LoggedIn() && s.Role == models.RoleAdmin
}

// Login binds the session to an authenticated user. The cart survives the
// transition from anonymous to authenticated.
func (s *Session) Login(userID string, role models.Role) {
	s.UserID = userID
	s.Role = role
}

// Logout returns the session to the anonymous state, dropping the cart.
func (s *Session) Logout() {
	s.UserID = ""
	s.Role = ""
	s.Cart = nil
}

// AddToCart merges the quantity into an existing line or appends a new one.
func (s *Session) AddToCart(productID string, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	for i, item := range s.Cart {
		if item.ProductID == productID {
			s.Cart[i].Quantity += quantity
			return
		}
	}
	s.Cart = append(s.Cart, CartItem{ProductID: productID, Quantity: quantity})
}

// RemoveFromCart drops the line for the product, if present.
func (s *Session) RemoveFromCart(productID string) {
	for i, item := range s.Cart {
		if item.ProductID == productID {
			s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
			return
		}
	}
}

func (s *Session) clone() *Session {
	copied := *s
	copied.Cart = append([]CartItem(nil), s.Cart...)
	return &copied
}
