package store

// Every filter intersects all non-empty dimensions. Limit <= 0 means unlimited.

// UserFilter narrows Users.List.
type UserFilter struct {
	Role  string
	Limit int64
}

// CategoryFilter narrows Categories.List.
type CategoryFilter struct {
	Limit int64
}

// ProductFilter narrows Products.List. Category is compared to the stored
// slug with exact, case-sensitive equality.
type ProductFilter struct {
	SellerEmail string
	Status      string
	Category    string
	Sponsored   *bool
	Limit       int64
}

// OrderFilter narrows Orders.List.
type OrderFilter struct {
	BuyerEmail string
	Limit      int64
}

// Bool returns a pointer to b, for building ProductFilter.Sponsored.
func Bool(b bool) *bool { return &b }
