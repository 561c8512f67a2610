package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/01moynul/reboot-golang/internal/store"
)

func userFilter(f store.UserFilter) bson.M {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	return filter
}

// productFilter ANDs every supplied dimension into a single query document.
func productFilter(f store.ProductFilter) bson.M {
	filter := bson.M{}
	if f.SellerEmail != "" {
		filter["seller.email"] = f.SellerEmail
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Sponsored != nil {
		filter["sponsored"] = *f.Sponsored
	}
	return filter
}

func orderFilter(f store.OrderFilter) bson.M {
	filter := bson.M{}
	if f.BuyerEmail != "" {
		filter["buyerEmail"] = f.BuyerEmail
	}
	return filter
}
