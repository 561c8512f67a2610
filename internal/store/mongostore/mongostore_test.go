package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

func TestProductFilterIntersectsDimensions(t *testing.T) {
	assert.Equal(t, bson.M{}, productFilter(store.ProductFilter{}))

	got := productFilter(store.ProductFilter{
		SellerEmail: "sam@example.com",
		Status:      models.StatusAvailable,
		Category:    "mobile-phones",
		Sponsored:   store.Bool(true),
		Limit:       5,
	})
	assert.Equal(t, bson.M{
		"seller.email": "sam@example.com",
		"status":       models.StatusAvailable,
		"category":     "mobile-phones",
		"sponsored":    true,
	}, got)

	got = productFilter(store.ProductFilter{Sponsored: store.Bool(false)})
	assert.Equal(t, bson.M{"sponsored": false}, got)
}

func TestUserAndOrderFilters(t *testing.T) {
	assert.Equal(t, bson.M{}, userFilter(store.UserFilter{}))
	assert.Equal(t, bson.M{"role": "seller"}, userFilter(store.UserFilter{Role: "seller"}))
	assert.Equal(t, bson.M{}, orderFilter(store.OrderFilter{}))
	assert.Equal(t, bson.M{"buyerEmail": "ana@example.com"}, orderFilter(store.OrderFilter{BuyerEmail: "ana@example.com"}))
}

func TestFindOptionsLimit(t *testing.T) {
	opts := findOptions(0, nil)
	assert.Nil(t, opts.Limit)

	opts = findOptions(-3, nil)
	assert.Nil(t, opts.Limit)

	opts = findOptions(10, bson.D{{Key: "postingDate", Value: -1}})
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(10), *opts.Limit)
	assert.NotNil(t, opts.Sort)
}

func TestObjectID(t *testing.T) {
	_, ok := objectID("not-a-hex-id")
	assert.False(t, ok)

	oid := primitive.NewObjectID()
	got, ok := objectID(oid.Hex())
	assert.True(t, ok)
	assert.Equal(t, oid, got)
}

func TestProductDocRoundTrip(t *testing.T) {
	posted := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	oid := primitive.NewObjectID()
	in := productDoc{ID: oid, Product: models.Product{
		Name:        "iPhone",
		Seller:      models.Seller{Name: "Sam", Email: "sam@example.com"},
		Category:    "mobile-phones",
		Status:      models.StatusAvailable,
		PostingDate: posted,
	}}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Equal(t, oid, fields["_id"])
	assert.Equal(t, false, fields["sponsored"])
	assert.Contains(t, fields, "seller")
	assert.Contains(t, fields, "postingDate")
	assert.NotContains(t, fields, "ID")

	var out productDoc
	require.NoError(t, bson.Unmarshal(raw, &out))
	p := out.model()
	assert.Equal(t, oid.Hex(), p.ID)
	assert.Equal(t, "sam@example.com", p.Seller.Email)
	assert.True(t, posted.Equal(p.PostingDate))
}
