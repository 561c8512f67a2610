// Package mongostore implements the store repositories on MongoDB.
// Documents keep the models' field names; ids are hex ObjectIDs.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

// Collection names.
const (
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	ProductsCollection   = "products"
	OrdersCollection     = "orders"
)

// New returns a store.Store over db. Closing the store disconnects the client.
func New(db *mongo.Database) *store.Store {
	return store.New(
		&userRepo{coll: db.Collection(UsersCollection)},
		&categoryRepo{coll: db.Collection(CategoriesCollection)},
		&productRepo{coll: db.Collection(ProductsCollection)},
		&orderRepo{coll: db.Collection(OrdersCollection)},
		func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
	)
}

// EnsureIndexes creates the unique indexes backing the email and slug invariants.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	if _, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	if _, err := db.Collection(CategoriesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("categories slug index: %w", err)
	}
	if _, err := db.Collection(ProductsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "seller.email", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("products indexes: %w", err)
	}
	return nil
}

// objectID parses a hex id. ok is false for anything that cannot address a document.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// insertedID extracts the hex id assigned by InsertOne.
func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(res.InsertedID)
}

// findOptions applies the limit (unlimited when <= 0) and an optional sort.
func findOptions(limit int64, sort bson.D) *options.FindOptions {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if sort != nil {
		opts.SetSort(sort)
	}
	return opts
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

// --- Users ---

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	models.User `bson:",inline"`
}

func (d userDoc) model() models.User {
	u := d.User
	u.ID = d.ID.Hex()
	return u
}

type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	// Check-then-insert is two round trips; the unique email index turns a
	// racing duplicate into ErrAlreadyExists as well.
	_, err := r.FindByEmail(ctx, u.Email)
	if err == nil {
		return store.ErrAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	res, err := r.coll.InsertOne(ctx, userDoc{User: *u})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = insertedID(res)
	return nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	u := doc.model()
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, f store.UserFilter) ([]models.User, error) {
	cur, err := r.coll.Find(ctx, userFilter(f), findOptions(f.Limit, nil))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.model())
	}
	return users, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) (int64, error) {
	return deleteByID(ctx, r.coll, id)
}

// --- Categories ---

type categoryDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	models.Category `bson:",inline"`
}

type categoryRepo struct {
	coll *mongo.Collection
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	res, err := r.coll.InsertOne(ctx, categoryDoc{Category: *c})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert category: %w", err)
	}
	c.ID = insertedID(res)
	return nil
}

func (r *categoryRepo) List(ctx context.Context, f store.CategoryFilter) ([]models.Category, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, findOptions(f.Limit, nil))
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	categories := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		c := d.Category
		c.ID = d.ID.Hex()
		categories = append(categories, c)
	}
	return categories, nil
}

// --- Products ---

type productDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	models.Product `bson:",inline"`
}

func (d productDoc) model() models.Product {
	p := d.Product
	p.ID = d.ID.Hex()
	return p
}

type productRepo struct {
	coll *mongo.Collection
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	res, err := r.coll.InsertOne(ctx, productDoc{Product: *p})
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID = insertedID(res)
	return nil
}

func (r *productRepo) List(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	sort := bson.D{{Key: "postingDate", Value: -1}}
	cur, err := r.coll.Find(ctx, productFilter(f), findOptions(f.Limit, sort))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.model())
	}
	return products, nil
}

func (r *productRepo) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	p := doc.model()
	return &p, nil
}

func (r *productRepo) Delete(ctx context.Context, id string) (int64, error) {
	return deleteByID(ctx, r.coll, id)
}

func (r *productRepo) MarkSponsored(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return store.ErrNotFound
	}
	// No upsert: an unknown id must not leave a partial product behind.
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"sponsored": true}})
	if err != nil {
		return fmt.Errorf("mark product sponsored: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Orders ---

type orderDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	models.Order `bson:",inline"`
}

type orderRepo struct {
	coll *mongo.Collection
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	res, err := r.coll.InsertOne(ctx, orderDoc{Order: *o})
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = insertedID(res)
	return nil
}

func (r *orderRepo) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	sort := bson.D{{Key: "orderDate", Value: -1}}
	cur, err := r.coll.Find(ctx, orderFilter(f), findOptions(f.Limit, sort))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		o := d.Order
		o.ID = d.ID.Hex()
		orders = append(orders, o)
	}
	return orders, nil
}

// deleteByID removes at most one document. Malformed ids delete nothing.
func deleteByID(ctx context.Context, coll *mongo.Collection, id string) (int64, error) {
	oid, ok := objectID(id)
	if !ok {
		return 0, nil
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}
