package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/reboot-golang/internal/auth"
	"github.com/01moynul/reboot-golang/internal/config"
	"github.com/01moynul/reboot-golang/internal/database"
	"github.com/01moynul/reboot-golang/internal/handlers"
	"github.com/01moynul/reboot-golang/internal/middleware"
	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
	"github.com/01moynul/reboot-golang/internal/store/sqlstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var serverNow = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	orders []models.Order
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, o models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testServer struct {
	router *gin.Engine
	store  *store.Store
	events *recordingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx := context.Background()
	db, err := database.OpenDB(ctx, database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlstore.EnsureSchema(ctx, db))
	s := sqlstore.New(db)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	tokens, err := auth.NewTokenService("routes-secret", s.Users)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &handlers.Handlers{
		Store:  s,
		Tokens: tokens,
		Events: pub,
		Logger: logger,
		Port:   "9000",
		Now:    func() time.Time { return serverNow },
	}
	router := SetupRouter(h, Options{
		Guard:  middleware.AuthMiddleware(tokens),
		Policy: config.DefaultPolicy(),
		Logger: logger,
	})
	return &testServer{router: router, store: s, events: pub}
}

func (ts *testServer) do(t *testing.T, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// login signs up email (ignoring a conflict) and returns a fresh token.
func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/users", gin.H{"email": email, "name": "Tester", "role": "seller"}, "")
	require.Contains(t, []int{http.StatusCreated, http.StatusConflict}, w.Code)

	w = ts.do(t, http.MethodGet, "/jwt?email="+email, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (ts *testServer) createProduct(t *testing.T, token string, body gin.H) models.Product {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/products", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Product](t, w)
}

func TestHome(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running at port 9000")
}

func TestCreateUserTwiceStoresOne(t *testing.T) {
	ts := newTestServer(t)
	body := gin.H{"email": "rina@example.com", "name": "Rina"}

	w := ts.do(t, http.MethodPost, "/users", body, "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.User](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.RoleBuyer, created.Role)

	w = ts.do(t, http.MethodPost, "/users", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")

	users, err := ts.store.Users.List(context.Background(), store.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreateUserValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/users", gin.H{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/users", gin.H{"email": "a@example.com", "role": "owner"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueJWT(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/jwt?email=ghost@example.com", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"accessToken":""}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/jwt", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := ts.login(t, "known@example.com")
	tokens, err := auth.NewTokenService("routes-secret", ts.store.Users)
	require.NoError(t, err)
	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "known@example.com", claims.Email)
	assert.Equal(t, auth.TokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestUserRoleAndListing(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "seller@example.com")
	ts.do(t, http.MethodPost, "/users", gin.H{"email": "buyer@example.com"}, "")

	w := ts.do(t, http.MethodGet, "/users/role/seller@example.com", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"seller@example.com","role":"seller"}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/users/role/nobody@example.com", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/users?role=buyer", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	buyers := decode[[]models.User](t, w)
	require.Len(t, buyers, 1)
	assert.Equal(t, "buyer@example.com", buyers[0].Email)

	w = ts.do(t, http.MethodDelete, "/users/"+buyers[0].ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deletedCount":1}`, w.Body.String())
}

func TestGuardedRouteNeverReachesHandler(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	w := ts.do(t, http.MethodPost, "/categories", gin.H{"name": "Laptops"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/categories", gin.H{"name": "Laptops"}, "not-a-token")
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Laptops"}`))
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	categories, err := ts.store.Categories.List(ctx, store.CategoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, categories)

	w = ts.do(t, http.MethodDelete, "/products/whatever", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCategorySlug(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "admin@example.com")

	w := ts.do(t, http.MethodPost, "/categories", gin.H{"name": "Mobile Phones "}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cat := decode[models.Category](t, w)
	assert.Equal(t, "mobile-phones", cat.Slug)
	assert.Equal(t, "Mobile Phones ", cat.Name)

	w = ts.do(t, http.MethodPost, "/categories", gin.H{"name": "mobile phones"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, "/categories", gin.H{"name": "!!!"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Category](t, w), 1)
}

func TestCreateProductStampsServerFields(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "sam@example.com")

	p := ts.createProduct(t, token, gin.H{
		"name":        "Pixel 6",
		"category":    "mobile-phones",
		"resalePrice": 250,
		"postingDate": "1999-01-01T00:00:00Z",
		"sponsored":   true,
	})

	assert.NotEmpty(t, p.ID)
	assert.True(t, serverNow.Equal(p.PostingDate), p.PostingDate)
	assert.False(t, p.Sponsored)
	assert.Equal(t, models.StatusAvailable, p.Status)
	assert.Equal(t, "sam@example.com", p.Seller.Email)

	w := ts.do(t, http.MethodGet, "/product/"+p.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	stored := decode[models.Product](t, w)
	assert.True(t, serverNow.Equal(stored.PostingDate))
	assert.False(t, stored.Sponsored)

	w = ts.do(t, http.MethodPost, "/products", gin.H{"name": "No category"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/products", gin.H{"name": "Bad", "category": "x", "status": "lost"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductFilters(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "sam@example.com")

	plain := ts.createProduct(t, token, gin.H{"name": "Kettle", "category": "kitchen"})
	promoted := ts.createProduct(t, token, gin.H{"name": "Blender", "category": "kitchen"})
	ts.createProduct(t, token, gin.H{"name": "Laptop", "category": "laptops", "seller": gin.H{"email": "other@example.com"}})

	w := ts.do(t, http.MethodPut, "/products/makesponsored/"+promoted.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/products?sponsored=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	sponsored := decode[[]models.Product](t, w)
	require.Len(t, sponsored, 1)
	assert.Equal(t, promoted.ID, sponsored[0].ID)

	w = ts.do(t, http.MethodGet, "/products", nil, "")
	assert.Len(t, decode[[]models.Product](t, w), 3)

	w = ts.do(t, http.MethodGet, "/products?limit=2", nil, "")
	assert.Len(t, decode[[]models.Product](t, w), 2)

	w = ts.do(t, http.MethodGet, "/products?limit=abc", nil, "")
	assert.Len(t, decode[[]models.Product](t, w), 3)

	// email and sponsored intersect
	w = ts.do(t, http.MethodGet, "/products?email=sam@example.com&sponsored=false", nil, "")
	both := decode[[]models.Product](t, w)
	require.Len(t, both, 1)
	assert.Equal(t, plain.ID, both[0].ID)

	w = ts.do(t, http.MethodGet, "/products/kitchen", nil, "")
	assert.Len(t, decode[[]models.Product](t, w), 2)

	w = ts.do(t, http.MethodGet, "/products/kitchen?limit=1", nil, "")
	assert.Len(t, decode[[]models.Product](t, w), 1)

	w = ts.do(t, http.MethodGet, "/products/Kitchen", nil, "")
	assert.Empty(t, decode[[]models.Product](t, w))

	w = ts.do(t, http.MethodGet, "/products?sponsored=maybe", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMakeSponsoredKeepsOtherFields(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "sam@example.com")

	before := ts.createProduct(t, token, gin.H{
		"name":          "Road bike",
		"category":      "bicycles",
		"condition":     "good",
		"originalPrice": 900,
		"resalePrice":   400,
		"yearsOfUse":    2,
		"status":        "booked",
	})

	w := ts.do(t, http.MethodPut, "/products/makesponsored/"+before.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/product/"+before.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	after := decode[models.Product](t, w)

	assert.True(t, after.Sponsored)
	after.Sponsored = false
	assert.True(t, before.PostingDate.Equal(after.PostingDate))
	after.PostingDate = before.PostingDate
	assert.Equal(t, before, after)

	w = ts.do(t, http.MethodPut, "/products/makesponsored/does-not-exist", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	all, err := ts.store.Products.List(context.Background(), store.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteProductIsIdempotent(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "sam@example.com")
	p := ts.createProduct(t, token, gin.H{"name": "Desk", "category": "furniture"})

	w := ts.do(t, http.MethodDelete, "/products/"+p.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deletedCount":1}`, w.Body.String())

	first := ts.do(t, http.MethodDelete, "/products/"+p.ID, nil, token)
	second := ts.do(t, http.MethodDelete, "/products/"+p.ID, nil, token)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Code, second.Code)
	assert.JSONEq(t, `{"deletedCount":0}`, first.Body.String())
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	w = ts.do(t, http.MethodGet, "/product/"+p.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrders(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "buyer@example.com")

	w := ts.do(t, http.MethodPost, "/orders", gin.H{
		"productId":       "p-1",
		"productName":     "Pixel 6",
		"price":           250,
		"meetingLocation": "Dhaka",
		"orderDate":       "1999-01-01T00:00:00Z",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[models.Order](t, w)
	assert.Equal(t, "buyer@example.com", order.BuyerEmail)
	assert.True(t, serverNow.Equal(order.OrderDate))

	require.Len(t, ts.events.orders, 1)
	assert.Equal(t, order.ID, ts.events.orders[0].ID)

	w = ts.do(t, http.MethodPost, "/orders", gin.H{"buyerEmail": "friend@example.com", "productId": "p-2"}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodGet, "/orders?email=buyer@example.com", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]models.Order](t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, "p-1", mine[0].ProductID)

	w = ts.do(t, http.MethodGet, "/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/orders", gin.H{"price": 10}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomPolicyOpensRoutes(t *testing.T) {
	ts := newTestServer(t)

	policy, err := config.NewPolicy([]string{"POST /orders"})
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("routes-secret", ts.store.Users)
	require.NoError(t, err)
	h := &handlers.Handlers{Store: ts.store, Tokens: tokens}
	router := SetupRouter(h, Options{Guard: middleware.AuthMiddleware(tokens), Policy: policy})

	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Open"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"productId":"p"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func multipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "sam@example.com")

	dir := t.TempDir()
	tokens, err := auth.NewTokenService("routes-secret", ts.store.Users)
	require.NoError(t, err)
	h := &handlers.Handlers{Store: ts.store, Tokens: tokens, UploadDir: dir, BaseURL: "http://img.test/"}
	router := SetupRouter(h, Options{Guard: middleware.AuthMiddleware(tokens)})

	upload := func(filename, bearer string) *httptest.ResponseRecorder {
		body, contentType := multipartImage(t, filename, []byte("not really a png"))
		req := httptest.NewRequest(http.MethodPost, "/uploads", body)
		req.Header.Set("Content-Type", contentType)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, upload("phone.png", "").Code)
	assert.Equal(t, http.StatusBadRequest, upload("script.sh", token).Code)

	w := upload("phone.PNG", token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[map[string]string](t, w)
	require.True(t, strings.HasPrefix(resp["url"], "http://img.test/uploads/"), resp["url"])
	assert.True(t, strings.HasSuffix(resp["url"], ".png"))

	name := strings.TrimPrefix(resp["url"], "http://img.test/uploads/")
	saved, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(saved))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not really a png", w.Body.String())
}
