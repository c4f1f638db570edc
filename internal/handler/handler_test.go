package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/cache"
	"github.com/evermart/shop-api/internal/credential"
	"github.com/evermart/shop-api/internal/domain/auth"
	"github.com/evermart/shop-api/internal/domain/cart"
	"github.com/evermart/shop-api/internal/domain/category"
	"github.com/evermart/shop-api/internal/domain/contact"
	"github.com/evermart/shop-api/internal/domain/coupon"
	"github.com/evermart/shop-api/internal/domain/district"
	"github.com/evermart/shop-api/internal/domain/order"
	"github.com/evermart/shop-api/internal/domain/product"
	"github.com/evermart/shop-api/internal/domain/review"
)

// --- Mock implementations ---

type stubProducts struct {
	byID map[int64]product.Product
}

func newStubProducts(list ...product.Product) *stubProducts {
	m := make(map[int64]product.Product, len(list))
	for _, p := range list {
		m[p.ID] = p
	}
	return &stubProducts{byID: m}
}

func (s *stubProducts) List(context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProducts) ListByCategory(_ context.Context, cat string) ([]product.Product, error) {
	var out []product.Product
	for _, p := range s.byID {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProducts) ListTopSelling(ctx context.Context) ([]product.Product, error) {
	return s.List(ctx)
}

func (s *stubProducts) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (s *stubProducts) Create(_ context.Context, p *product.Product) error {
	p.ID = int64(len(s.byID) + 1)
	s.byID[p.ID] = *p
	return nil
}

func (s *stubProducts) Update(_ context.Context, p *product.Product) error {
	if _, ok := s.byID[p.ID]; !ok {
		return product.ErrNotFound
	}
	s.byID[p.ID] = *p
	return nil
}

func (s *stubProducts) Delete(_ context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return product.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type cartItemKey struct {
	cart    uuid.UUID
	product int64
}

type stubCarts struct {
	carts map[uuid.UUID]*cart.Cart
	items map[cartItemKey]*cart.Item
}

func newStubCarts() *stubCarts {
	return &stubCarts{
		carts: make(map[uuid.UUID]*cart.Cart),
		items: make(map[cartItemKey]*cart.Item),
	}
}

func (s *stubCarts) CreateCart(_ context.Context, c *cart.Cart) error {
	cp := *c
	s.carts[c.ID] = &cp
	return nil
}

func (s *stubCarts) GetActiveCart(_ context.Context, id uuid.UUID) (*cart.Cart, error) {
	c, ok := s.carts[id]
	if !ok || !c.Active {
		return nil, cart.ErrCartNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubCarts) UpdateTotals(_ context.Context, id uuid.UUID, subtotal, taxTotal, total decimal.Decimal) error {
	c, ok := s.carts[id]
	if !ok {
		return cart.ErrCartNotFound
	}
	c.Subtotal, c.TaxTotal, c.Total = subtotal, taxTotal, total
	return nil
}

func (s *stubCarts) ListItems(_ context.Context, cartID uuid.UUID) ([]cart.Item, error) {
	var out []cart.Item
	for _, it := range s.items {
		if it.CartID == cartID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *stubCarts) UpsertItem(_ context.Context, cartID uuid.UUID, productID int64, qty int, unitPrice decimal.Decimal) (*cart.Item, bool, error) {
	k := cartItemKey{cartID, productID}
	if it, ok := s.items[k]; ok {
		it.Quantity += qty
		it.LineTotal = unitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		cp := *it
		return &cp, false, nil
	}
	it := &cart.Item{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
	s.items[k] = it
	cp := *it
	return &cp, true, nil
}

func (s *stubCarts) SetItemQuantity(_ context.Context, cartID uuid.UUID, productID int64, qty int, unitPrice decimal.Decimal) (*cart.Item, error) {
	k := cartItemKey{cartID, productID}
	it, ok := s.items[k]
	if !ok {
		return nil, cart.ErrItemNotInCart
	}
	it.Quantity = qty
	it.LineTotal = unitPrice.Mul(decimal.NewFromInt(int64(qty)))
	cp := *it
	return &cp, nil
}

func (s *stubCarts) DeleteItem(_ context.Context, cartID uuid.UUID, productID int64) (bool, error) {
	k := cartItemKey{cartID, productID}
	if _, ok := s.items[k]; !ok {
		return false, nil
	}
	delete(s.items, k)
	return true, nil
}

func (s *stubCarts) Atomic(_ context.Context, fn func(cart.Repository) error) error {
	return fn(s)
}

type stubCategories struct {
	bySlug map[string]category.Category
}

func (s *stubCategories) List(context.Context) ([]category.Category, error) {
	out := make([]category.Category, 0, len(s.bySlug))
	for _, c := range s.bySlug {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCategories) ListFeatured(context.Context) ([]category.Category, error) {
	var out []category.Category
	for _, c := range s.bySlug {
		if c.Featured {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCategories) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	c, ok := s.bySlug[slug]
	if !ok {
		return nil, category.ErrNotFound
	}
	return &c, nil
}

func (s *stubCategories) Create(_ context.Context, c *category.Category) error {
	c.ID = int64(len(s.bySlug) + 1)
	s.bySlug[c.Slug] = *c
	return nil
}

func (s *stubCategories) Update(_ context.Context, c *category.Category) error {
	s.bySlug[c.Slug] = *c
	return nil
}

func (s *stubCategories) Delete(_ context.Context, id int64) error {
	for slug, c := range s.bySlug {
		if c.ID == id {
			delete(s.bySlug, slug)
			return nil
		}
	}
	return category.ErrNotFound
}

type stubReviews struct {
	reviews []review.Review
}

func (s *stubReviews) ListByProduct(_ context.Context, productID int64) ([]review.Review, error) {
	var out []review.Review
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubReviews) Create(_ context.Context, r *review.Review) error {
	r.ID = int64(len(s.reviews) + 1)
	s.reviews = append(s.reviews, *r)
	return nil
}

func (s *stubReviews) Delete(_ context.Context, id int64) error {
	for i, r := range s.reviews {
		if r.ID == id {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			return nil
		}
	}
	return review.ErrNotFound
}

type stubCoupons struct {
	byCode map[string]coupon.Coupon
}

func (s *stubCoupons) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := s.byCode[code]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	return &c, nil
}

func (s *stubCoupons) List(context.Context) ([]coupon.Coupon, error) {
	out := make([]coupon.Coupon, 0, len(s.byCode))
	for _, c := range s.byCode {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCoupons) Create(_ context.Context, c *coupon.Coupon) error {
	s.byCode[c.Code] = *c
	return nil
}

func (s *stubCoupons) Delete(_ context.Context, code string) error {
	if _, ok := s.byCode[code]; !ok {
		return coupon.ErrNotFound
	}
	delete(s.byCode, code)
	return nil
}

type stubDistricts struct {
	list []district.District
}

func (s *stubDistricts) List(context.Context) ([]district.District, error) {
	return s.list, nil
}

func (s *stubDistricts) Create(_ context.Context, d *district.District) error {
	d.ID = int64(len(s.list) + 1)
	s.list = append(s.list, *d)
	return nil
}

func (s *stubDistricts) Delete(_ context.Context, id int64) error {
	for i, d := range s.list {
		if d.ID == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return nil
		}
	}
	return district.ErrNotFound
}

type stubContacts struct {
	messages []contact.Message
}

func (s *stubContacts) Create(_ context.Context, m *contact.Message) error {
	m.ID = int64(len(s.messages) + 1)
	s.messages = append(s.messages, *m)
	return nil
}

type stubOrders struct {
	orders []order.Order
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	s.orders = append(s.orders, *o)
	return nil
}

func (s *stubOrders) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type stubAPIKeys struct {
	byHash map[string]auth.APIKeyInfo
}

func (s *stubAPIKeys) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	info, ok := s.byHash[hash]
	if !ok {
		return nil, auth.ErrKeyNotFound
	}
	return &info, nil
}

// --- Test fixture ---

const (
	testSecret = "test-signing-secret"
	testPepper = "test-pepper"
	testAPIKey = "admin-key"
)

type fixture struct {
	handler  http.Handler
	carts    *stubCarts
	products *stubProducts
	orders   *stubOrders
}

func newFixture(products ...product.Product) *fixture {
	carts := newStubCarts()
	prods := newStubProducts(products...)
	orders := &stubOrders{}

	mac := hmac.New(sha256.New, []byte(testPepper))
	mac.Write([]byte(testAPIKey))
	hash := hex.EncodeToString(mac.Sum(nil))

	h := NewHandler(
		cart.NewService(carts, prods, credential.NewCodec([]byte(testSecret)), cart.DefaultTaxRate),
		prods,
		&stubCategories{bySlug: make(map[string]category.Category)},
		&stubReviews{},
		order.NewService(prods, orders, order.DefaultDeliveryCharge),
		&stubCoupons{byCode: make(map[string]coupon.Coupon)},
		&stubDistricts{},
		&stubContacts{},
		cache.New(nil, 0),
		&stubAPIKeys{byHash: map[string]auth.APIKeyInfo{
			hash: {ID: "1", KeyHash: hash, Name: "test"},
		}},
		[]byte(testPepper),
	)
	return &fixture{handler: h.Routes(), carts: carts, products: prods, orders: orders}
}
