package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"homyhive/internal/adapters/external/chat"
	"homyhive/internal/adapters/external/imgbb"
	"homyhive/internal/adapters/external/mailer"
	"homyhive/internal/adapters/external/razorpay"
	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/adapters/persistence/repositories"
	"homyhive/internal/adapters/reviewstore"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/validator"

	"github.com/google/uuid"
)

// ============================================================
// Repositories
// ============================================================

type fakeUsers struct {
	mu    sync.Mutex
	items []*models.User
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Email == u.Email || existing.ExternalID == u.ExternalID {
			return domain.ErrDuplicateEntry
		}
	}
	u.ID = uint(len(f.items) + 1)
	f.items = append(f.items, u)
	return nil
}

func (f *fakeUsers) GetByExternalID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.ExternalID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, _ *models.User) error { return nil }

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

type fakeApps struct {
	mu     sync.Mutex
	items  []*models.HostApplication
	events []*models.HostApplicationEvent
}

func (f *fakeApps) Create(_ context.Context, app *models.HostApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	app.ID = uint(len(f.items) + 1)
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	f.items = append(f.items, app)
	return nil
}

func (f *fakeApps) find(match func(*models.HostApplication) bool) (*models.HostApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.items {
		if match(a) {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeApps) GetByID(_ context.Context, id uint) (*models.HostApplication, error) {
	return f.find(func(a *models.HostApplication) bool { return a.ID == id })
}

func (f *fakeApps) GetByApplicationID(_ context.Context, id string) (*models.HostApplication, error) {
	return f.find(func(a *models.HostApplication) bool { return a.ApplicationID == id })
}

func (f *fakeApps) GetByPrincipal(_ context.Context, p string) (*models.HostApplication, error) {
	return f.find(func(a *models.HostApplication) bool { return a.PrincipalID == p })
}

func (f *fakeApps) FindByEmailOrPhone(_ context.Context, email, phone string) (*models.HostApplication, error) {
	return f.find(func(a *models.HostApplication) bool { return a.Email == email || a.Phone == phone })
}

func (f *fakeApps) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := f.find(func(a *models.HostApplication) bool { return a.Email == email })
	return err == nil, nil
}

func (f *fakeApps) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	_, err := f.find(func(a *models.HostApplication) bool { return a.Phone == phone })
	return err == nil, nil
}

func (f *fakeApps) Update(context.Context, *models.HostApplication) error { return nil }

func (f *fakeApps) List(_ context.Context, filter repositories.ApplicationFilter) ([]*models.HostApplication, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.HostApplication
	for _, a := range f.items {
		if len(filter.Statuses) == 0 {
			out = append(out, a)
			continue
		}
		for _, st := range filter.Statuses {
			if a.Status == st {
				out = append(out, a)
				break
			}
		}
	}
	total := int64(len(out))
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = nil
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (f *fakeApps) CountByStatus(context.Context) (map[domain.ApplicationStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[domain.ApplicationStatus]int64{}
	for _, a := range f.items {
		out[a.Status]++
	}
	return out, nil
}

func (f *fakeApps) Recent(_ context.Context, limit int) ([]*models.HostApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.HostApplication, 0, limit)
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.items[i])
	}
	return out, nil
}

func (f *fakeApps) AddEvent(_ context.Context, e *models.HostApplicationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uint(len(f.events) + 1)
	f.events = append(f.events, e)
	return nil
}

func (f *fakeApps) ListEvents(_ context.Context, id uint) ([]*models.HostApplicationEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.HostApplicationEvent
	for _, e := range f.events {
		if e.ApplicationID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeListings struct {
	mu    sync.Mutex
	apps  *fakeApps
	items []*models.Listing
	next  uint
}

func (f *fakeListings) Create(_ context.Context, l *models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	l.ID = f.next
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().Add(time.Duration(f.next) * time.Millisecond)
	}
	f.items = append(f.items, l)
	return nil
}

func (f *fakeListings) UpsertFromApplication(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	if l.SourceApplicationID == nil {
		return nil, errors.New("listing has no source application")
	}
	f.mu.Lock()
	for _, existing := range f.items {
		if existing.SourceApplicationID != nil && *existing.SourceApplicationID == *l.SourceApplicationID {
			f.mu.Unlock()
			return existing, nil
		}
	}
	f.mu.Unlock()
	return l, f.Create(ctx, l)
}

func (f *fakeListings) GetByID(_ context.Context, id uint) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.items {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeListings) Exists(ctx context.Context, id uint) (bool, error) {
	_, err := f.GetByID(ctx, id)
	return err == nil, nil
}

func (f *fakeListings) Update(context.Context, *models.Listing) error { return nil }

func (f *fakeListings) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.items {
		if l.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeListings) visible(l *models.Listing) bool {
	if l.HostID == nil {
		return true
	}
	app, err := f.apps.GetByID(context.Background(), *l.HostID)
	if errors.Is(err, domain.ErrNotFound) {
		return true
	}
	return err == nil && app.Status == domain.StatusApproved
}

func (f *fakeListings) Search(_ context.Context, filter repositories.ListingFilter) ([]*models.Listing, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(filter.Query)
	var out []*models.Listing
	for _, l := range f.items {
		if !f.visible(l) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(l.Title+" "+l.Description+" "+l.Location+" "+l.Country), q) {
			continue
		}
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && l.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && l.Price > *filter.MaxPrice {
			continue
		}
		if filter.Guests > 0 && l.Guests < filter.Guests {
			continue
		}
		out = append(out, l)
	}
	switch filter.Sort {
	case domain.SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	if !filter.PromotedAt.IsZero() {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].IsPromoted(filter.PromotedAt) && !out[j].IsPromoted(filter.PromotedAt)
		})
	}

	total := int64(len(out))
	if filter.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (f *fakeListings) Facets(context.Context) (*repositories.ListingFacets, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	facets := &repositories.ListingFacets{}
	for _, l := range f.items {
		if !f.visible(l) {
			continue
		}
		facets.PriceStats.Count++
	}
	return facets, nil
}

func (f *fakeListings) Suggestions(_ context.Context, q string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, l := range f.items {
		if strings.Contains(strings.ToLower(l.Location), strings.ToLower(q)) && len(out) < limit {
			out = append(out, l.Location)
		}
	}
	return out, nil
}

func (f *fakeListings) CategoryStats(context.Context) ([]repositories.CategoryCount, error) {
	return nil, nil
}

func (f *fakeListings) PopularDestinations(context.Context, int) ([]repositories.LocationCount, error) {
	return nil, nil
}

func (f *fakeListings) ListIDs(context.Context) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint, 0, len(f.items))
	for _, l := range f.items {
		ids = append(ids, l.ID)
	}
	return ids, nil
}

func (f *fakeListings) UpdateRating(ctx context.Context, id uint, rating float64, count int) error {
	l, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	l.Rating, l.ReviewCount = rating, count
	return nil
}

func (f *fakeListings) SetPromotion(ctx context.Context, id uint, expires time.Time) error {
	l, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	l.PromotionExpiresAt = &expires
	return nil
}

func (f *fakeListings) ClearExpiredPromotions(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, l := range f.items {
		if l.PromotionExpiresAt != nil && !l.PromotionExpiresAt.After(now) {
			l.PromotionExpiresAt = nil
			n++
		}
	}
	return n, nil
}

func (f *fakeListings) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

type fakeBookings struct {
	mu    sync.Mutex
	items []*models.Booking
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.PaymentID == b.PaymentID {
			return domain.ErrDuplicateEntry
		}
	}
	b.ID = uint(len(f.items) + 1)
	f.items = append(f.items, b)
	return nil
}

func (f *fakeBookings) GetByPaymentID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.items {
		if b.PaymentID == id {
			return b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBookings) ListByUser(_ context.Context, user string) ([]*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.items {
		if b.UserID == user {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

type fakeNotifications struct {
	mu    sync.Mutex
	items []*models.Notification
	fail  error
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uint(len(f.items) + 1)
	f.items = append(f.items, n)
	return nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, user string, limit int) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for _, n := range f.items {
		if n.UserID == user && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) CountUnread(_ context.Context, user string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c int64
	for _, n := range f.items {
		if n.UserID == user && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, user string, ids []uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c int64
	for _, n := range f.items {
		for _, id := range ids {
			if n.ID == id && n.UserID == user && !n.IsRead {
				n.IsRead = true
				c++
			}
		}
	}
	return c, nil
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, user string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c int64
	for _, n := range f.items {
		if n.UserID == user && !n.IsRead {
			n.IsRead = true
			c++
		}
	}
	return c, nil
}

type fakeNewsletter struct {
	emails map[string]bool
}

func (f *fakeNewsletter) Create(_ context.Context, sub *models.NewsletterSubscription) error {
	if f.emails == nil {
		f.emails = map[string]bool{}
	}
	if f.emails[sub.Email] {
		return domain.ErrDuplicateEntry
	}
	f.emails[sub.Email] = true
	return nil
}

func (f *fakeNewsletter) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return f.emails[email], nil
}

type fakeReviews struct {
	mu    sync.Mutex
	items []reviewstore.Review
	fail  error
}

func (f *fakeReviews) EnsureSchema(context.Context) error { return nil }

func (f *fakeReviews) Create(_ context.Context, r *reviewstore.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	f.items = append(f.items, *r)
	return nil
}

func (f *fakeReviews) GetByID(_ context.Context, id string) (*reviewstore.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			r := f.items[i]
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeReviews) ListByListing(_ context.Context, listingID string) ([]reviewstore.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []reviewstore.Review{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].ListingID == listingID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeReviews) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeReviews) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	return f.DeleteByListings(ctx, []string{listingID})
}

func (f *fakeReviews) DeleteByListings(_ context.Context, ids []string) (int64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.items[:0]
	var n int64
	for _, r := range f.items {
		if drop[r.ListingID] {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.items = kept
	return n, nil
}

func (f *fakeReviews) ListListingIDs(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, r := range f.items {
		if !seen[r.ListingID] {
			seen[r.ListingID] = true
			out = append(out, r.ListingID)
		}
	}
	return out, nil
}

func (f *fakeReviews) Stats(_ context.Context, listingID string) (reviewstore.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var st reviewstore.Stats
	sum := 0
	for _, r := range f.items {
		if r.ListingID == listingID {
			st.Count++
			sum += r.Rating
		}
	}
	if st.Count > 0 {
		st.Average = float64(sum) / float64(st.Count)
	}
	return st, nil
}

// ============================================================
// External collaborators
// ============================================================

const testKeySecret = "test_key_secret"

type fakeGateway struct {
	*razorpay.Client
	receipts []string
	amounts  []int64
	fail     error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{Client: razorpay.NewClient("http://gateway.invalid", "rzp_test_key", testKeySecret, time.Second)}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*razorpay.Order, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	g.receipts = append(g.receipts, receipt)
	g.amounts = append(g.amounts, amount)
	return &razorpay.Order{ID: fmt.Sprintf("order_%d", len(g.receipts)), Amount: amount, Currency: currency, Receipt: receipt}, nil
}

type fakeOrders struct {
	items map[string]models.PaymentOrder
}

func (f *fakeOrders) Create(_ context.Context, order *models.PaymentOrder) error {
	if f.items == nil {
		f.items = map[string]models.PaymentOrder{}
	}
	if _, ok := f.items[order.OrderID]; ok {
		return domain.ErrDuplicateEntry
	}
	if order.Status == "" {
		order.Status = models.OrderCreated
	}
	order.ID = uint(len(f.items) + 1)
	f.items[order.OrderID] = *order
	return nil
}

func (f *fakeOrders) GetByOrderID(_ context.Context, orderID string) (*models.PaymentOrder, error) {
	order, ok := f.items[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &order, nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, orderID, paymentID string) (bool, error) {
	order, ok := f.items[orderID]
	if !ok || order.Status != models.OrderCreated {
		return false, nil
	}
	order.Status = models.OrderPaid
	order.PaymentID = paymentID
	f.items[orderID] = order
	return true, nil
}

type fakeUploader struct {
	names []string
	fail  error
}

func (u *fakeUploader) Upload(_ context.Context, name string, _ []byte) (*imgbb.Image, error) {
	if u.fail != nil {
		return nil, u.fail
	}
	u.names = append(u.names, name)
	return &imgbb.Image{URL: "https://i.ibb.co/" + name, Filename: name}, nil
}

type fakeGeocoder struct {
	point *domain.Geometry
	err   error
	calls int
}

func (g *fakeGeocoder) Geocode(context.Context, string) (*domain.Geometry, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if g.point == nil {
		return nil, domain.ErrNotFound
	}
	p := *g.point
	return &p, nil
}

type fakeMail struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail error
}

func (m *fakeMail) Send(_ context.Context, msg mailer.Message) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type fakeSMS struct {
	sent []string
}

func (s *fakeSMS) Send(_ context.Context, phone, _ string) error {
	s.sent = append(s.sent, phone)
	return nil
}

type fakeChat struct {
	got    chat.Query
	answer *chat.Answer
	err    error
}

func (c *fakeChat) Ask(_ context.Context, q chat.Query) (*chat.Answer, error) {
	c.got = q
	return c.answer, c.err
}

// ============================================================
// Wiring
// ============================================================

type testEnv struct {
	users         *fakeUsers
	apps          *fakeApps
	listings      *fakeListings
	bookings      *fakeBookings
	notifications *fakeNotifications
	newsletter    *fakeNewsletter
	reviews       *fakeReviews
	orders        *fakeOrders
	gateway       *fakeGateway
	uploader      *fakeUploader
	geocoder      *fakeGeocoder
	mail          *fakeMail
	sms           *fakeSMS
	validate      *validator.Validator
	log           logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	apps := &fakeApps{}
	return &testEnv{
		users:         &fakeUsers{},
		apps:          apps,
		listings:      &fakeListings{apps: apps},
		bookings:      &fakeBookings{},
		notifications: &fakeNotifications{},
		newsletter:    &fakeNewsletter{},
		reviews:       &fakeReviews{},
		orders:        &fakeOrders{},
		gateway:       newFakeGateway(),
		uploader:      &fakeUploader{},
		geocoder:      &fakeGeocoder{},
		mail:          &fakeMail{},
		sms:           &fakeSMS{},
		validate:      validator.MustNew(),
		log:           logger.NewNoOpLogger(),
	}
}

func (e *testEnv) notificationService() *NotificationService {
	return NewNotificationService(e.notifications, e.users, e.mail, e.sms, e.validate, e.log)
}

func (e *testEnv) hostService() *HostApplicationService {
	return NewHostApplicationService(e.apps, e.listings, e.uploader, e.geocoder, e.gateway, e.validate, e.log)
}

func (e *testEnv) identityService() *IdentityService {
	return NewIdentityService(e.users, nil, e.mail, e.validate, "test-jwt-secret", e.log)
}

func (e *testEnv) adminService() *AdminService {
	return NewAdminService(e.apps, e.listings, e.identityService(), e.notificationService(), e.geocoder, e.log)
}

func (e *testEnv) listingService() *ListingService {
	return NewListingService(e.listings, e.apps, e.reviews, e.uploader, e.geocoder, e.orders, e.gateway, e.notificationService(), e.validate, e.log)
}

func (e *testEnv) bookingService() *BookingService {
	return NewBookingService(e.bookings, e.listings, e.orders, e.gateway, e.notificationService(), e.log)
}

func (e *testEnv) reviewService() *ReviewService {
	return NewReviewService(e.reviews, e.listings, e.notificationService(), e.validate, e.log)
}

func guest(id string) domain.AuthContext {
	return domain.AuthContext{
		Principal:   domain.PrincipalID(id),
		Email:       id + "@example.com",
		DisplayName: strings.ToUpper(id[:1]) + id[1:],
		Role:        domain.RoleGuest,
	}
}

var testAdmin = domain.AuthContext{Principal: "admin-1", Email: "admin@homyhive.com", Role: domain.RoleAdmin}

// validApplication returns a registration form that passes every check
func validApplication() Fields {
	return Fields{
		"firstName":              "Asha",
		"lastName":               "Rao",
		"email":                  "Asha@Example.com ",
		"phone":                  "9876543210",
		"dateOfBirth":            "1990-04-12",
		"gender":                 "female",
		"idType":                 "aadhaar",
		"idNumber":               "1234 5678 9012",
		"bankAccount":            "001234567890",
		"accountHolder":          "Asha Rao",
		"ifsc":                   "HDFC0001234",
		"address":                "12 MG Road",
		"city":                   "Bengaluru",
		"state":                  "Karnataka",
		"pincode":                "560001",
		"termsAccepted":          "on",
		"privacyPolicyAccepted":  true,
		"backgroundCheckConsent": "yes",
	}
}
