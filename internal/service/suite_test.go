package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	outbox "github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/worker"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/testsuite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var errStorageDown = errors.New("storage unavailable")

// fakeStorage fails the upload whose 1-based position equals failOn.
type fakeStorage struct {
	mu      sync.Mutex
	uploads int
	failOn  int
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.uploads++
	if f.uploads == f.failOn {
		return errStorageDown
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

// clock hands out strictly increasing instants so generated slugs never collide.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func upload(name string) Upload {
	return Upload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(name)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(name))), nil
		},
	}
}

type ServiceSuite struct {
	testsuite.BaseSuite

	logger     *zap.Logger
	clock      *clock
	store      *fakeStorage
	outboxRepo worker.OutboxRepository

	productRepo repository.ProductRepository
	userRepo    repository.UserRepository

	products    ProductService
	cached      *CachedProductService
	images      ImageService
	users       UserService
	orders      OrderService
	settings    SettingsService
	categories  CategoryService
	collections CollectionService
	offers      OfferService
}

func (s *ServiceSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("integration suite")
	}
	s.BaseSuite.SetupInfrastructure(testsuite.Options{
		Migrations: "../../migrations",
		Redis:      true,
	})
}

func (s *ServiceSuite) TearDownSuite() {
	s.BaseSuite.TearDownInfrastructure()
}

func (s *ServiceSuite) SetupTest() {
	s.BaseSuite.TruncateTables(
		"users", "categories", "products", "collections", "offers", "orders",
		"contact_messages", "announcement", "outbox", "processed_events",
	)

	s.logger = zap.NewNop()
	s.clock = &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.store = newFakeStorage()
	s.outboxRepo = outbox.NewOutboxRepository()

	s.productRepo = repository.NewProductRepository(s.DbPool, s.logger)
	s.userRepo = repository.NewUserRepository(s.DbPool, s.logger)

	products := NewProductService(s.productRepo, s.outboxRepo, s.DbPool, s.logger)
	products.(*productService).now = s.clock.Now
	s.products = products
	s.cached = NewCachedProductService(products, s.Redis, time.Minute, s.logger)

	images := NewImageService(s.productRepo, repository.NewImageRepository(s.DbPool, s.logger), s.store, s.cached, s.DbPool, s.logger)
	images.(*imageService).now = s.clock.Now
	s.images = images

	s.users = NewUserService(s.userRepo, s.logger)
	s.orders = NewOrderService(repository.NewOrderRepository(s.DbPool, s.logger), s.productRepo, s.userRepo, s.outboxRepo, s.cached, s.DbPool, s.logger)
	s.settings = NewSettingsService(repository.NewSettingsRepository(s.DbPool, s.logger), s.logger)

	categories := NewCategoryService(repository.NewCategoryRepository(s.DbPool, s.logger), s.productRepo, s.store, s.cached, s.logger)
	categories.(*categoryService).now = s.clock.Now
	s.categories = categories

	collections := NewCollectionService(repository.NewCollectionRepository(s.DbPool, s.logger), s.productRepo, s.store, s.DbPool, s.logger)
	collections.(*collectionService).now = s.clock.Now
	s.collections = collections

	offers := NewOfferService(repository.NewOfferRepository(s.DbPool, s.logger), s.store, s.logger)
	offers.(*offerService).now = s.clock.Now
	s.offers = offers
}

func (s *ServiceSuite) createProduct(name string, price string, quantity int32, active bool) *domain.Product {
	product, err := s.products.Create(s.Ctx, &domain.CreateProductInput{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
		IsActive: &active,
	})
	s.Require().NoError(err)
	return product
}

func (s *ServiceSuite) createUser(externalID, email string) *domain.User {
	user, err := s.users.SyncPrincipal(s.Ctx, domain.Principal{ExternalID: externalID, Email: email, Name: externalID})
	s.Require().NoError(err)
	return user
}

func (s *ServiceSuite) countRows(query string, args ...any) int {
	var n int
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, query, args...).Scan(&n))
	return n
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
