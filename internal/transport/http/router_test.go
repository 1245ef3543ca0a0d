package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/handler"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBadToken = domain.Errorf(domain.ErrUnauthorized, "Invalid token. Please log in again!")

type fakeVerifier struct{}

// Verify accepts tokens of the form "<role>-token" and maps them to a principal.
func (fakeVerifier) Verify(token string) (*domain.Principal, error) {
	role, ok := strings.CutSuffix(token, "-token")
	if !ok {
		return nil, errBadToken
	}
	return &domain.Principal{ExternalID: role, Email: role + "@example.com", Name: role}, nil
}

type fakeUsers struct{}

func (fakeUsers) SyncPrincipal(_ context.Context, p domain.Principal) (*domain.User, error) {
	role := domain.RoleUser
	if p.ExternalID == domain.RoleAdmin {
		role = domain.RoleAdmin
	}
	return &domain.User{ID: 1, Name: p.Name, Email: p.Email, Role: role}, nil
}

type fakeProducts struct {
	deleted    []int64
	lastFilter catalog.Filter
}

func (f *fakeProducts) List(_ context.Context, filter catalog.Filter) ([]domain.Product, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeProducts) Featured(context.Context) ([]domain.Product, error) { return nil, nil }

func (f *fakeProducts) NewArrivals(context.Context) ([]domain.Product, error) { return nil, nil }

func (f *fakeProducts) GetByID(_ context.Context, id int64, _ bool) (*domain.Product, error) {
	if id == 1 {
		return &domain.Product{ID: 1, Name: "Silk Saree", IsActive: true}, nil
	}
	return nil, repository.ErrProductNotFound
}

func (f *fakeProducts) Create(context.Context, *domain.CreateProductInput) (*domain.Product, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProducts) Update(context.Context, int64, *domain.UpdateProductInput) (*domain.Product, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *fakeProducts) {
	t.Helper()

	logger := zap.NewNop()
	products := &fakeProducts{}
	reg := prometheus.NewRegistry()

	app := NewApp(AppConfig{AllowOrigins: "http://localhost:5173"}, middleware.NewMetrics(reg, "test"), logger)

	handlers := &Handlers{
		Auth:       handler.NewAuthHandler(false, logger),
		Product:    handler.NewProductHandler(products, logger),
		Image:      handler.NewImageHandler(nil, logger),
		Category:   handler.NewCategoryHandler(nil, logger),
		Collection: handler.NewCollectionHandler(nil, logger),
		Offer:      handler.NewOfferHandler(nil, logger),
		Settings:   handler.NewSettingsHandler(nil, logger),
		Order:      handler.NewOrderHandler(nil, logger),
		Enquiry:    handler.NewEnquiryHandler(nil, logger),
		Admin:      handler.NewAdminHandler(nil, nil, logger),
	}

	RegisterRoutes(app, handlers, RouteDeps{
		Auth:     middleware.NewAuthMiddleware(fakeVerifier{}, fakeUsers{}, logger),
		Gatherer: reg,
	})

	return app, products
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}

	return resp.StatusCode, decoded
}

func TestDeleteProduct_RoleGate(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		status  int
		message string
		deleted bool
	}{
		{
			name:    "anonymous",
			status:  fiber.StatusUnauthorized,
			message: "You are not logged in! Please log in to get access.",
		},
		{
			name:    "malformed token",
			token:   "garbage",
			status:  fiber.StatusUnauthorized,
			message: "Invalid token. Please log in again!",
		},
		{
			name:    "customer",
			token:   "user-token",
			status:  fiber.StatusForbidden,
			message: "You do not have permission to perform this action",
		},
		{
			name:    "admin",
			token:   "admin-token",
			status:  fiber.StatusNoContent,
			deleted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, products := newTestApp(t)

			status, body := do(t, app, fiber.MethodDelete, "/api/products/1", tt.token, "")
			require.Equal(t, tt.status, status)

			if tt.message != "" {
				require.Equal(t, "fail", body["status"])
				require.Equal(t, tt.message, body["message"])
			}

			if tt.deleted {
				require.Equal(t, []int64{1}, products.deleted)
			} else {
				require.Empty(t, products.deleted)
			}
		})
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, fiber.MethodGet, "/api/products/42", "", "")
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, "fail", body["status"])
	require.Equal(t, "Product not found", body["message"])
}

func TestGetProduct_InvalidID(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, fiber.MethodGet, "/api/products/abc", "", "")
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "fail", body["status"])
}

func TestListProducts_ShowInactiveOnlyForAdmins(t *testing.T) {
	app, products := newTestApp(t)

	status, body := do(t, app, fiber.MethodGet, "/api/products?showInactive=true&sort=price-low", "user-token", "")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "success", body["status"])
	require.EqualValues(t, 0, body["results"])
	require.False(t, products.lastFilter.IncludeInactive)
	require.Equal(t, catalog.SortPriceLow, products.lastFilter.Sort)

	status, _ = do(t, app, fiber.MethodGet, "/api/products?showInactive=true", "admin-token", "")
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, products.lastFilter.IncludeInactive)
}

func TestListProducts_BadTokenIsIgnored(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, fiber.MethodGet, "/api/products", "garbage", "")
	require.Equal(t, fiber.StatusOK, status)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, fiber.MethodPost, "/api/products", "admin-token", `{"price": "10"}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "Validation Error", body["message"])

	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, errs, "name")
}

func TestGetMe(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, fiber.MethodGet, "/api/auth/me", "", "")
	require.Equal(t, fiber.StatusUnauthorized, status)

	status, body := do(t, app, fiber.MethodGet, "/api/auth/me", "admin-token", "")
	require.Equal(t, fiber.StatusOK, status)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "admin@example.com", data["email"])
	require.Equal(t, domain.RoleAdmin, data["role"])
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, fiber.MethodGet, "/health", "", "")
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(fiber.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), "test_http_requests_total")
}

func corsPreflight(t *testing.T, app *fiber.App, origin string) *stdhttp.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodOptions, "/health", nil)
	req.Header.Set(fiber.HeaderOrigin, origin)
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodGet)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCORS_NamedOriginAllowsCredentials(t *testing.T) {
	app, _ := newTestApp(t)

	resp := corsPreflight(t, app, "http://localhost:5173")
	require.Equal(t, "http://localhost:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	require.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
}

func TestCORS_WildcardOriginDropsCredentials(t *testing.T) {
	var app *fiber.App
	require.NotPanics(t, func() {
		app = NewApp(AppConfig{AllowOrigins: "*"}, nil, zap.NewNop())
	})
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp := corsPreflight(t, app, "https://shop.example.com")
	require.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	require.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
}
