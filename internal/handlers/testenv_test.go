package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bittumobiles/wholesale_shop/internal/config"
	"github.com/bittumobiles/wholesale_shop/internal/models"
	"github.com/bittumobiles/wholesale_shop/internal/transport"
)

type stubPublisher struct {
	mu     sync.Mutex
	events []map[string]any
}

func (p *stubPublisher) PublishEvent(_ context.Context, _, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := event.(map[string]any); ok {
		p.events = append(p.events, m)
	}
	return nil
}

func (p *stubPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, fmt.Sprint(e["type"]))
	}
	return out
}

type testEnv struct {
	E        *echo.Echo
	DB       *gorm.DB
	P        *ProductHandler
	Producer *stubPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	e := echo.New()
	e.Validator = transport.NewValidator()

	producer := &stubPublisher{}
	return &testEnv{
		E:        e,
		DB:       db,
		P:        &ProductHandler{DB: db, Producer: producer},
		Producer: producer,
	}
}

func (env *testEnv) doJSONRequest(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedGalaxy(t *testing.T) models.Product {
	t.Helper()

	p := models.Product{
		Name:           "Galaxy S24 Ultra",
		Brand:          "Samsung",
		Category:       "Mobile",
		BasePrice:      129999,
		WholesalePrice: 115000,
		Stock:          50,
		Slabs: []models.PricingSlab{
			{MinQty: 5, Price: 112000},
			{MinQty: 10, Price: 110000},
		},
	}
	require.NoError(t, env.DB.Create(&p).Error)
	return p
}

func (env *testEnv) seedGalaxy2(t *testing.T) models.Product {
	t.Helper()

	p := models.Product{
		Name:           "Redmi Note 13 Pro",
		Brand:          "Xiaomi",
		Category:       "Mobile",
		BasePrice:      24999,
		WholesalePrice: 21500,
		Stock:          100,
		Slabs: []models.PricingSlab{
			{MinQty: 10, Price: 21000},
			{MinQty: 20, Price: 20500},
		},
	}
	require.NoError(t, env.DB.Create(&p).Error)
	return p
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()

	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, code, he.Code)
}

func validProductPayload() transport.ProductRequest {
	return transport.ProductRequest{
		Name:           "iPhone 15 Pro",
		Brand:          "Apple",
		Category:       "Mobile",
		RAM:            "8GB",
		Storage:        "128GB",
		Description:    "Forged in titanium. A17 Pro chip.",
		BasePrice:      134900,
		WholesalePrice: 128000,
		Stock:          30,
		IsNewArrival:   true,
		Slabs: []transport.SlabPayload{
			{MinQty: 3, Price: 127000},
			{MinQty: 10, Price: 125000},
		},
	}
}
