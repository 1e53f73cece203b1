package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/oscr-register/internal/application/service"
	"github.com/sangkips/oscr-register/internal/config"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/infrastructure/database"
	"github.com/sangkips/oscr-register/internal/infrastructure/repository/memory"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/response"
	"github.com/sangkips/oscr-register/internal/presentation/http/handler"
	"github.com/sangkips/oscr-register/pkg/money"
	"github.com/sangkips/oscr-register/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type server struct {
	t        *testing.T
	router   *gin.Engine
	espresso string
	cashier  string
	manager  string
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	clock := &fixedClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)}
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	taxes := memory.NewTaxRepository(store)

	cfg := &config.Config{
		App: config.AppConfig{Name: "oscr-register-test"},
		Register: config.RegisterConfig{
			Currency:        "EUR",
			StandardVATName: "Standard",
			StandardVATRate: decimal.NewFromInt(19),
			StandardVATAbbr: "A",
			ReducedVATName:  "Reduced",
			ReducedVATRate:  decimal.NewFromInt(7),
			ReducedVATAbbr:  "B",
			AdminName:       "Chef",
			AdminPIN:        "9999",
		},
	}

	taxService := service.NewTaxService(taxes, clock)
	userService := service.NewUserService(users, clock)
	catalogService := service.NewCatalogService(memory.NewSalesItemRepository(store), memory.NewOfferRepository(store), clock, "EUR")
	billService := service.NewBillService(memory.NewBillRepository(store), taxService, service.NewContextUserProvider(users), clock)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	require.NoError(t, database.Bootstrap(ctx, &cfg.Register, taxService, userService))
	_, err := userService.CreateOperator(ctx, &service.CreateOperatorInput{Name: "Ada", PIN: "1234"})
	require.NoError(t, err)

	item, err := catalogService.CreateSalesItem(ctx, &service.CreateSalesItemInput{Kind: enum.OfferKindProduct, Name: "Espresso"})
	require.NoError(t, err)
	espresso, err := catalogService.CreateOffer(ctx, &service.CreateOfferInput{SalesItemID: item.ID, Amount: 130})
	require.NoError(t, err)

	router := Setup(&Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(users, jwtManager, clock)),
		Register: handler.NewRegisterHandler(service.NewSessionRegistry(nil), billService, catalogService, userService),
		Bill:     handler.NewBillHandler(billService, time.Local),
		Catalog:  handler.NewCatalogHandler(catalogService, clock),
		Tax:      handler.NewTaxHandler(taxService, clock),
		User:     handler.NewUserHandler(userService),
	}, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: memory.NewIdempotencyRepository(store),
		Now:             clock.Now,
	})

	s := &server{t: t, router: router, espresso: espresso.ID.String()}
	s.cashier = s.login("Ada", "1234")
	s.manager = s.login("Chef", "9999")
	return s
}

func (s *server) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) login(name, pin string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"name": name, "pin": pin})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var out envelope[struct {
		AccessToken string `json:"access_token"`
	}]
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Data.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth(t *testing.T) {
	s := newServer(t)

	t.Run("wrong PIN", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"name": "Ada", "pin": "0000"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed PIN fails validation", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"name": "Ada", "pin": "ab"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("register needs a token", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/registers/front", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("profile", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/profile", s.cashier, nil)
		require.Equal(t, http.StatusOK, w.Code)

		out := decode[response.UserResponse](t, w)
		assert.Equal(t, "Ada", out.Data.Name)
		assert.Equal(t, enum.UserRoleCashier, out.Data.Role)
	})
}

func TestRegister_SellAndClose(t *testing.T) {
	s := newServer(t)
	offer := map[string]string{"offer_id": s.espresso}

	w := s.do(http.MethodGet, "/api/v1/registers/front", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[*response.BillResponse](t, w).Data)

	w = s.do(http.MethodPost, "/api/v1/registers/front/items", s.cashier, offer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bill := decode[response.BillResponse](t, w).Data
	require.Len(t, bill.Items, 1)
	assert.Equal(t, "A", bill.Items[0].VATClass)

	w = s.do(http.MethodPost, "/api/v1/registers/front/vat/toggle", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bill = decode[response.BillResponse](t, w).Data
	require.Len(t, bill.Totals, 1)
	assert.Equal(t, "B", bill.Totals[0].Abbreviation)
	assert.Equal(t, money.New(121, "EUR"), bill.Totals[0].Net)
	assert.Equal(t, money.New(9, "EUR"), bill.Totals[0].VAT)

	w = s.do(http.MethodPut, "/api/v1/registers/front/to-go", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[response.BillResponse](t, w).Data.ToGo)

	// Another register does not see the bill.
	w = s.do(http.MethodGet, "/api/v1/registers/back", s.cashier, nil)
	assert.Nil(t, decode[*response.BillResponse](t, w).Data)

	w = s.do(http.MethodPost, "/api/v1/registers/front/close", s.cashier, nil, "Idempotency-Key", "close-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	closed := decode[response.BillResponse](t, w).Data
	assert.NotNil(t, closed.ClosedAt)
	assert.Equal(t, "Ada", closed.Cashier)
	assert.Equal(t, money.New(130, "EUR"), closed.TotalGross)

	t.Run("retried close replays the response", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/registers/front/close", s.cashier, nil, "Idempotency-Key", "close-1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
		assert.Equal(t, closed.ID, decode[response.BillResponse](t, w).Data.ID)
	})

	t.Run("close without bill conflicts", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/registers/front/close", s.cashier, nil, "Idempotency-Key", "close-2")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("day listing", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/bills?day=2024-03-01", s.cashier, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out envelope[struct {
			Items []response.BillResponse `json:"items"`
		}]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out.Data.Items, 1)
		assert.Equal(t, closed.ID, out.Data.Items[0].ID)
	})

	t.Run("today's totals", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/bills/totals?period=today", s.cashier, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out envelope[struct {
			BillCount  int         `json:"bill_count"`
			TotalGross money.Money `json:"total_gross"`
		}]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, 1, out.Data.BillCount)
		assert.Equal(t, money.New(130, "EUR"), out.Data.TotalGross)
	})
}

func TestRegister_CommandErrors(t *testing.T) {
	s := newServer(t)

	t.Run("extra without a bill", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/registers/front/extras", s.cashier, map[string]string{"offer_id": s.espresso})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown offer", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/registers/front/items", s.cashier, map[string]string{"offer_id": "7b1a3f43-3a41-4a38-9d7a-1f0d7c2b1e00"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("load with malformed id", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/registers/front/load/nope", s.cashier, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("undo empties and deletes the bill", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/registers/front/items", s.cashier, map[string]string{"offer_id": s.espresso})
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(http.MethodPost, "/api/v1/registers/front/undo", s.cashier, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, decode[*response.BillResponse](t, w).Data)

		w = s.do(http.MethodGet, "/api/v1/bills/open", s.cashier, nil)
		assert.Empty(t, decode[[]response.BillResponse](t, w).Data)
	})
}

func TestRegister_ParkAndLoad(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/v1/registers/front/items", s.cashier, map[string]string{"offer_id": s.espresso})
	require.Equal(t, http.StatusOK, w.Code)
	parked := decode[response.BillResponse](t, w).Data

	w = s.do(http.MethodPost, "/api/v1/registers/front/new", s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[*response.BillResponse](t, w).Data)

	w = s.do(http.MethodPost, "/api/v1/registers/back/load/"+parked.ID.String(), s.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, parked.ID, decode[response.BillResponse](t, w).Data.ID)
}

func TestManagerRoutes(t *testing.T) {
	s := newServer(t)

	t.Run("cashier cannot change VAT", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/taxes/reduced/rate", s.cashier, map[string]string{"rate": "5"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("manager changes VAT", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/taxes/reduced/rate", s.manager, map[string]string{"rate": "5"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, decimal.NewFromInt(5).Equal(decode[response.TaxInfoResponse](t, w).Data.Rate))
	})

	t.Run("manager replaces a price", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/catalog/offers/"+s.espresso+"/price", s.manager, map[string]int64{"amount": 150})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, money.New(150, "EUR"), decode[response.OfferResponse](t, w).Data.Price)

		w = s.do(http.MethodGet, "/api/v1/catalog/offers/"+s.espresso+"/history", s.cashier, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]response.OfferResponse](t, w).Data, 2)
	})

	t.Run("manager creates an operator", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/users", s.manager, map[string]string{"name": "Grace", "pin": "4321"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = s.do(http.MethodPost, "/api/v1/users", s.cashier, map[string]string{"name": "Linus", "pin": "4321"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
