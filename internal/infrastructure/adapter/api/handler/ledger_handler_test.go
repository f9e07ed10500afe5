package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/error"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/rules"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/analytics"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/batch"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/ledger"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/usecase/transfer"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/clock"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/logger"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/repository/memory"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/metrics"
)

var registerMetrics sync.Once

// newTestRouter wires the full HTTP surface over the in-process store
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registerMetrics.Do(metrics.Init)

	engine, err := rules.NewEngine(rules.CreditRules{
		MinimumBalance:           0,
		MaximumBalance:           10000000,
		MinimumTransaction:       1,
		MaximumTransaction:       1000000,
		LowBalanceThreshold:      1000,
		CriticalBalanceThreshold: 200,
	})
	require.NoError(t, err)

	fixedClock := clock.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewStore(fixedClock)
	balanceRepo := memory.NewBalanceRepository(store)
	transactionRepo := memory.NewTransactionRepository(store)
	uow := memory.NewUnitOfWork(store, balanceRepo, transactionRepo)
	noop := logger.NewNoopLogger()

	ledgerService := ledger.NewService(uow, engine, fixedClock, noop)
	coordinator := transfer.NewCoordinator(uow, engine, fixedClock, noop)
	processor := batch.NewProcessor(ledgerService, noop)
	aggregator := analytics.NewAggregator(balanceRepo, transactionRepo, noop)

	router := gin.New()
	ledgerHandler := NewLedgerHandler(ledgerService, noop)
	transferHandler := NewTransferHandler(coordinator, noop)
	batchHandler := NewBatchHandler(processor, noop)
	analyticsHandler := NewAnalyticsHandler(aggregator, noop)

	router.GET("/users/:userId/balance", ledgerHandler.GetBalance)
	router.GET("/users/:userId/transactions", ledgerHandler.GetHistory)
	router.POST("/users/:userId/credits/purchase", ledgerHandler.AddCredits)
	router.POST("/users/:userId/credits/usage", ledgerHandler.DeductCredits)
	router.POST("/transfers", transferHandler.Transfer)
	router.POST("/admin/batch-grants", batchHandler.Grant)
	router.GET("/users/:userId/analytics/spending", analyticsHandler.SpendingPattern)
	router.GET("/analytics/overview", analyticsHandler.Overview)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBalanceEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("should return zero for an unknown user", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/users/ghost/balance", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "0.00", body["balance"])
	})

	t.Run("should credit and read back the balance", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/users/user-1/credits/purchase",
			`{"amount":"10.00","description":"starter pack","packageId":"pkg-1"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "10.00", body["balance"])
		assert.Equal(t, "PURCHASE", body["type"])
		assert.NotEmpty(t, body["transactionId"])

		w = doJSON(router, http.MethodGet, "/users/user-1/balance", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "10.00", body["balance"])
	})

	t.Run("should reject a malformed body", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/users/user-1/credits/purchase", `{"amount":}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject an invalid amount with the domain code", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/users/user-1/credits/purchase", `{"amount":"-5.00"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(errs.CodeInvalidAmount), body["code"])
	})

	t.Run("should map insufficient funds to 422", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/users/empty-user/credits/usage", `{"amount":"1.00"}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(errs.CodeInsufficientFunds), body["code"])
	})
}

func TestHistoryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doJSON(router, http.MethodPost, "/users/user-1/credits/purchase", `{"amount":"10.00"}`)
	doJSON(router, http.MethodPost, "/users/user-1/credits/usage", `{"amount":"2.00"}`)

	t.Run("should list entries newest first", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/users/user-1/transactions", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			UserID       string `json:"userId"`
			Transactions []struct {
				Type   string `json:"type"`
				Amount string `json:"amount"`
			} `json:"transactions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Transactions, 2)
		assert.Equal(t, "USAGE", body.Transactions[0].Type)
		assert.Equal(t, "PURCHASE", body.Transactions[1].Type)
	})

	t.Run("should filter by type", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/users/user-1/transactions?type=USAGE", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Transactions []struct {
				Type string `json:"type"`
			} `json:"transactions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Transactions, 1)
		assert.Equal(t, "USAGE", body.Transactions[0].Type)
	})

	t.Run("should reject an unknown type filter", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/users/user-1/transactions?type=REFUND", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransferEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doJSON(router, http.MethodPost, "/users/alice/credits/purchase", `{"amount":"100.00"}`)

	t.Run("should move credits between accounts", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/transfers",
			`{"fromUserId":"alice","toUserId":"bob","amount":"30.00"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "70.00", body["fromBalance"])
		assert.Equal(t, "30.00", body["toBalance"])
		assert.NotEmpty(t, body["referenceId"])
	})

	t.Run("should reject a self transfer", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/transfers",
			`{"fromUserId":"alice","toUserId":"alice","amount":"1.00"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(errs.CodeSelfTransfer), body["code"])
	})

	t.Run("should return 404 for an unknown sender", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/transfers",
			`{"fromUserId":"ghost","toUserId":"bob","amount":"1.00"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBatchGrantEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("should report partial success per item", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/batch-grants",
			`{"operations":[
				{"userId":"user-1","amount":"10.00"},
				{"userId":"user-2","amount":"bad"},
				{"userId":"user-3","amount":"5.00"}
			]}`)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Total     int `json:"total"`
			Succeeded int `json:"succeeded"`
			Results   []struct {
				UserID     string `json:"userId"`
				Success    bool   `json:"success"`
				NewBalance string `json:"newBalance"`
				ErrorCode  int    `json:"errorCode"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Total)
		assert.Equal(t, 2, body.Succeeded)
		require.Len(t, body.Results, 3)
		assert.True(t, body.Results[0].Success)
		assert.False(t, body.Results[1].Success)
		assert.Equal(t, errs.CodeInvalidAmount, body.Results[1].ErrorCode)
		assert.True(t, body.Results[2].Success)
	})

	t.Run("should reject an empty batch", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/admin/batch-grants", `{"operations":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTransactionTypeCounters(t *testing.T) {
	router := newTestRouter(t)

	// counters are process-global, so compare deltas
	purchaseBefore := testutil.ToFloat64(metrics.TransactionsTotal.WithLabelValues("PURCHASE"))
	outBefore := testutil.ToFloat64(metrics.TransactionsTotal.WithLabelValues("TRANSFER_OUT"))
	inBefore := testutil.ToFloat64(metrics.TransactionsTotal.WithLabelValues("TRANSFER_IN"))
	adjustBefore := testutil.ToFloat64(metrics.TransactionsTotal.WithLabelValues("ADJUSTMENT"))

	w := doJSON(router, http.MethodPost, "/users/alice/credits/purchase", `{"amount":"50.00"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/transfers",
		`{"fromUserId":"alice","toUserId":"bob","amount":"10.00"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/admin/batch-grants",
		`{"operations":[{"userId":"carol","amount":"5.00"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, purchaseBefore+1, testutil.ToFloat64(metrics.TransactionsTotal.WithLabelValues("PURCHASE")))
	assert.Equal(t, outBefore+1, testutil.ToFloat64(metrics.TransactionsTotal.WithLabelValues("TRANSFER_OUT")))
	assert.Equal(t, inBefore+1, testutil.ToFloat64(metrics.TransactionsTotal.WithLabelValues("TRANSFER_IN")))
	assert.Equal(t, adjustBefore+1, testutil.ToFloat64(metrics.TransactionsTotal.WithLabelValues("ADJUSTMENT")))
}

func TestAnalyticsEndpoints(t *testing.T) {
	router := newTestRouter(t)

	doJSON(router, http.MethodPost, "/users/user-1/credits/purchase", `{"amount":"20.00"}`)
	doJSON(router, http.MethodPost, "/users/user-1/credits/usage", `{"amount":"4.00"}`)

	t.Run("should report the spending pattern", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/users/user-1/analytics/spending", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "20.00", body["totalAdded"])
		assert.Equal(t, "4.00", body["totalDeducted"])
		assert.Equal(t, float64(2), body["transactionCount"])
	})

	t.Run("should report the overview", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/analytics/overview", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(1), body["totalUsers"])
		assert.Equal(t, "16.00", body["totalCreditsInCirculation"])
		assert.Equal(t, float64(2), body["totalTransactions"])
	})
}
