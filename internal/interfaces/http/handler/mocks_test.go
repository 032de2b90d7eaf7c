package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appfinance "github.com/labcore/backend/internal/application/finance"
	"github.com/labcore/backend/internal/application/laborder"
	"github.com/labcore/backend/internal/interfaces/http/dto"
	"github.com/labcore/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockOrderOperations struct {
	mock.Mock
}

func (m *MockOrderOperations) CreateOrder(ctx context.Context, req laborder.CreateOrderRequest) (*laborder.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.OrderResponse), args.Error(1)
}

func (m *MockOrderOperations) GetOrder(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.OrderResponse), args.Error(1)
}

func (m *MockOrderOperations) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.OrderResponse), args.Error(1)
}

func (m *MockOrderOperations) RecordReprint(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.OrderResponse), args.Error(1)
}

type MockResultOperations struct {
	mock.Mock
}

func (m *MockResultOperations) EnterSingleResult(ctx context.Context, req laborder.EnterResultRequest) (*laborder.ResultResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.ResultResponse), args.Error(1)
}

func (m *MockResultOperations) SaveOrderResults(ctx context.Context, req laborder.SaveResultsRequest) (*laborder.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.OrderResponse), args.Error(1)
}

func (m *MockResultOperations) SaveEditedResults(ctx context.Context, req laborder.SaveEditedResultsRequest) (*laborder.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.OrderResponse), args.Error(1)
}

type MockCancellationOperations struct {
	mock.Mock
}

func (m *MockCancellationOperations) CanCancel(ctx context.Context, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCancellationOperations) MarkUnderLabReview(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.OrderResponse), args.Error(1)
}

func (m *MockCancellationOperations) ReleaseLabReview(ctx context.Context, orderID uuid.UUID) (*laborder.OrderResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.OrderResponse), args.Error(1)
}

func (m *MockCancellationOperations) CancelOrder(ctx context.Context, req laborder.CancelOrderRequest) (*laborder.CancellationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*laborder.CancellationResult), args.Error(1)
}

type MockCommissionOperations struct {
	mock.Mock
}

func (m *MockCommissionOperations) SettleCommission(ctx context.Context, commissionID uuid.UUID) (*appfinance.SettlementResult, error) {
	args := m.Called(ctx, commissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfinance.SettlementResult), args.Error(1)
}

type testAPI struct {
	engine      *gin.Engine
	orders      *MockOrderOperations
	results     *MockResultOperations
	cancels     *MockCancellationOperations
	commissions *MockCommissionOperations
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	api := &testAPI{
		engine:      gin.New(),
		orders:      new(MockOrderOperations),
		results:     new(MockResultOperations),
		cancels:     new(MockCancellationOperations),
		commissions: new(MockCommissionOperations),
	}
	api.engine.Use(middleware.RequestID(), middleware.Identity())

	log := zaptest.NewLogger(t)
	group := api.engine.Group("/api/v1")
	NewLabOrderHandler(api.orders, api.results, api.cancels, log).RegisterRoutes(group)
	NewCommissionHandler(api.commissions, log).RegisterRoutes(group)
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// envelope decodes the response with Data kept raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (a *testAPI) assertExpectations(t *testing.T) {
	a.orders.AssertExpectations(t)
	a.results.AssertExpectations(t)
	a.cancels.AssertExpectations(t)
	a.commissions.AssertExpectations(t)
}
