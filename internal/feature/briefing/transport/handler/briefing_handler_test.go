package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"criaconecta_backend/internal/feature/briefing/domain"
	"criaconecta_backend/internal/feature/briefing/domain/entity"
	"criaconecta_backend/internal/feature/briefing/usecase"
	jwtmw "criaconecta_backend/internal/platform/jwt"
)

// mockBriefingUsecase is a mock implementation of the BriefingUsecase interface.
type mockBriefingUsecase struct {
	CreateFunc                   func(ctx context.Context, requesterID uint, title string, budget float64) (*entity.Briefing, error)
	InitiateCheckoutFunc         func(ctx context.Context, requesterID, briefingID uint) (*usecase.CheckoutHandle, error)
	ApplyPaymentCallbackFunc     func(ctx context.Context, values url.Values) (usecase.CallbackResult, error)
	ApplyWebhookNotificationFunc func(ctx context.Context, values url.Values) (usecase.CallbackResult, error)
	ListOpenFunc                 func(ctx context.Context) ([]entity.Briefing, error)
	ListByOwnerFunc              func(ctx context.Context, companyID uint, status entity.Status) ([]entity.Briefing, error)
}

func (m *mockBriefingUsecase) Create(ctx context.Context, requesterID uint, title string, budget float64) (*entity.Briefing, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, requesterID, title, budget)
	}
	return &entity.Briefing{ID: 1, Title: title, Budget: budget, Status: entity.StatusPendingPayment, CompanyID: requesterID}, nil
}

func (m *mockBriefingUsecase) InitiateCheckout(ctx context.Context, requesterID, briefingID uint) (*usecase.CheckoutHandle, error) {
	if m.InitiateCheckoutFunc != nil {
		return m.InitiateCheckoutFunc(ctx, requesterID, briefingID)
	}
	return &usecase.CheckoutHandle{RedirectURL: "https://pay.example.com/pref-1"}, nil
}

func (m *mockBriefingUsecase) ApplyPaymentCallback(ctx context.Context, values url.Values) (usecase.CallbackResult, error) {
	if m.ApplyPaymentCallbackFunc != nil {
		return m.ApplyPaymentCallbackFunc(ctx, values)
	}
	return usecase.CallbackIgnored, nil
}

func (m *mockBriefingUsecase) ApplyWebhookNotification(ctx context.Context, values url.Values) (usecase.CallbackResult, error) {
	if m.ApplyWebhookNotificationFunc != nil {
		return m.ApplyWebhookNotificationFunc(ctx, values)
	}
	return usecase.CallbackIgnored, nil
}

func (m *mockBriefingUsecase) ListOpen(ctx context.Context) ([]entity.Briefing, error) {
	if m.ListOpenFunc != nil {
		return m.ListOpenFunc(ctx)
	}
	return nil, nil
}

func (m *mockBriefingUsecase) ListByOwner(ctx context.Context, companyID uint, status entity.Status) ([]entity.Briefing, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, companyID, status)
	}
	return nil, nil
}

// asUser simulates the JWT middleware by putting the user id into the context.
func asUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, id)
		c.Next()
	}
}

func TestBriefingHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockCreateFunc func(ctx context.Context, requesterID uint, title string, budget float64) (*entity.Briefing, error)
		expectedStatus int
	}{
		{
			name:           "success: briefing created",
			body:           `{"title":"Campaign","budget":750.50}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: missing title",
			body:           `{"budget":100}`,
			mockCreateFunc: nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "failure: negative budget rejected by binding",
			body:           `{"title":"Campaign","budget":-5}`,
			mockCreateFunc: nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: requester is not a company",
			body: `{"title":"Campaign","budget":100}`,
			mockCreateFunc: func(ctx context.Context, requesterID uint, title string, budget float64) (*entity.Briefing, error) {
				return nil, domain.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockBriefingUsecase{CreateFunc: tt.mockCreateFunc}
			h := NewBriefingHandler(mockUC)

			router := gin.New()
			router.POST("/briefings", asUser(1), h.Create)

			req := httptest.NewRequest(http.MethodPost, "/briefings", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "body: %s", w.Body.String())
		})
	}
}

func TestBriefingHandler_Create_ResponseBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewBriefingHandler(&mockBriefingUsecase{})
	router := gin.New()
	router.POST("/briefings", asUser(42), h.Create)

	req := httptest.NewRequest(http.MethodPost, "/briefings", strings.NewReader(`{"title":"Campaign","budget":750.50}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pending_payment", body["status"])
	assert.Equal(t, float64(42), body["company_id"])
}

func TestBriefingHandler_Checkout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		path           string
		mockFunc       func(ctx context.Context, requesterID, briefingID uint) (*usecase.CheckoutHandle, error)
		expectedStatus int
	}{
		{
			name:           "success: redirect url returned",
			path:           "/briefings/7/checkout",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "failure: bad id",
			path:           "/briefings/abc/checkout",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: non-owner",
			path: "/briefings/7/checkout",
			mockFunc: func(ctx context.Context, requesterID, briefingID uint) (*usecase.CheckoutHandle, error) {
				return nil, domain.ErrForbidden
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "failure: already active",
			path: "/briefings/7/checkout",
			mockFunc: func(ctx context.Context, requesterID, briefingID uint) (*usecase.CheckoutHandle, error) {
				return nil, domain.ErrInvalidState
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "failure: unknown briefing",
			path: "/briefings/7/checkout",
			mockFunc: func(ctx context.Context, requesterID, briefingID uint) (*usecase.CheckoutHandle, error) {
				return nil, domain.ErrBriefingNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "failure: provider unavailable",
			path: "/briefings/7/checkout",
			mockFunc: func(ctx context.Context, requesterID, briefingID uint) (*usecase.CheckoutHandle, error) {
				return nil, domain.ErrGateway
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockBriefingUsecase{InitiateCheckoutFunc: tt.mockFunc}
			h := NewBriefingHandler(mockUC)

			router := gin.New()
			router.POST("/briefings/:id/checkout", asUser(1), h.Checkout)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "body: %s", w.Body.String())
			if tt.expectedStatus == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "https://pay.example.com/pref-1", body["redirect_url"])
			}
		})
	}
}

func TestBriefingHandler_PaymentFeedback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		result   usecase.CallbackResult
		err      error
		expected string
	}{
		{"applied", usecase.CallbackApplied, nil, "payment approved, your job is now active"},
		{"duplicate reports the same success", usecase.CallbackDuplicate, nil, "payment approved, your job is now active"},
		{"rejected", usecase.CallbackRejected, nil, "payment failed or was cancelled"},
		{"ignored", usecase.CallbackIgnored, nil, "notification received"},
		{"internal failure still returns 200", usecase.CallbackIgnored, domain.ErrInvalidState, "notification received"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockBriefingUsecase{
				ApplyPaymentCallbackFunc: func(ctx context.Context, values url.Values) (usecase.CallbackResult, error) {
					return tt.result, tt.err
				},
			}
			h := NewBriefingHandler(mockUC)

			router := gin.New()
			router.GET("/payments/feedback", h.PaymentFeedback)

			req := httptest.NewRequest(http.MethodGet, "/payments/feedback?status=approved&external_reference=7", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// プロバイダに対しては常に200を返す
			assert.Equal(t, http.StatusOK, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expected, body["message"])
		})
	}
}

func TestBriefingHandler_PaymentFeedback_PassesQueryParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got url.Values
	mockUC := &mockBriefingUsecase{
		ApplyPaymentCallbackFunc: func(ctx context.Context, values url.Values) (usecase.CallbackResult, error) {
			got = values
			return usecase.CallbackApplied, nil
		},
	}
	h := NewBriefingHandler(mockUC)

	router := gin.New()
	router.GET("/payments/feedback", h.PaymentFeedback)

	req := httptest.NewRequest(http.MethodGet, "/payments/feedback?status=approved&external_reference=7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotNil(t, got)
	assert.Equal(t, "approved", got.Get("status"))
	assert.Equal(t, "7", got.Get("external_reference"))
}

func TestBriefingHandler_PaymentWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockBriefingUsecase{
		ApplyWebhookNotificationFunc: func(ctx context.Context, values url.Values) (usecase.CallbackResult, error) {
			return usecase.CallbackApplied, nil
		},
	}
	h := NewBriefingHandler(mockUC)

	router := gin.New()
	router.POST("/payments/webhook", h.PaymentWebhook)

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook?topic=payment&id=12345", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBriefingHandler_ListOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUC := &mockBriefingUsecase{
		ListOpenFunc: func(ctx context.Context) ([]entity.Briefing, error) {
			return []entity.Briefing{
				{ID: 2, Title: "Second", Status: entity.StatusPendingPayment, CompanyID: 1},
				{ID: 1, Title: "First", Status: entity.StatusPendingPayment, CompanyID: 1},
			}, nil
		},
	}
	h := NewBriefingHandler(mockUC)

	router := gin.New()
	router.GET("/briefings", h.ListOpen)

	req := httptest.NewRequest(http.MethodGet, "/briefings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Second", body[0]["title"])
}

func TestBriefingHandler_Dashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("defaults to pending_payment and scopes to the requester", func(t *testing.T) {
		var gotOwner uint
		var gotStatus entity.Status
		mockUC := &mockBriefingUsecase{
			ListByOwnerFunc: func(ctx context.Context, companyID uint, status entity.Status) ([]entity.Briefing, error) {
				gotOwner, gotStatus = companyID, status
				return nil, nil
			},
		}
		h := NewBriefingHandler(mockUC)

		router := gin.New()
		router.GET("/dashboard/briefings", asUser(9), h.Dashboard)

		req := httptest.NewRequest(http.MethodGet, "/dashboard/briefings", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(9), gotOwner)
		assert.Equal(t, entity.StatusPendingPayment, gotStatus)
	})

	t.Run("unknown status filter is a 400", func(t *testing.T) {
		mockUC := &mockBriefingUsecase{
			ListByOwnerFunc: func(ctx context.Context, companyID uint, status entity.Status) ([]entity.Briefing, error) {
				return nil, domain.ErrValidation
			},
		}
		h := NewBriefingHandler(mockUC)

		router := gin.New()
		router.GET("/dashboard/briefings", asUser(9), h.Dashboard)

		req := httptest.NewRequest(http.MethodGet, "/dashboard/briefings?status=archived", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
