package balance_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-leave/internal/balance"
	balanceMock "go-leave/internal/balance/mock"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newContext(method, target, body, actorID, role string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextEmployeeID, actorID)
	c.Set(middleware.ContextRole, role)
	return c, w
}

func TestBalanceHandler_GetBalances(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("defaults to own balances for current year", func(t *testing.T) {
		svc := balanceMock.NewMockService(ctrl)
		svc.EXPECT().GetBalances(gomock.Any(), "emp-1", time.Now().UTC().Year()).
			Return([]balance.BalanceResponse{{LeaveType: "ANNUAL"}}, nil)

		h := balance.NewHandler(svc)
		c, w := newContext(http.MethodGet, "/api/v1/balances", "", "emp-1", "EMPLOYEE")

		h.GetBalances(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ANNUAL")
	})

	t.Run("employee cannot read others", func(t *testing.T) {
		svc := balanceMock.NewMockService(ctrl)
		h := balance.NewHandler(svc)
		c, w := newContext(http.MethodGet, "/api/v1/balances?employee_id=emp-2", "", "emp-1", "EMPLOYEE")

		h.GetBalances(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("hr reads others", func(t *testing.T) {
		svc := balanceMock.NewMockService(ctrl)
		svc.EXPECT().GetBalances(gomock.Any(), "emp-2", 2025).Return([]balance.BalanceResponse{}, nil)

		h := balance.NewHandler(svc)
		c, w := newContext(http.MethodGet, "/api/v1/balances?employee_id=emp-2&year=2025", "", "hr-1", "HR_MANAGER")

		h.GetBalances(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad year", func(t *testing.T) {
		svc := balanceMock.NewMockService(ctrl)
		h := balance.NewHandler(svc)
		c, w := newContext(http.MethodGet, "/api/v1/balances?year=abc", "", "emp-1", "EMPLOYEE")

		h.GetBalances(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBalanceHandler_Allocate(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := balanceMock.NewMockService(ctrl)
	svc.EXPECT().Allocate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req balance.AllocateRequest) (balance.BalanceResponse, error) {
			assert.Equal(t, "12", req.Allocated.String())
			return balance.BalanceResponse{LeaveType: req.LeaveType, Allocated: req.Allocated, Remaining: req.Allocated}, nil
		})

	h := balance.NewHandler(svc)
	body := `{"employee_id":"6f1c3f4e-8f6a-4c1e-9b7a-2d1e3f4a5b6c","leave_type":"ANNUAL","year":2026,"allocated":12}`
	c, w := newContext(http.MethodPut, "/api/v1/balances", body, "admin-1", "ADMIN")

	h.Allocate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining":"12"`)
}
