package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/cloud-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInventory struct {
	mock.Mock
}

func (m *mockInventory) ListInstanceViews(ctx context.Context) ([]domain.InstanceView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InstanceView), args.Error(1)
}

func (m *mockInventory) ListInstanceSummaries(ctx context.Context) ([]domain.InstanceSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InstanceSummary), args.Error(1)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) GetCPUUsage(ctx context.Context, instanceID string) ([]float64, error) {
	args := m.Called(ctx, instanceID)
	return args.Get(0).([]float64), args.Error(1)
}

func (m *mockMetrics) GetMemoryUsage(
	ctx context.Context,
	instanceID, imageID, instanceType string,
) ([]float64, error) {
	args := m.Called(ctx, instanceID, imageID, instanceType)
	return args.Get(0).([]float64), args.Error(1)
}

func (m *mockMetrics) GetDiskUsage(
	ctx context.Context,
	instanceID, imageID, instanceType string,
) ([]float64, error) {
	args := m.Called(ctx, instanceID, imageID, instanceType)
	return args.Get(0).([]float64), args.Error(1)
}

func (m *mockMetrics) GetAllMetrics(
	ctx context.Context,
	instanceID, imageID, instanceType string,
) (*domain.InstanceMetrics, error) {
	args := m.Called(ctx, instanceID, imageID, instanceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstanceMetrics), args.Error(1)
}

type mockBilling struct {
	mock.Mock
}

func (m *mockBilling) LastMonthCost(ctx context.Context) (*domain.MonthlyCost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyCost), args.Error(1)
}

func (m *mockBilling) MemberAccountCosts(
	ctx context.Context,
	start, end time.Time,
) ([]domain.AccountCostPeriod, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]domain.AccountCostPeriod), args.Error(1)
}

func (m *mockBilling) BillingReport(ctx context.Context) domain.BillingReport {
	args := m.Called(ctx)
	return args.Get(0).(domain.BillingReport)
}

type mockOrg struct {
	mock.Mock
}

func (m *mockOrg) Invite(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *mockOrg) Accept(ctx context.Context, handshakeID string) error {
	args := m.Called(ctx, handshakeID)
	return args.Error(0)
}

func (m *mockOrg) Cancel(ctx context.Context, handshakeID string) error {
	args := m.Called(ctx, handshakeID)
	return args.Error(0)
}

func (m *mockOrg) ListInvitations(ctx context.Context) ([]domain.Handshake, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Handshake), args.Error(1)
}

func (m *mockOrg) OrganizationInfo(ctx context.Context) (*domain.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *mockOrg) ListMemberAccounts(ctx context.Context) ([]domain.OrgAccount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.OrgAccount), args.Error(1)
}

func TestWebAPI_Routes(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	inventoryMock := new(mockInventory)
	metricsMock := new(mockMetrics)
	billingMock := new(mockBilling)
	orgMock := new(mockOrg)

	router := ConfigureRouter(logger, Dependencies{
		Inventory: inventoryMock,
		Metrics:   metricsMock,
		Billing:   billingMock,
		Org:       orgMock,
	})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMocks     func()
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name:   "ListInstances",
			method: http.MethodGet,
			path:   "/api/v1/instances",
			setupMocks: func() {
				inventoryMock.On("ListInstanceViews", mock.Anything).
					Return([]domain.InstanceView{{InstanceID: "i-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var views []map[string]any
				require.NoError(t, json.Unmarshal(body, &views))
				require.Len(t, views, 1)
				assert.Equal(t, "i-1", views[0]["InstanceId"])
			},
		},
		{
			name:   "ListInstanceSummaries",
			method: http.MethodGet,
			path:   "/api/v1/instances/summaries",
			setupMocks: func() {
				inventoryMock.On("ListInstanceSummaries", mock.Anything).
					Return([]domain.InstanceSummary{{InstanceID: "i-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "GetInstanceMetrics_PathAndQueryWiring",
			method: http.MethodGet,
			path:   "/api/v1/instances/i-42/metrics?imageId=ami-7&instanceType=t2.micro",
			setupMocks: func() {
				metricsMock.On("GetAllMetrics", mock.Anything, "i-42", "ami-7", "t2.micro").
					Return(&domain.InstanceMetrics{
						InstanceID:  "i-42",
						CPUUsage:    []float64{1.5},
						MemoryUsage: []float64{},
						DiskUsage:   []float64{},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var result map[string]any
				require.NoError(t, json.Unmarshal(body, &result))
				assert.Equal(t, "i-42", result["instanceId"])
			},
		},
		{
			name:   "GetBilling",
			method: http.MethodGet,
			path:   "/api/v1/billing",
			setupMocks: func() {
				billingMock.On("BillingReport", mock.Anything).
					Return(domain.BillingReport{Status: domain.BillingStatusSuccess})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "GetMemberAccountCosts",
			method: http.MethodGet,
			path:   "/api/v1/billing/accounts?start=2024-10-01&end=2024-11-01",
			setupMocks: func() {
				billingMock.On("MemberAccountCosts", mock.Anything,
					time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
				).Return([]domain.AccountCostPeriod{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "GetOrganization",
			method: http.MethodGet,
			path:   "/api/v1/organization",
			setupMocks: func() {
				orgMock.On("OrganizationInfo", mock.Anything).
					Return(&domain.Organization{ID: "o-1"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "ListMemberAccounts",
			method: http.MethodGet,
			path:   "/api/v1/organization/accounts",
			setupMocks: func() {
				orgMock.On("ListMemberAccounts", mock.Anything).
					Return([]domain.OrgAccount{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "ListInvitations",
			method: http.MethodGet,
			path:   "/api/v1/organization/invitations",
			setupMocks: func() {
				orgMock.On("ListInvitations", mock.Anything).
					Return([]domain.Handshake{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "InviteAccount",
			method: http.MethodPost,
			path:   "/api/v1/organization/invitations",
			body:   `{"email":"user@example.com"}`,
			setupMocks: func() {
				orgMock.On("Invite", mock.Anything, "user@example.com").Return("h-1", nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "AcceptInvitation_PathWiring",
			method: http.MethodPost,
			path:   "/api/v1/organization/invitations/h-9/accept",
			setupMocks: func() {
				orgMock.On("Accept", mock.Anything, "h-9").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "CancelInvitation_PathWiring",
			method: http.MethodDelete,
			path:   "/api/v1/organization/invitations/h-9",
			setupMocks: func() {
				orgMock.On("Cancel", mock.Anything, "h-9").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "UnknownRoute",
			method:         http.MethodGet,
			path:           "/api/v1/nope",
			setupMocks:     func() {},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()

			var reqBody io.Reader
			if tc.body != "" {
				reqBody = strings.NewReader(tc.body)
			}
			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, reqBody)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)

			if tc.check != nil {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				tc.check(t, body)
			}
		})
	}
}
