package cloud

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/de-tools/cloud-atlas/pkg/models/api"
	"github.com/de-tools/cloud-atlas/pkg/models/domain"
	"github.com/de-tools/cloud-atlas/pkg/services/billing"
	"github.com/de-tools/cloud-atlas/pkg/services/inventory"
	"github.com/de-tools/cloud-atlas/pkg/services/metrics"
	"github.com/de-tools/cloud-atlas/pkg/services/org"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

type Handler struct {
	inventory inventory.Explorer
	metrics   metrics.Explorer
	billing   billing.Reporter
	org       org.Workflow
}

func NewHandler(
	inventoryExplorer inventory.Explorer,
	metricsExplorer metrics.Explorer,
	billingReporter billing.Reporter,
	orgWorkflow org.Workflow,
) *Handler {
	return &Handler{
		inventory: inventoryExplorer,
		metrics:   metricsExplorer,
		billing:   billingReporter,
		org:       orgWorkflow,
	}
}

func (h *Handler) ListInstances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := h.inventory.ListInstanceViews(ctx)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}

	response := make([]api.InstanceView, 0, len(views))
	for _, v := range views {
		response = append(response, api.NewInstanceView(v))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) ListInstanceSummaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries, err := h.inventory.ListInstanceSummaries(ctx)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}

	response := make([]api.InstanceSummary, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, api.NewInstanceSummary(s))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetInstanceMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	instanceID := chi.URLParam(r, "instanceID")
	imageID := r.URL.Query().Get("imageId")
	instanceType := r.URL.Query().Get("instanceType")

	result, err := h.metrics.GetAllMetrics(ctx, instanceID, imageID, instanceType)
	if err != nil {
		if errors.Is(err, metrics.ErrMissingInstanceID) {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.NewInstanceMetrics(*result))
}

// GetBilling always answers 200: a failed report renders as a typed
// error payload so a billing dashboard can still show something.
func (h *Handler) GetBilling(w http.ResponseWriter, r *http.Request) {
	report := h.billing.BillingReport(r.Context())
	writeJSON(w, r, http.StatusOK, api.NewBillingReport(report))
}

func (h *Handler) GetMemberAccountCosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errors.New("query parameter start must be a YYYY-MM-DD date"))
		return
	}
	end, err := time.Parse(dateLayout, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errors.New("query parameter end must be a YYYY-MM-DD date"))
		return
	}

	periods, err := h.billing.MemberAccountCosts(ctx, start, end)
	if err != nil {
		// Billing stays diagnostic even on the breakdown path.
		writeJSON(w, r, http.StatusOK, api.BillingReport{
			Status:  domain.BillingStatusError,
			Message: err.Error(),
		})
		return
	}

	response := make([]api.AccountCostPeriod, 0, len(periods))
	for _, p := range periods {
		response = append(response, api.NewAccountCostPeriod(p))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) InviteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	handshakeID, err := h.org.Invite(ctx, req.Email)
	if err != nil {
		if errors.Is(err, org.ErrMissingEmail) {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.InviteResponse{
		Message:     "Invitation sent",
		HandshakeID: handshakeID,
	})
}

func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handshakeID := chi.URLParam(r, "handshakeID")

	if err := h.org.Accept(ctx, handshakeID); err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.HandshakeActionResponse{Message: "Invitation accepted"})
}

func (h *Handler) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handshakeID := chi.URLParam(r, "handshakeID")

	if err := h.org.Cancel(ctx, handshakeID); err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.HandshakeActionResponse{Message: "Invitation canceled"})
}

func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invitations, err := h.org.ListInvitations(ctx)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}

	response := make([]api.Handshake, 0, len(invitations))
	for _, invitation := range invitations {
		response = append(response, api.NewHandshake(invitation))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	organization, err := h.org.OrganizationInfo(ctx)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, r, http.StatusOK, api.NewOrganization(*organization))
}

func (h *Handler) ListMemberAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accounts, err := h.org.ListMemberAccounts(ctx)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}

	response := make([]api.OrgAccount, 0, len(accounts))
	for _, a := range accounts {
		response = append(response, api.NewOrgAccount(a))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	zerolog.Ctx(r.Context()).Error().
		Err(err).
		Int("status", status).
		Msg("request failed")
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
