package http

import (
	"encoding/json"
	"net/http"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/service"
)

// AdminHandler serves the operations the wider platform calls with a
// service token: manual grants, token spends tied to checkouts, action-based
// earns, and the dashboard stats.
type AdminHandler struct {
	ledgerSvc service.LedgerService
	querySvc  service.QueryService
}

func NewAdminHandler(ledgerSvc service.LedgerService, querySvc service.QueryService) *AdminHandler {
	return &AdminHandler{ledgerSvc: ledgerSvc, querySvc: querySvc}
}

type entryRequest struct {
	OwnerID       int64   `json:"owner_id"`
	Amount        int64   `json:"amount"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	RelatedEntity *string `json:"related_entity,omitempty"`
}

func (h *AdminHandler) Award(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}
	if req.Category == "" {
		req.Category = domain.CategoryAdminGrant
	}
	t, err := h.ledgerSvc.Award(r.Context(), req.OwnerID, req.Amount, req.Category, req.Description, req.RelatedEntity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (h *AdminHandler) Spend(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}
	if req.Category == "" {
		req.Category = domain.CategoryCheckout
	}
	t, err := h.ledgerSvc.Spend(r.Context(), req.OwnerID, req.Amount, req.Category, req.Description, req.RelatedEntity)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

type actionRequest struct {
	OwnerID         int64   `json:"owner_id"`
	ActionType      string  `json:"action_type"`
	Premium         bool    `json:"premium,omitempty"`
	Quality         bool    `json:"quality,omitempty"`
	PurchaseValue   int64   `json:"purchase_value,omitempty"`
	EventID         string  `json:"event_id,omitempty"`
	ReferredOwnerID int64   `json:"referred_owner_id,omitempty"`
	Description     string  `json:"description"`
	RelatedEntity   *string `json:"related_entity,omitempty"`
}

// rewardAction maps the wire shape onto the typed action variants so each
// action's required fields are checked before the ledger is touched.
func (req *actionRequest) rewardAction() (domain.RewardAction, bool) {
	switch req.ActionType {
	case domain.CategoryListing:
		return domain.ListingAction{Premium: req.Premium, Quality: req.Quality}, true
	case domain.CategoryRepair:
		return domain.RepairAction{Quality: req.Quality}, true
	case domain.CategoryUpcycle:
		return domain.UpcycleAction{}, true
	case domain.CategoryReferral:
		if req.ReferredOwnerID == 0 {
			return nil, false
		}
		return domain.ReferralAction{ReferredOwnerID: req.ReferredOwnerID}, true
	case domain.CategoryCashback:
		if req.PurchaseValue <= 0 {
			return nil, false
		}
		return domain.PurchaseAction{PurchaseValue: req.PurchaseValue}, true
	case domain.CategoryEvent:
		if req.EventID == "" {
			return nil, false
		}
		return domain.EventAttendanceAction{EventID: req.EventID}, true
	default:
		return nil, false
	}
}

func (h *AdminHandler) AwardAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}
	action, ok := req.rewardAction()
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown or incomplete action", Code: "BAD_REQUEST"})
		return
	}
	t, err := h.ledgerSvc.AwardForAction(r.Context(), req.OwnerID, action, req.Description, req.RelatedEntity)
	if err != nil {
		respondError(w, err)
		return
	}
	if t == nil {
		// Action priced to zero tokens; acknowledged without a ledger entry.
		respondJSON(w, http.StatusOK, map[string]string{"status": "no_reward"})
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.querySvc.GetStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
