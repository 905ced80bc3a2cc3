package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/service"
)

// WalletHandler serves the owner-facing wallet endpoints.
type WalletHandler struct {
	querySvc   service.QueryService
	ledgerSvc  service.LedgerService
	stakingSvc service.StakingService
}

func NewWalletHandler(querySvc service.QueryService, ledgerSvc service.LedgerService, stakingSvc service.StakingService) *WalletHandler {
	return &WalletHandler{
		querySvc:   querySvc,
		ledgerSvc:  ledgerSvc,
		stakingSvc: stakingSvc,
	}
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}
	wallet, err := h.querySvc.GetWallet(r.Context(), ownerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}
	balance, err := h.querySvc.GetBalance(r.Context(), ownerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

type historyResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextCursor   int64                `json:"next_cursor"`
}

func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor, _ := strconv.ParseInt(r.URL.Query().Get("cursor"), 10, 64)

	txs, next, err := h.querySvc.GetHistory(r.Context(), ownerID, limit, cursor)
	if err != nil {
		respondError(w, err)
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	respondJSON(w, http.StatusOK, historyResponse{Transactions: txs, NextCursor: next})
}

type transferRequest struct {
	ToOwnerID   int64  `json:"to_owner_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}
	t, err := h.ledgerSvc.Transfer(r.Context(), ownerID, req.ToOwnerID, req.Amount, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

type stakeRequest struct {
	Amount     int64  `json:"amount"`
	PeriodDays int    `json:"period_days"`
	RewardRate string `json:"reward_rate"`
}

func (h *WalletHandler) Stake(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}
	var req stakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
		return
	}
	rate, err := decimal.NewFromString(req.RewardRate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid reward_rate", Code: "INVALID_STAKE"})
		return
	}
	pos, err := h.stakingSvc.Stake(r.Context(), ownerID, req.Amount, req.PeriodDays, rate)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, pos)
}

func (h *WalletHandler) Unstake(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}
	positionID := mux.Vars(r)["id"]
	t, err := h.stakingSvc.Unstake(r.Context(), ownerID, positionID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *WalletHandler) ListStakes(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Code: "UNAUTHENTICATED"})
		return
	}
	stakes, err := h.stakingSvc.ListStakes(r.Context(), ownerID)
	if err != nil {
		respondError(w, err)
		return
	}
	if stakes == nil {
		stakes = []domain.StakePosition{}
	}
	respondJSON(w, http.StatusOK, stakes)
}

func (h *WalletHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	topN, _ := strconv.Atoi(r.URL.Query().Get("top"))
	entries, err := h.querySvc.GetLeaderboard(r.Context(), topN)
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
