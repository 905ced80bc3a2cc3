package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// respondError maps the ledger error taxonomy onto HTTP statuses. Unknown
// errors are logged and reported as a plain 500 without internals.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "INVALID_AMOUNT"})
	case errors.Is(err, domain.ErrInvalidStake):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "INVALID_STAKE"})
	case errors.Is(err, domain.ErrSameWalletTransfer):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "SAME_WALLET_TRANSFER"})
	case errors.Is(err, domain.ErrWalletNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "WALLET_NOT_FOUND"})
	case errors.Is(err, domain.ErrStakeNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "STAKE_NOT_FOUND"})
	case errors.Is(err, domain.ErrInsufficientBalance):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "INSUFFICIENT_BALANCE"})
	case errors.Is(err, domain.ErrStakeNotActive):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "STAKE_NOT_ACTIVE"})
	case errors.Is(err, domain.ErrConcurrentConflict):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "CONCURRENT_CONFLICT"})
	default:
		logger.Error("unhandled error in request", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "INTERNAL"})
	}
}
