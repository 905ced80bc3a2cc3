package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"seva-ledger/internal/security"
	"seva-ledger/internal/service"
)

// NewRouter wires the wallet and admin endpoints. All /api/v1 routes require
// a valid bearer token; /api/v1/admin additionally requires the admin role.
func NewRouter(querySvc service.QueryService, ledgerSvc service.LedgerService, stakingSvc service.StakingService, tm security.TokenManager) *mux.Router {
	walletHandler := NewWalletHandler(querySvc, ledgerSvc, stakingSvc)
	adminHandler := NewAdminHandler(ledgerSvc, querySvc)

	r := mux.NewRouter()
	r.Use(RequestLogging)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(mux.MiddlewareFunc(Authenticate(tm)))

	api.HandleFunc("/wallet", walletHandler.GetWallet).Methods(http.MethodGet)
	api.HandleFunc("/wallet/balance", walletHandler.GetBalance).Methods(http.MethodGet)
	api.HandleFunc("/wallet/transactions", walletHandler.GetTransactions).Methods(http.MethodGet)
	api.HandleFunc("/wallet/transfer", walletHandler.Transfer).Methods(http.MethodPost)
	api.HandleFunc("/wallet/stakes", walletHandler.ListStakes).Methods(http.MethodGet)
	api.HandleFunc("/wallet/stake", walletHandler.Stake).Methods(http.MethodPost)
	api.HandleFunc("/wallet/stakes/{id}/unstake", walletHandler.Unstake).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", walletHandler.GetLeaderboard).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(RequireAdmin))

	admin.HandleFunc("/tokens/award", adminHandler.Award).Methods(http.MethodPost)
	admin.HandleFunc("/tokens/spend", adminHandler.Spend).Methods(http.MethodPost)
	admin.HandleFunc("/tokens/action", adminHandler.AwardAction).Methods(http.MethodPost)
	admin.HandleFunc("/stats", adminHandler.GetStats).Methods(http.MethodGet)

	return r
}
