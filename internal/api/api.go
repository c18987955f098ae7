// Package api exposes the ledger as an HTTP REST/JSON API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/auth"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/middleware"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/service"
)

// API holds the services behind the HTTP REST/JSON API.
type API struct {
	auth        *service.AuthService
	groups      *service.GroupService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	jwtManager  *auth.JWTManager
}

// New creates a new API over the given services.
func New(
	authSvc *service.AuthService,
	groups *service.GroupService,
	expenses *service.ExpenseService,
	settlements *service.SettlementService,
	jwtManager *auth.JWTManager,
) *API {
	return &API{
		auth:        authSvc,
		groups:      groups,
		expenses:    expenses,
		settlements: settlements,
		jwtManager:  jwtManager,
	}
}

// Handler builds the route table. Everything under /api except the auth
// endpoints requires a valid bearer token.
func (api *API) Handler() *http.ServeMux {
	requireAuth := middleware.RequireAuth(api.jwtManager)
	authed := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", api.register)
	mux.HandleFunc("POST /api/auth/login", api.login)
	mux.Handle("GET /api/auth/me", authed(api.currentUser))

	mux.Handle("POST /api/groups", authed(api.createGroup))
	mux.Handle("GET /api/groups", authed(api.listGroups))
	mux.Handle("GET /api/groups/{id}", authed(api.getGroup))
	mux.Handle("POST /api/groups/{id}/members", authed(api.addMember))
	mux.Handle("DELETE /api/groups/{id}/members/{memberID}", authed(api.removeMember))
	mux.Handle("POST /api/groups/{id}/leave", authed(api.leaveGroup))
	mux.Handle("POST /api/groups/{id}/settle", authed(api.markSettled))

	mux.Handle("POST /api/groups/{id}/expenses", authed(api.addExpense))
	mux.Handle("GET /api/groups/{id}/expenses", authed(api.listExpenses))
	mux.Handle("PUT /api/groups/{id}/expenses/{expenseID}", authed(api.updateExpense))
	mux.Handle("DELETE /api/groups/{id}/expenses/{expenseID}", authed(api.deleteExpense))

	mux.Handle("POST /api/groups/{id}/settlements", authed(api.recordSettlement))
	mux.Handle("GET /api/groups/{id}/settlements", authed(api.listSettlements))
	mux.Handle("DELETE /api/groups/{id}/settlements/{settlementID}", authed(api.deleteSettlement))

	mux.Handle("GET /api/groups/{id}/balances", authed(api.balances))
	mux.Handle("GET /api/groups/{id}/settle-plan", authed(api.settlePlan))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

// writeJSON marshals data into a response with content-type application/json.
func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps a service error to a status code and writes it as JSON.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	message := "internal error"
	switch service.KindOf(err) {
	case service.KindValidation:
		code = http.StatusBadRequest
		message = err.Error()
	case service.KindAuthorization:
		code = http.StatusForbidden
		message = err.Error()
	case service.KindPrecondition:
		code = http.StatusConflict
		message = err.Error()
	case service.KindNotFound:
		code = http.StatusNotFound
		message = err.Error()
	default:
		slog.Error("Internal error", "error", err)
	}
	writeJSON(w, code, errorResponse{Error: message})
}

// decode parses the request body as JSON into dst.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unable to decode and parse json"})
		return false
	}
	return true
}
