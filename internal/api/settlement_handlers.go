package api

import (
	"net/http"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/middleware"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/service"
)

func (api *API) recordSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if !decode(w, r, &req) {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	settlement, err := api.settlements.RecordSettlement(r.Context(), actorID, r.PathValue("id"), service.SettlementInput{
		FromMemberID:    req.FromMemberID,
		ToMemberID:      req.ToMemberID,
		Amount:          req.Amount,
		Note:            req.Note,
		LinkTransaction: req.LinkTransaction,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

func (api *API) listSettlements(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	settlements, err := api.settlements.ListSettlements(r.Context(), actorID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := settlementsResponse{Settlements: make([]settlementResponse, len(settlements))}
	for i, s := range settlements {
		resp.Settlements[i] = toSettlementResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (api *API) deleteSettlement(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	err := api.settlements.DeleteSettlement(r.Context(), actorID, r.PathValue("id"), r.PathValue("settlementID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) balances(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	balances, err := api.settlements.Balances(r.Context(), actorID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := balancesResponse{Balances: make([]balanceResponse, len(balances))}
	for i, b := range balances {
		resp.Balances[i] = balanceResponse{
			MemberID: b.MemberID,
			Name:     b.Name,
			Paid:     b.Paid,
			Owes:     b.Owes,
			Balance:  b.Balance,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (api *API) settlePlan(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	transfers, err := api.settlements.PlanSettlements(r.Context(), actorID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := settlePlanResponse{Transfers: make([]transferResponse, len(transfers))}
	for i, t := range transfers {
		resp.Transfers[i] = transferResponse{
			FromMemberID: t.FromMemberID,
			ToMemberID:   t.ToMemberID,
			Amount:       t.Amount,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
