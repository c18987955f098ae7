package api

import (
	"net/http"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/middleware"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/service"
)

func expenseInputFromRequest(req expenseRequest) service.ExpenseInput {
	input := service.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		Policy:      models.SplitPolicy(req.SplitPolicy),
		SplitWith:   req.SplitWith,
		Overrides:   req.Overrides,
		Date:        req.Date,
		Notes:       req.Notes,
	}
	for _, p := range req.Payers {
		input.Payers = append(input.Payers, service.PayerInput{MemberID: p.MemberID, Amount: p.Amount})
	}
	return input
}

func (api *API) addExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decode(w, r, &req) {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	expense, err := api.expenses.AddExpense(r.Context(), actorID, r.PathValue("id"), expenseInputFromRequest(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (api *API) listExpenses(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	expenses, err := api.expenses.ListExpenses(r.Context(), actorID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := expensesResponse{Expenses: make([]expenseResponse, len(expenses))}
	for i, e := range expenses {
		resp.Expenses[i] = toExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (api *API) updateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decode(w, r, &req) {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	expense, err := api.expenses.UpdateExpense(
		r.Context(), actorID, r.PathValue("id"), r.PathValue("expenseID"), expenseInputFromRequest(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (api *API) deleteExpense(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	err := api.expenses.DeleteExpense(r.Context(), actorID, r.PathValue("id"), r.PathValue("expenseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
