package api

import "github.com/abdul037/yourwealthadvisor-sub001/internal/models"

type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type createGroupRequest struct {
	Name       string `json:"name"`
	Currency   string `json:"currency"`
	MemberName string `json:"member_name"`
}

type addMemberRequest struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
}

type memberResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id,omitempty"`
	Name      string `json:"name"`
	IsCreator bool   `json:"is_creator"`
	CreatedAt int64  `json:"created_at"`
}

type groupResponse struct {
	ID        string           `json:"id"`
	OwnerID   string           `json:"owner_id"`
	Name      string           `json:"name"`
	Currency  string           `json:"currency"`
	IsSettled bool             `json:"is_settled"`
	CreatedAt int64            `json:"created_at"`
	Members   []memberResponse `json:"members"`
}

type groupsResponse struct {
	Groups []groupResponse `json:"groups"`
}

type payerPayload struct {
	MemberID string  `json:"member_id"`
	Amount   float64 `json:"amount"`
}

type expenseRequest struct {
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	PaidBy      string             `json:"paid_by"`
	SplitPolicy string             `json:"split_policy"`
	SplitWith   []string           `json:"split_with"`
	Overrides   map[string]float64 `json:"overrides"`
	Payers      []payerPayload     `json:"payers"`
	Date        int64              `json:"date"`
	Notes       string             `json:"notes"`
}

type splitResponse struct {
	MemberID   string  `json:"member_id"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage,omitempty"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SplitPolicy string          `json:"split_policy"`
	Date        int64           `json:"date"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   int64           `json:"created_at"`
	Payers      []payerPayload  `json:"payers"`
	Splits      []splitResponse `json:"splits"`
}

type expensesResponse struct {
	Expenses []expenseResponse `json:"expenses"`
}

type settlementRequest struct {
	FromMemberID    string  `json:"from_member_id"`
	ToMemberID      string  `json:"to_member_id"`
	Amount          float64 `json:"amount"`
	Note            string  `json:"note"`
	LinkTransaction bool    `json:"link_transaction"`
}

type settlementResponse struct {
	ID             string  `json:"id"`
	GroupID        string  `json:"group_id"`
	FromMemberID   string  `json:"from_member_id"`
	ToMemberID     string  `json:"to_member_id"`
	Amount         float64 `json:"amount"`
	TransactionRef string  `json:"transaction_ref,omitempty"`
	Note           string  `json:"note,omitempty"`
	CreatedAt      int64   `json:"created_at"`
}

type settlementsResponse struct {
	Settlements []settlementResponse `json:"settlements"`
}

type balanceResponse struct {
	MemberID string  `json:"member_id"`
	Name     string  `json:"name"`
	Paid     float64 `json:"paid"`
	Owes     float64 `json:"owes"`
	Balance  float64 `json:"balance"`
}

type balancesResponse struct {
	Balances []balanceResponse `json:"balances"`
}

type transferResponse struct {
	FromMemberID string  `json:"from_member_id"`
	ToMemberID   string  `json:"to_member_id"`
	Amount       float64 `json:"amount"`
}

type settlePlanResponse struct {
	Transfers []transferResponse `json:"transfers"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func toMemberResponse(m *models.Member) memberResponse {
	return memberResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		IsCreator: m.IsCreator,
		CreatedAt: m.CreatedAt,
	}
}

func toGroupResponse(g *models.Group) groupResponse {
	resp := groupResponse{
		ID:        g.ID,
		OwnerID:   g.OwnerID,
		Name:      g.Name,
		Currency:  g.Currency,
		IsSettled: g.IsSettled,
		CreatedAt: g.CreatedAt,
		Members:   make([]memberResponse, len(g.Members)),
	}
	for i, m := range g.Members {
		resp.Members[i] = toMemberResponse(m)
	}
	return resp
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	resp := expenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		SplitPolicy: string(e.SplitPolicy),
		Date:        e.Date,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		Payers:      make([]payerPayload, len(e.Payers)),
		Splits:      make([]splitResponse, len(e.Splits)),
	}
	for i, p := range e.Payers {
		resp.Payers[i] = payerPayload{MemberID: p.MemberID, Amount: p.Amount}
	}
	for i, s := range e.Splits {
		resp.Splits[i] = splitResponse{MemberID: s.MemberID, Amount: s.Amount, Percentage: s.Percentage}
	}
	return resp
}

func toSettlementResponse(s *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:             s.ID,
		GroupID:        s.GroupID,
		FromMemberID:   s.FromMemberID,
		ToMemberID:     s.ToMemberID,
		Amount:         s.Amount,
		TransactionRef: s.TransactionRef,
		Note:           s.Note,
		CreatedAt:      s.CreatedAt,
	}
}
