package api

import (
	"net/http"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/middleware"
)

func (api *API) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decode(w, r, &req) {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	group, err := api.groups.CreateGroup(r.Context(), actorID, req.Name, req.Currency, req.MemberName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (api *API) listGroups(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	groups, err := api.groups.ListGroups(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := groupsResponse{Groups: make([]groupResponse, len(groups))}
	for i, g := range groups {
		resp.Groups[i] = toGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (api *API) getGroup(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	group, err := api.groups.GetGroup(r.Context(), actorID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (api *API) addMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !decode(w, r, &req) {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	member, err := api.groups.AddMember(r.Context(), actorID, r.PathValue("id"), req.Name, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberResponse(member))
}

func (api *API) removeMember(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	err := api.groups.RemoveMember(r.Context(), actorID, r.PathValue("id"), r.PathValue("memberID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) leaveGroup(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	if err := api.groups.LeaveGroup(r.Context(), actorID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) markSettled(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	group, err := api.groups.MarkSettled(r.Context(), actorID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}
