package api

import (
	"encoding/json"
	"net/http"

	"meetreg/internal/domain"
)

type loginRequest struct {
	OrgCode  string `json:"org_code"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	GroupID  int64  `json:"group_id,omitempty"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.OrgCode == "" || req.Password == "" {
		writeError(w, domain.ErrValidation("org_code and password are required"))
		return
	}

	token, team, err := h.auth.Login(r.Context(), req.OrgCode, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		TeamID:   team.ID,
		TeamName: team.Name,
		GroupID:  team.GroupID,
	})
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"team_id": p.TeamID,
		"role":    p.Role,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Refresh(r.Context(), principal(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) setPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.auth.SetPassword(r.Context(), teamID, req.Password); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
