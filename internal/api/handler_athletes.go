package api

import (
	"encoding/json"
	"net/http"

	"meetreg/internal/domain"
)

type athleteDTO struct {
	ID           int64  `json:"id"`
	TeamID       int64  `json:"team_id"`
	GroupID      int64  `json:"group_id"`
	Name         string `json:"name"`
	IDNumber     string `json:"id_number,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

type athleteRequest struct {
	GroupID      int64  `json:"group_id"`
	Name         string `json:"name"`
	IDNumber     string `json:"id_number"`
	ContactPhone string `json:"contact_phone"`
}

func athleteToDTO(a *domain.Athlete) athleteDTO {
	return athleteDTO{
		ID:           a.ID,
		TeamID:       a.TeamID,
		GroupID:      a.GroupID,
		Name:         a.Name,
		IDNumber:     a.IDNumber,
		ContactPhone: a.ContactPhone,
	}
}

func (h *Handler) listAthletes(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	athletes, err := h.athletes.ListByTeam(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]athleteDTO, len(athletes))
	for i := range athletes {
		out[i] = athleteToDTO(&athletes[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getAthlete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	athlete, err := h.athletes.Get(r.Context(), teamID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, athleteToDTO(athlete))
}

func (h *Handler) createAthlete(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req athleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}

	created, err := h.athletes.Create(r.Context(), &domain.Athlete{
		TeamID:       teamID,
		GroupID:      req.GroupID,
		Name:         req.Name,
		IDNumber:     req.IDNumber,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, athleteToDTO(created))
}

func (h *Handler) updateAthlete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req athleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}

	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.athletes.Update(r.Context(), teamID, &domain.Athlete{
		ID:           id,
		GroupID:      req.GroupID,
		Name:         req.Name,
		IDNumber:     req.IDNumber,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, athleteToDTO(updated))
}

func (h *Handler) deleteAthlete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.athletes.Delete(r.Context(), teamID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
