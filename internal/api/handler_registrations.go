package api

import (
	"encoding/json"
	"net/http"

	"meetreg/internal/domain"
)

type replaceRequest struct {
	EventIDs []int64 `json:"event_ids"`
}

type replaceResponse struct {
	EventIDs []int64 `json:"event_ids"`
	Deleted  int     `json:"deleted"`
	Inserted int     `json:"inserted"`
	Kept     int     `json:"kept"`
}

func (h *Handler) getAthleteRegistrations(w http.ResponseWriter, r *http.Request) {
	athleteID, err := pathID(r, "athleteID")
	if err != nil {
		writeError(w, err)
		return
	}
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ids, err := h.registrations.RegisteredEventIDs(r.Context(), teamID, athleteID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"event_ids": ids})
}

func (h *Handler) replaceAthleteRegistrations(w http.ResponseWriter, r *http.Request) {
	athleteID, err := pathID(r, "athleteID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}

	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.registrations.Replace(r.Context(), teamID, athleteID, req.EventIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, replaceResponse{
		EventIDs: res.EventIDs,
		Deleted:  res.Deleted,
		Inserted: res.Inserted,
		Kept:     res.Kept,
	})
}

type addLeaderRequest struct {
	EventID int64 `json:"event_id"`
}

func (h *Handler) addLeader(w http.ResponseWriter, r *http.Request) {
	var req addLeaderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.EventID <= 0 {
		writeError(w, domain.ErrValidation("event_id is required"))
		return
	}

	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reg, err := h.registrations.AddLeader(r.Context(), teamID, req.EventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": reg.ID})
}

func (h *Handler) removeLeader(w http.ResponseWriter, r *http.Request) {
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
	if err := h.registrations.RemoveLeader(r.Context(), teamID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summaryRecordDTO struct {
	Label       string   `json:"label"`
	Category    string   `json:"category"`
	Limit       int      `json:"limit"`
	Actual      int      `json:"actual"`
	UsageRate   *float64 `json:"usage_rate"`
	IsOverLimit bool     `json:"is_over_limit"`
	GroupID     *int64   `json:"group_id,omitempty"`
	EventID     *int64   `json:"event_id,omitempty"`
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := h.summary.Summary(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]summaryRecordDTO, len(records))
	for i, rec := range records {
		out[i] = summaryRecordDTO{
			Label:       rec.Label,
			Category:    rec.Category,
			Limit:       rec.Limit,
			Actual:      rec.Actual,
			UsageRate:   rec.UsageRate,
			IsOverLimit: rec.IsOverLimit,
			GroupID:     rec.GroupID,
			EventID:     rec.EventID,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type eventStatisticDTO struct {
	GroupID           int64  `json:"group_id"`
	GroupName         string `json:"group_name"`
	RegistrationCount int    `json:"registration_count"`
	MaxParticipants   int    `json:"max_participants"`
	IsOverLimit       bool   `json:"is_over_limit"`
}

func (h *Handler) getEventStatistics(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(w, err)
		return
	}
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	event, stats, err := h.summary.EventStatistics(r.Context(), teamID, eventID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]eventStatisticDTO, len(stats))
	for i, s := range stats {
		out[i] = eventStatisticDTO{
			GroupID:           s.GroupID,
			GroupName:         s.GroupName,
			RegistrationCount: s.RegistrationCount,
			MaxParticipants:   s.MaxParticipants,
			IsOverLimit:       s.IsOverLimit,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"event":  eventToDTO(event),
		"groups": out,
	})
}

func (h *Handler) getOverview(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ov, err := h.summary.Overview(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_athletes":      ov.TotalAthletes,
		"total_registrations": ov.TotalRegistrations,
		"by_status":           ov.ByStatus,
		"by_event_type":       ov.ByEventType,
	})
}
