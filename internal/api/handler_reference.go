package api

import (
	"net/http"

	"meetreg/internal/domain"
)

type groupDTO struct {
	ID                      int64  `json:"id"`
	SportsMeetID            int64  `json:"sports_meet_id"`
	Name                    string `json:"name"`
	Gender                  string `json:"gender,omitempty"`
	Grade                   string `json:"grade,omitempty"`
	MaxLeadersPerTeam       int    `json:"max_leaders_per_team"`
	MaxAthletesPerTeam      int    `json:"max_athletes_per_team"`
	MaxEventsPerAthlete     int    `json:"max_events_per_athlete"`
	MaxParticipantsPerEvent int    `json:"max_participants_per_event"`
	Status                  string `json:"status"`
}

func groupToDTO(g *domain.Group) groupDTO {
	return groupDTO{
		ID:                      g.ID,
		SportsMeetID:            g.SportsMeetID,
		Name:                    g.Name,
		Gender:                  g.Gender,
		Grade:                   g.Grade,
		MaxLeadersPerTeam:       g.MaxLeadersPerTeam,
		MaxAthletesPerTeam:      g.MaxAthletesPerTeam,
		MaxEventsPerAthlete:     g.MaxEventsPerAthlete,
		MaxParticipantsPerEvent: g.MaxParticipantsPerEvent,
		Status:                  g.Status,
	}
}

type eventDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	EventType string `json:"event_type"`
	Gender    string `json:"gender,omitempty"`
}

func eventToDTO(e *domain.Event) eventDTO {
	return eventDTO{ID: e.ID, Name: e.Name, EventType: e.EventType, Gender: e.Gender}
}

func eventsToDTO(events []domain.Event) []eventDTO {
	out := make([]eventDTO, len(events))
	for i := range events {
		out[i] = eventToDTO(&events[i])
	}
	return out
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	teamID, err := teamScope(r)
	if err != nil {
		writeError(w, err)
		return
	}
	groups, err := h.groups.ListForTeam(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]groupDTO, len(groups))
	for i := range groups {
		out[i] = groupToDTO(&groups[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	group, err := h.groups.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupToDTO(group))
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsToDTO(events))
}

// listGroupEvents serves a group's eligible events; ?kind=mandatory or
// ?kind=optional narrows by mapping kind.
func (h *Handler) listGroupEvents(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeError(w, err)
		return
	}

	var events []domain.Event
	switch kind := r.URL.Query().Get("kind"); kind {
	case "":
		events, err = h.events.ListEligible(r.Context(), groupID)
	case "mandatory":
		events, err = h.events.ListByKind(r.Context(), groupID, true)
	case "optional":
		events, err = h.events.ListByKind(r.Context(), groupID, false)
	default:
		writeError(w, domain.ErrValidation("unknown kind %q", kind))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsToDTO(events))
}
