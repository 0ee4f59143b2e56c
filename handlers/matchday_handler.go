package handlers

import (
	"net/http"

	"github.com/ddfilmmaker/AppSchedina-sub000/services"
)

type MatchdayHandler struct {
	matchdayService services.MatchdayService
	matchService    services.MatchService
}

func NewMatchdayHandler(matchdayService services.MatchdayService, matchService services.MatchService) *MatchdayHandler {
	return &MatchdayHandler{
		matchdayService: matchdayService,
		matchService:    matchService,
	}
}

func (h *MatchdayHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateMatchdayInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchday, err := h.matchdayService.CreateMatchday(r.Context(), caller, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matchday": matchday}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchdayHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	matchdayID, err := urlParamInt(r, "matchdayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchday, err := h.matchdayService.GetMatchday(r.Context(), caller, matchdayID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchday": matchday}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchdayHandler) ListByLeague(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	leagueID, err := urlParamInt(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchdays, err := h.matchdayService.ListMatchdays(r.Context(), caller, leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchdays": matchdays}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchdayHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	matchdayID, err := urlParamInt(r, "matchdayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		IsCompleted bool `json:"is_completed"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchday, err := h.matchdayService.SetCompleted(r.Context(), caller, matchdayID, input.IsCompleted)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchday": matchday}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchdayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	matchdayID, err := urlParamInt(r, "matchdayID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchdayService.DeleteMatchday(r.Context(), caller, matchdayID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchdayHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), caller, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
