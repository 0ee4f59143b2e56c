package handlers

import (
	"net/http"
	"time"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/services"
	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService services.ContestService
}

func NewContestHandler(contestService services.ContestService) *ContestHandler {
	return &ContestHandler{contestService: contestService}
}

// outcomeInput is the flat wire shape shared by every contest type. Fields
// that do not apply to the requested type are simply ignored by the typed
// outcome it is converted into.
type outcomeInput struct {
	Winner    string `json:"winner"`
	Bottom    string `json:"bottom"`
	TopScorer string `json:"top_scorer"`
	Finalist1 string `json:"finalist1"`
	Finalist2 string `json:"finalist2"`
}

func (in outcomeInput) toOutcome(t models.ContestType) (models.ContestOutcome, error) {
	switch t {
	case models.ContestPreseason:
		return models.PreseasonOutcome{Winner: in.Winner, Bottom: in.Bottom, TopScorer: in.TopScorer}, nil
	case models.ContestSupercoppa:
		return models.SupercoppaOutcome{Finalist1: in.Finalist1, Finalist2: in.Finalist2, Winner: in.Winner}, nil
	case models.ContestCoppaItalia:
		return models.CoppaItaliaOutcome{Winner: in.Winner}, nil
	}
	return nil, services.ErrInvalidContestType
}

func contestTypeParam(r *http.Request) models.ContestType {
	return models.ContestType(chi.URLParam(r, "contestType"))
}

func (h *ContestHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		LockAt time.Time `json:"lock_at"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	settings, err := h.contestService.CreateContest(r.Context(), caller, leagueID, contestTypeParam(r), input.LockAt)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"contest": settings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContestHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.contestService.GetContest(r.Context(), caller, leagueID, contestTypeParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"contest": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContestHandler) SubmitBet(w http.ResponseWriter, r *http.Request) {
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

	var input outcomeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contestType := contestTypeParam(r)
	prediction, err := input.toOutcome(contestType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	bet, err := h.contestService.SubmitBet(r.Context(), caller, leagueID, contestType, prediction)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bet": bet}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContestHandler) UpdateLockTime(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		LockAt time.Time `json:"lock_at"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	settings, err := h.contestService.UpdateLockTime(r.Context(), caller, leagueID, contestTypeParam(r), input.LockAt)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"contest": settings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContestHandler) ForceLock(w http.ResponseWriter, r *http.Request) {
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

	settings, err := h.contestService.ForceLock(r.Context(), caller, leagueID, contestTypeParam(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"contest": settings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ContestHandler) ConfirmResults(w http.ResponseWriter, r *http.Request) {
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

	var input outcomeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contestType := contestTypeParam(r)
	official, err := input.toOutcome(contestType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	settings, err := h.contestService.ConfirmResults(r.Context(), caller, leagueID, contestType, official)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"contest": settings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
