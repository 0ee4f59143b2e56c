package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ddfilmmaker/AppSchedina-sub000/models"
	"github.com/ddfilmmaker/AppSchedina-sub000/repositories"
)

// In-memory repository fakes. They implement just enough of the repository
// contracts for the service tests, including the sentinel errors the services
// translate.

type fakeLeagueRepo struct {
	leagues map[int]*models.League
	members map[int][]models.LeagueMember
	nextID  int
}

func newFakeLeagueRepo() *fakeLeagueRepo {
	return &fakeLeagueRepo{
		leagues: make(map[int]*models.League),
		members: make(map[int][]models.LeagueMember),
		nextID:  1,
	}
}

// addLeague seeds a league with its admin already a member.
func (r *fakeLeagueRepo) addLeague(adminID int, memberIDs ...int) *models.League {
	league := &models.League{
		ID:        r.nextID,
		Name:      fmt.Sprintf("league-%d", r.nextID),
		JoinCode:  fmt.Sprintf("CODE%04d", r.nextID),
		AdminID:   adminID,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.leagues[league.ID] = league
	ids := append([]int{adminID}, memberIDs...)
	for _, id := range ids {
		r.members[league.ID] = append(r.members[league.ID], models.LeagueMember{
			LeagueID: league.ID,
			UserID:   id,
			JoinedAt: time.Now(),
			User:     &models.User{ID: id, Nickname: fmt.Sprintf("user-%d", id)},
		})
	}
	return league
}

func (r *fakeLeagueRepo) Create(_ context.Context, league *models.League) error {
	for _, l := range r.leagues {
		if l.Name == league.Name {
			return repositories.ErrLeagueNameConflict
		}
		if l.JoinCode == league.JoinCode {
			return repositories.ErrJoinCodeConflict
		}
	}
	league.ID = r.nextID
	r.nextID++
	league.CreatedAt = time.Now()
	r.leagues[league.ID] = league
	return nil
}

func (r *fakeLeagueRepo) GetByID(_ context.Context, id int) (*models.League, error) {
	league, ok := r.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	copied := *league
	return &copied, nil
}

func (r *fakeLeagueRepo) GetByJoinCode(_ context.Context, code string) (*models.League, error) {
	for _, league := range r.leagues {
		if league.JoinCode == code {
			copied := *league
			return &copied, nil
		}
	}
	return nil, repositories.ErrLeagueNotFound
}

func (r *fakeLeagueRepo) ListByUser(_ context.Context, userID int) ([]models.League, error) {
	var out []models.League
	for leagueID, members := range r.members {
		for _, m := range members {
			if m.UserID == userID {
				out = append(out, *r.leagues[leagueID])
				break
			}
		}
	}
	return out, nil
}

func (r *fakeLeagueRepo) UpdateCrestKey(_ context.Context, leagueID int, key *string) error {
	league, ok := r.leagues[leagueID]
	if !ok {
		return repositories.ErrLeagueNotFound
	}
	league.CrestKey = key
	return nil
}

func (r *fakeLeagueRepo) AddMember(_ context.Context, leagueID, userID int) error {
	if _, ok := r.leagues[leagueID]; !ok {
		return repositories.ErrLeagueNotFound
	}
	for _, m := range r.members[leagueID] {
		if m.UserID == userID {
			return repositories.ErrMemberConflict
		}
	}
	r.members[leagueID] = append(r.members[leagueID], models.LeagueMember{
		LeagueID: leagueID,
		UserID:   userID,
		JoinedAt: time.Now(),
		User:     &models.User{ID: userID, Nickname: fmt.Sprintf("user-%d", userID)},
	})
	return nil
}

func (r *fakeLeagueRepo) ListMembers(_ context.Context, leagueID int) ([]models.LeagueMember, error) {
	return r.members[leagueID], nil
}

func (r *fakeLeagueRepo) IsMember(_ context.Context, leagueID, userID int) (bool, error) {
	for _, m := range r.members[leagueID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeMatchdayRepo struct {
	matchdays map[int]*models.Matchday
	nextID    int
}

func newFakeMatchdayRepo() *fakeMatchdayRepo {
	return &fakeMatchdayRepo{matchdays: make(map[int]*models.Matchday), nextID: 1}
}

func (r *fakeMatchdayRepo) Create(_ context.Context, matchday *models.Matchday) error {
	matchday.ID = r.nextID
	r.nextID++
	copied := *matchday
	r.matchdays[matchday.ID] = &copied
	return nil
}

func (r *fakeMatchdayRepo) GetByID(_ context.Context, id int) (*models.Matchday, error) {
	matchday, ok := r.matchdays[id]
	if !ok {
		return nil, repositories.ErrMatchdayNotFound
	}
	copied := *matchday
	return &copied, nil
}

func (r *fakeMatchdayRepo) Update(_ context.Context, matchday *models.Matchday) error {
	if _, ok := r.matchdays[matchday.ID]; !ok {
		return repositories.ErrMatchdayNotFound
	}
	copied := *matchday
	r.matchdays[matchday.ID] = &copied
	return nil
}

func (r *fakeMatchdayRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.matchdays[id]; !ok {
		return repositories.ErrMatchdayNotFound
	}
	delete(r.matchdays, id)
	return nil
}

func (r *fakeMatchdayRepo) ListByLeague(_ context.Context, leagueID int) ([]models.Matchday, error) {
	var out []models.Matchday
	for _, md := range r.matchdays {
		if md.LeagueID == leagueID {
			out = append(out, *md)
		}
	}
	return out, nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	// leagueByMatchday lets ListByLeague resolve matches without a join.
	leagueByMatchday map[int]int
	nextID           int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{
		matches:          make(map[int]*models.Match),
		leagueByMatchday: make(map[int]int),
		nextID:           1,
	}
}

func (r *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	match.ID = r.nextID
	r.nextID++
	copied := *match
	r.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	copied := *match
	r.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) ListByMatchday(_ context.Context, matchdayID int) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if m.MatchdayID == matchdayID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByLeague(_ context.Context, leagueID int) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if r.leagueByMatchday[m.MatchdayID] == leagueID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type pickKey struct {
	matchID int
	userID  int
}

type fakePickRepo struct {
	picks map[pickKey]*models.Pick
	// leagueByMatch backs ListByLeague and ListByUserAndLeague.
	leagueByMatch map[int]int
}

func newFakePickRepo() *fakePickRepo {
	return &fakePickRepo{
		picks:         make(map[pickKey]*models.Pick),
		leagueByMatch: make(map[int]int),
	}
}

func (r *fakePickRepo) Upsert(_ context.Context, pick *models.Pick) error {
	key := pickKey{matchID: pick.MatchID, userID: pick.UserID}
	now := time.Now()
	if existing, ok := r.picks[key]; ok {
		existing.Value = pick.Value
		existing.LastModified = now
		pick.SubmittedAt = existing.SubmittedAt
		pick.LastModified = now
		return nil
	}
	pick.SubmittedAt = now
	pick.LastModified = now
	copied := *pick
	r.picks[key] = &copied
	return nil
}

func (r *fakePickRepo) GetByMatchAndUser(_ context.Context, matchID, userID int) (*models.Pick, error) {
	pick, ok := r.picks[pickKey{matchID: matchID, userID: userID}]
	if !ok {
		return nil, repositories.ErrPickNotFound
	}
	copied := *pick
	return &copied, nil
}

func (r *fakePickRepo) ListByMatch(_ context.Context, matchID int) ([]models.Pick, error) {
	var out []models.Pick
	for key, pick := range r.picks {
		if key.matchID == matchID {
			out = append(out, *pick)
		}
	}
	return out, nil
}

func (r *fakePickRepo) ListByLeague(_ context.Context, leagueID int) ([]models.Pick, error) {
	var out []models.Pick
	for key, pick := range r.picks {
		if r.leagueByMatch[key.matchID] == leagueID {
			out = append(out, *pick)
		}
	}
	return out, nil
}

func (r *fakePickRepo) ListByUserAndLeague(_ context.Context, userID, leagueID int) ([]models.Pick, error) {
	var out []models.Pick
	for key, pick := range r.picks {
		if key.userID == userID && r.leagueByMatch[key.matchID] == leagueID {
			out = append(out, *pick)
		}
	}
	return out, nil
}

type contestKey struct {
	leagueID    int
	contestType models.ContestType
}

type betKey struct {
	leagueID    int
	contestType models.ContestType
	userID      int
}

type fakeContestRepo struct {
	settings map[contestKey]*models.ContestSettings
	bets     map[betKey]*models.ContestBet
	nextID   int
}

func newFakeContestRepo() *fakeContestRepo {
	return &fakeContestRepo{
		settings: make(map[contestKey]*models.ContestSettings),
		bets:     make(map[betKey]*models.ContestBet),
		nextID:   1,
	}
}

func (r *fakeContestRepo) CreateSettings(_ context.Context, settings *models.ContestSettings) error {
	key := contestKey{leagueID: settings.LeagueID, contestType: settings.Type}
	if _, ok := r.settings[key]; ok {
		return fmt.Errorf("contest %s already exists for league %d", settings.Type, settings.LeagueID)
	}
	settings.ID = r.nextID
	r.nextID++
	copied := *settings
	r.settings[key] = &copied
	return nil
}

func (r *fakeContestRepo) GetSettings(_ context.Context, leagueID int, contestType models.ContestType) (*models.ContestSettings, error) {
	settings, ok := r.settings[contestKey{leagueID: leagueID, contestType: contestType}]
	if !ok {
		return nil, repositories.ErrContestNotFound
	}
	copied := *settings
	return &copied, nil
}

func (r *fakeContestRepo) UpdateSettings(_ context.Context, settings *models.ContestSettings) error {
	key := contestKey{leagueID: settings.LeagueID, contestType: settings.Type}
	if _, ok := r.settings[key]; !ok {
		return repositories.ErrContestNotFound
	}
	copied := *settings
	r.settings[key] = &copied
	return nil
}

func (r *fakeContestRepo) UpsertBet(_ context.Context, bet *models.ContestBet) error {
	key := betKey{leagueID: bet.LeagueID, contestType: bet.Type, userID: bet.UserID}
	now := time.Now()
	if existing, ok := r.bets[key]; ok {
		existing.Prediction = bet.Prediction
		existing.LastModified = now
		bet.ID = existing.ID
		bet.SubmittedAt = existing.SubmittedAt
		bet.LastModified = now
		return nil
	}
	bet.ID = r.nextID
	r.nextID++
	bet.SubmittedAt = now
	bet.LastModified = now
	copied := *bet
	r.bets[key] = &copied
	return nil
}

func (r *fakeContestRepo) GetBet(_ context.Context, leagueID int, contestType models.ContestType, userID int) (*models.ContestBet, error) {
	bet, ok := r.bets[betKey{leagueID: leagueID, contestType: contestType, userID: userID}]
	if !ok {
		return nil, repositories.ErrContestBetNotFound
	}
	copied := *bet
	return &copied, nil
}

func (r *fakeContestRepo) ListBets(_ context.Context, leagueID int, contestType models.ContestType) ([]models.ContestBet, error) {
	var out []models.ContestBet
	for key, bet := range r.bets {
		if key.leagueID == leagueID && key.contestType == contestType {
			out = append(out, *bet)
		}
	}
	return out, nil
}

func (r *fakeContestRepo) ConfirmResults(_ context.Context, settings *models.ContestSettings, pointsByUserID map[int]int) error {
	key := contestKey{leagueID: settings.LeagueID, contestType: settings.Type}
	stored, ok := r.settings[key]
	if !ok {
		return repositories.ErrContestNotFound
	}
	if stored.ResultsConfirmedAt != nil {
		return fmt.Errorf("contest %s already confirmed for league %d", settings.Type, settings.LeagueID)
	}
	now := time.Now()
	stored.Official = settings.Official
	stored.Locked = true
	stored.ResultsConfirmedAt = &now
	settings.ResultsConfirmedAt = &now
	for userID, points := range pointsByUserID {
		bet, ok := r.bets[betKey{leagueID: settings.LeagueID, contestType: settings.Type, userID: userID}]
		if ok {
			bet.Points = points
		}
	}
	return nil
}

type manualKey struct {
	leagueID int
	userID   int
}

type fakeManualPointsRepo struct {
	points map[manualKey]int
}

func newFakeManualPointsRepo() *fakeManualPointsRepo {
	return &fakeManualPointsRepo{points: make(map[manualKey]int)}
}

func (r *fakeManualPointsRepo) Set(_ context.Context, leagueID, userID, points int) error {
	r.points[manualKey{leagueID: leagueID, userID: userID}] = points
	return nil
}

func (r *fakeManualPointsRepo) GetByLeague(_ context.Context, leagueID int) (map[int]int, error) {
	out := make(map[int]int)
	for key, points := range r.points {
		if key.leagueID == leagueID {
			out[key.userID] = points
		}
	}
	return out, nil
}

type fakeWinnerRepo struct {
	declarations map[int]*models.WinnerDeclaration
	nextID       int
}

func newFakeWinnerRepo() *fakeWinnerRepo {
	return &fakeWinnerRepo{declarations: make(map[int]*models.WinnerDeclaration), nextID: 1}
}

func (r *fakeWinnerRepo) Create(_ context.Context, declaration *models.WinnerDeclaration) error {
	if _, ok := r.declarations[declaration.LeagueID]; ok {
		return repositories.ErrDeclarationConflict
	}
	declaration.ID = r.nextID
	r.nextID++
	declaration.DeclaredAt = time.Now()
	copied := *declaration
	r.declarations[declaration.LeagueID] = &copied
	return nil
}

func (r *fakeWinnerRepo) GetByLeague(_ context.Context, leagueID int) (*models.WinnerDeclaration, error) {
	declaration, ok := r.declarations[leagueID]
	if !ok {
		return nil, repositories.ErrDeclarationNotFound
	}
	copied := *declaration
	return &copied, nil
}
