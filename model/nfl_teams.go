package model

import (
	"fmt"
	"strings"
)

// NFLTeam is the canonical form for an NFL franchise. Both platforms refer
// to teams differently: Sleeper uses short codes, ESPN uses numeric
// proTeamId values and omits bye weeks entirely, so the bye lives here.
type NFLTeam struct {
	name    string
	loc     string
	mascot  string
	short   string   // alternate short form, e.g. SF for SFO
	nick    []string // other names seen in the wild, e.g. Philly for PHI
	espnID  int      // ESPN proTeamId
	byeWeek int
}

func (t *NFLTeam) String() string {
	return t.name
}

func (t *NFLTeam) Friendly() string {
	if t.loc == "" {
		return t.name
	}
	return fmt.Sprintf("%s %s", t.loc, t.mascot)
}

func (t *NFLTeam) ByeWeek() int {
	return t.byeWeek
}

func (t *NFLTeam) OnBye(week int) bool {
	return t.byeWeek != 0 && t.byeWeek == week
}

var (
	TEAM_FA *NFLTeam = &NFLTeam{name: "FA", nick: []string{"FA*"}}

	// NFC
	TEAM_ARI *NFLTeam = &NFLTeam{name: "ARI", loc: "Arizona", mascot: "Cardinals", nick: []string{"Cards"}, espnID: 22, byeWeek: 11}
	TEAM_ATL *NFLTeam = &NFLTeam{name: "ATL", loc: "Atlanta", mascot: "Falcons", espnID: 1, byeWeek: 12}
	TEAM_CAR *NFLTeam = &NFLTeam{name: "CAR", loc: "Carolina", mascot: "Panthers", espnID: 29, byeWeek: 11}
	TEAM_CHI *NFLTeam = &NFLTeam{name: "CHI", loc: "Chicago", mascot: "Bears", espnID: 3, byeWeek: 7}
	TEAM_DAL *NFLTeam = &NFLTeam{name: "DAL", loc: "Dallas", mascot: "Cowboys", espnID: 6, byeWeek: 7}
	TEAM_DET *NFLTeam = &NFLTeam{name: "DET", loc: "Detroit", mascot: "Lions", espnID: 8, byeWeek: 5}
	TEAM_GBP *NFLTeam = &NFLTeam{name: "GBP", loc: "Green Bay", mascot: "Packers", short: "GB", espnID: 9, byeWeek: 10}
	TEAM_LAR *NFLTeam = &NFLTeam{name: "LAR", loc: "Los Angeles", mascot: "Rams", espnID: 14, byeWeek: 6}
	TEAM_MIN *NFLTeam = &NFLTeam{name: "MIN", loc: "Minnesota", mascot: "Vikings", espnID: 16, byeWeek: 6}
	TEAM_NOS *NFLTeam = &NFLTeam{name: "NOS", loc: "New Orleans", mascot: "Saints", short: "NO", espnID: 18, byeWeek: 12}
	TEAM_NYG *NFLTeam = &NFLTeam{name: "NYG", loc: "New York", mascot: "Giants", espnID: 19, byeWeek: 11}
	TEAM_PHI *NFLTeam = &NFLTeam{name: "PHI", loc: "Philadelphia", mascot: "Eagles", nick: []string{"Philly"}, espnID: 21, byeWeek: 5}
	TEAM_SFO *NFLTeam = &NFLTeam{name: "SFO", loc: "San Francisco", mascot: "49ers", short: "SF", nick: []string{"Niners", "9ers"}, espnID: 25, byeWeek: 9}
	TEAM_SEA *NFLTeam = &NFLTeam{name: "SEA", loc: "Seattle", mascot: "Seahawks", nick: []string{"Hawks"}, espnID: 26, byeWeek: 10}
	TEAM_TBB *NFLTeam = &NFLTeam{name: "TBB", loc: "Tampa Bay", mascot: "Buccaneers", short: "TB", nick: []string{"Bucs"}, espnID: 27, byeWeek: 11}
	TEAM_WAS *NFLTeam = &NFLTeam{name: "WAS", loc: "Washington", mascot: "Commanders", espnID: 28, byeWeek: 14}

	// AFC
	TEAM_BAL *NFLTeam = &NFLTeam{name: "BAL", loc: "Baltimore", mascot: "Ravens", espnID: 33, byeWeek: 14}
	TEAM_BUF *NFLTeam = &NFLTeam{name: "BUF", loc: "Buffalo", mascot: "Bills", espnID: 2, byeWeek: 12}
	TEAM_CIN *NFLTeam = &NFLTeam{name: "CIN", loc: "Cincinnati", mascot: "Bengals", espnID: 4, byeWeek: 12}
	TEAM_CLE *NFLTeam = &NFLTeam{name: "CLE", loc: "Cleveland", mascot: "Browns", espnID: 5, byeWeek: 10}
	TEAM_DEN *NFLTeam = &NFLTeam{name: "DEN", loc: "Denver", mascot: "Broncos", espnID: 7, byeWeek: 14}
	TEAM_HOU *NFLTeam = &NFLTeam{name: "HOU", loc: "Houston", mascot: "Texans", espnID: 34, byeWeek: 14}
	TEAM_IND *NFLTeam = &NFLTeam{name: "IND", loc: "Indianapolis", mascot: "Colts", nick: []string{"Indy"}, espnID: 11, byeWeek: 14}
	TEAM_JAC *NFLTeam = &NFLTeam{name: "JAC", loc: "Jacksonville", mascot: "Jaguars", nick: []string{"Jags"}, espnID: 30, byeWeek: 12}
	TEAM_KCC *NFLTeam = &NFLTeam{name: "KCC", loc: "Kansas City", mascot: "Chiefs", short: "KC", espnID: 12, byeWeek: 6}
	TEAM_LVR *NFLTeam = &NFLTeam{name: "LVR", loc: "Las Vegas", mascot: "Raiders", short: "LV", espnID: 13, byeWeek: 10}
	TEAM_LAC *NFLTeam = &NFLTeam{name: "LAC", loc: "Los Angeles", mascot: "Chargers", espnID: 24, byeWeek: 5}
	TEAM_MIA *NFLTeam = &NFLTeam{name: "MIA", loc: "Miami", mascot: "Dolphins", espnID: 15, byeWeek: 6}
	TEAM_NEP *NFLTeam = &NFLTeam{name: "NEP", loc: "New England", mascot: "Patriots", short: "NE", nick: []string{"Pats"}, espnID: 17, byeWeek: 14}
	TEAM_NYJ *NFLTeam = &NFLTeam{name: "NYJ", loc: "New York", mascot: "Jets", espnID: 20, byeWeek: 12}
	TEAM_PIT *NFLTeam = &NFLTeam{name: "PIT", loc: "Pittsburgh", mascot: "Steelers", nick: []string{"Pitt"}, espnID: 23, byeWeek: 9}
	TEAM_TEN *NFLTeam = &NFLTeam{name: "TEN", loc: "Tennessee", mascot: "Titans", espnID: 10, byeWeek: 5}

	teamMap     map[string]*NFLTeam = buildTeamMap()
	espnTeamMap map[int]*NFLTeam    = buildESPNTeamMap()
)

func ParseTeam(name string) *NFLTeam {
	t := teamMap[strings.ToLower(name)]
	if t == nil {
		return TEAM_FA
	}
	return t
}

// TeamForESPNID maps an ESPN proTeamId to the canonical team. ESPN uses
// these numeric ids everywhere in the fantasy v3 payloads.
func TeamForESPNID(id int) *NFLTeam {
	t := espnTeamMap[id]
	if t == nil {
		return TEAM_FA
	}
	return t
}

func allTeams() []*NFLTeam {
	return []*NFLTeam{
		// NFC
		TEAM_ARI, TEAM_ATL, TEAM_CAR, TEAM_CHI, TEAM_DAL, TEAM_DET, TEAM_GBP, TEAM_LAR,
		TEAM_MIN, TEAM_NOS, TEAM_NYG, TEAM_PHI, TEAM_SFO, TEAM_SEA, TEAM_TBB, TEAM_WAS,
		// AFC
		TEAM_BAL, TEAM_BUF, TEAM_CIN, TEAM_CLE, TEAM_DEN, TEAM_HOU, TEAM_IND, TEAM_JAC,
		TEAM_KCC, TEAM_LVR, TEAM_LAC, TEAM_MIA, TEAM_NEP, TEAM_NYJ, TEAM_PIT, TEAM_TEN,
		// Other
		TEAM_FA,
	}
}

func buildTeamMap() map[string]*NFLTeam {
	teamMap := make(map[string]*NFLTeam)
	for _, t := range allTeams() {
		teamMap[strings.ToLower(t.name)] = t

		if t.loc != "" {
			teamMap[strings.ToLower(t.loc)] = t
			// Odds feeds use the full "City Mascot" form.
			teamMap[strings.ToLower(t.Friendly())] = t
		}

		if t.mascot != "" {
			teamMap[strings.ToLower(t.mascot)] = t
		}

		if t.short != "" {
			teamMap[strings.ToLower(t.short)] = t
		}

		for _, n := range t.nick {
			teamMap[strings.ToLower(n)] = t
		}
	}
	return teamMap
}

func buildESPNTeamMap() map[int]*NFLTeam {
	m := make(map[int]*NFLTeam)
	for _, t := range allTeams() {
		if t.espnID != 0 {
			m[t.espnID] = t
		}
	}
	return m
}
