package service

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aidar/wfm-roster/internal/domain"
)

// TeamService resolves teams from the canonical registry and the team copies
// embedded in employee records.
type TeamService struct {
	store *Store
}

// NewTeamService creates a new TeamService
func NewTeamService(store *Store) *TeamService {
	return &TeamService{store: store}
}

// ListTeams returns registry teams merged with teams only known from employees,
// ordered by name.
func (s *TeamService) ListTeams() []domain.Team {
	return teamsOf(s.store.Snapshot())
}

// GetTeam resolves a team by id.
func (s *TeamService) GetTeam(teamID string) (domain.Team, error) {
	return resolveTeam(s.store.Snapshot(), teamID)
}

func teamsOf(snap *Snapshot) []domain.Team {
	seen := make(map[string]struct{}, len(snap.Teams))
	teams := make([]domain.Team, 0, len(snap.Teams))
	for _, team := range snap.Teams {
		seen[team.ID] = struct{}{}
		teams = append(teams, team)
	}
	for _, emp := range snap.Employees {
		team := emp.WorkInfo.Team
		if team.ID == "" {
			continue
		}
		if _, ok := seen[team.ID]; ok {
			continue
		}
		seen[team.ID] = struct{}{}
		teams = append(teams, team)
	}

	coll := collate.New(language.Russian)
	slices.SortStableFunc(teams, func(a, b domain.Team) int {
		return coll.CompareString(a.Name, b.Name)
	})
	return teams
}

// resolveTeam prefers the registry entry over employee copies, which may be stale.
func resolveTeam(snap *Snapshot, teamID string) (domain.Team, error) {
	if teamID == "" {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	for _, team := range snap.Teams {
		if team.ID == teamID {
			return team, nil
		}
	}
	for _, emp := range snap.Employees {
		if emp.WorkInfo.Team.ID == teamID {
			return emp.WorkInfo.Team, nil
		}
	}
	return domain.Team{}, domain.ErrTeamNotFound
}
