package inmemdb

import (
	"context"

	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/user"
)

type teamRepository struct {
	db *DB
}

var _ classroom.TeamRepository = (*teamRepository)(nil)

func NewTeamRepository(db *DB) classroom.TeamRepository {
	return &teamRepository{db: db}
}

// get joins the team with its assignment link.
func (repo *teamRepository) get(id int) (classroom.Team, bool) {
	team, ok := repo.db.data.teams[id]
	if ok {
		team.AssignmentID = repo.db.data.teamAssignments[id]
	}
	return team, ok
}

func (repo *teamRepository) CreateTeam(ctx context.Context, team classroom.Team) (classroom.Team, error) {
	defer repo.db.lock(ctx)()

	team.ID = repo.db.data.nextID("teams")
	team.Students, team.Assignment = nil, nil
	repo.db.data.teams[team.ID] = team
	if team.AssignmentID != 0 {
		repo.db.data.teamAssignments[team.ID] = team.AssignmentID
	}
	return team, nil
}

func (repo *teamRepository) UpdateTeamName(ctx context.Context, teamID int, name string) error {
	defer repo.db.lock(ctx)()

	team, ok := repo.db.data.teams[teamID]
	if !ok {
		return classroom.ErrTeamNotFound
	}
	team.TeamName = name
	repo.db.data.teams[teamID] = team
	return nil
}

func (repo *teamRepository) SetTeamStudents(ctx context.Context, teamID int, studentIDs []int) error {
	defer repo.db.lock(ctx)()

	for key := range repo.db.data.teamStudents {
		if key[0] == teamID {
			delete(repo.db.data.teamStudents, key)
		}
	}
	for _, id := range studentIDs {
		repo.db.data.teamStudents[pair{teamID, id}] = true
	}
	return nil
}

func (repo *teamRepository) GetTeamByID(ctx context.Context, id int) (*classroom.Team, error) {
	defer repo.db.lock(ctx)()

	if team, ok := repo.get(id); ok {
		return &team, nil
	}
	return nil, nil
}

func (repo *teamRepository) GetStudentTeam(ctx context.Context, studentID, assignmentID int) (*classroom.Team, error) {
	defer repo.db.lock(ctx)()

	for _, id := range sortedKeys(repo.db.data.teams) {
		if repo.db.data.teamAssignments[id] == assignmentID && repo.db.data.teamStudents[pair{id, studentID}] {
			team, _ := repo.get(id)
			return &team, nil
		}
	}
	return nil, nil
}

func (repo *teamRepository) QueryStudentTeams(ctx context.Context, studentID int) ([]classroom.Team, error) {
	defer repo.db.lock(ctx)()

	teams := make([]classroom.Team, 0)
	for _, id := range sortedKeys(repo.db.data.teams) {
		if repo.db.data.teamStudents[pair{id, studentID}] {
			team, _ := repo.get(id)
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (repo *teamRepository) QueryAssignmentTeams(ctx context.Context, assignmentID int) ([]classroom.Team, error) {
	defer repo.db.lock(ctx)()

	teams := make([]classroom.Team, 0)
	for _, id := range sortedKeys(repo.db.data.teams) {
		if repo.db.data.teamAssignments[id] == assignmentID {
			team, _ := repo.get(id)
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (repo *teamRepository) QueryTeamStudents(ctx context.Context, teamID int) ([]user.Profile, error) {
	defer repo.db.lock(ctx)()

	var ids []int
	for key := range repo.db.data.teamStudents {
		if key[0] == teamID {
			ids = append(ids, key[1])
		}
	}
	return repo.db.profiles(ids), nil
}

func (repo *teamRepository) IsStudentInTeam(ctx context.Context, studentID, teamID int) (bool, error) {
	defer repo.db.lock(ctx)()
	return repo.db.data.teamStudents[pair{teamID, studentID}], nil
}

func (repo *teamRepository) DeleteTeam(ctx context.Context, id int) error {
	defer repo.db.lock(ctx)()

	for key := range repo.db.data.teamStudents {
		if key[0] == id {
			delete(repo.db.data.teamStudents, key)
		}
	}
	for qID, q := range repo.db.data.questions {
		if q.TeamID == id {
			delete(repo.db.data.questions, qID)
		}
	}
	delete(repo.db.data.teamAssignments, id)
	delete(repo.db.data.teams, id)
	return nil
}
