package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/user"
)

type teamRepository struct {
	base
}

var _ classroom.TeamRepository = (*teamRepository)(nil)

func NewTeamRepository(db *sqlx.DB) classroom.TeamRepository {
	return &teamRepository{base{db: db}}
}

// selectTeams joins teams with their (optional) assignment link.
func selectTeams() sq.SelectBuilder {
	return psql.Select("t.id", "t.team_name", "COALESCE(ta.assignment_id, 0) AS assignment_id", "t.created_at").
		From("teams t").
		LeftJoin("team_assignments ta ON ta.team_id = t.id")
}

func (repo *teamRepository) CreateTeam(ctx context.Context, team classroom.Team) (classroom.Team, error) {
	q := psql.Insert("teams").
		Columns("team_name", "created_at").
		Values(team.TeamName, team.CreatedAt).
		Suffix("RETURNING id")
	if err := repo.get(ctx, &team.ID, q); err != nil {
		return classroom.Team{}, errors.Wrap(err, "inserting team")
	}

	if team.AssignmentID != 0 {
		q := psql.Insert("team_assignments").Columns("team_id", "assignment_id").Values(team.ID, team.AssignmentID)
		if _, err := repo.exec(ctx, q); err != nil {
			return classroom.Team{}, errors.Wrap(err, "inserting team assignment")
		}
	}
	return team, nil
}

func (repo *teamRepository) UpdateTeamName(ctx context.Context, teamID int, name string) error {
	res, err := repo.exec(ctx, psql.Update("teams").Set("team_name", name).Where(sq.Eq{"id": teamID}))
	if err != nil {
		return errors.Wrap(err, "updating team name")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classroom.ErrTeamNotFound
	}
	return nil
}

func (repo *teamRepository) SetTeamStudents(ctx context.Context, teamID int, studentIDs []int) error {
	if _, err := repo.exec(ctx, psql.Delete("team_students").Where(sq.Eq{"team_id": teamID})); err != nil {
		return errors.Wrap(err, "deleting team students")
	}
	if len(studentIDs) == 0 {
		return nil
	}

	q := psql.Insert("team_students").Columns("team_id", "student_id")
	for _, id := range studentIDs {
		q = q.Values(teamID, id)
	}
	_, err := repo.exec(ctx, q)
	return errors.Wrap(err, "inserting team students")
}

func (repo *teamRepository) getTeam(ctx context.Context, q sq.SelectBuilder) (*classroom.Team, error) {
	var team classroom.Team
	if err := repo.get(ctx, &team, q); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "selecting team")
	}
	return &team, nil
}

func (repo *teamRepository) GetTeamByID(ctx context.Context, id int) (*classroom.Team, error) {
	return repo.getTeam(ctx, selectTeams().Where(sq.Eq{"t.id": id}))
}

func (repo *teamRepository) GetStudentTeam(ctx context.Context, studentID, assignmentID int) (*classroom.Team, error) {
	q := selectTeams().
		Join("team_students ts ON ts.team_id = t.id").
		Where(sq.Eq{"ts.student_id": studentID, "ta.assignment_id": assignmentID}).
		OrderBy("t.id").
		Limit(1)
	return repo.getTeam(ctx, q)
}

func (repo *teamRepository) QueryStudentTeams(ctx context.Context, studentID int) ([]classroom.Team, error) {
	teams := make([]classroom.Team, 0)
	q := selectTeams().
		Join("team_students ts ON ts.team_id = t.id").
		Where(sq.Eq{"ts.student_id": studentID}).
		OrderBy("t.id")
	err := repo.selectAll(ctx, &teams, q)
	return teams, errors.Wrap(err, "selecting student teams")
}

func (repo *teamRepository) QueryAssignmentTeams(ctx context.Context, assignmentID int) ([]classroom.Team, error) {
	teams := make([]classroom.Team, 0)
	err := repo.selectAll(ctx, &teams, selectTeams().Where(sq.Eq{"ta.assignment_id": assignmentID}).OrderBy("t.id"))
	return teams, errors.Wrap(err, "selecting assignment teams")
}

func (repo *teamRepository) QueryTeamStudents(ctx context.Context, teamID int) ([]user.Profile, error) {
	students := make([]user.Profile, 0)
	q := psql.Select(profileColumns...).
		From("users u").
		Join("team_students ts ON ts.student_id = u.id").
		Where(sq.Eq{"ts.team_id": teamID}).
		OrderBy("u.id")
	err := repo.selectAll(ctx, &students, q)
	return students, errors.Wrap(err, "selecting team students")
}

func (repo *teamRepository) IsStudentInTeam(ctx context.Context, studentID, teamID int) (bool, error) {
	ok, err := repo.exists(ctx, studentInTeamQuery(studentID, teamID))
	return ok, errors.Wrap(err, "checking team student")
}

func studentInTeamQuery(studentID, teamID int) sq.SelectBuilder {
	return psql.Select("1").From("team_students").Where(sq.Eq{"team_id": teamID, "student_id": studentID})
}

// DeleteTeam must run inside a transaction; question specializations cascade from questions.
func (repo *teamRepository) DeleteTeam(ctx context.Context, id int) error {
	deletes := []struct {
		table string
		where sq.Eq
	}{
		{"team_students", sq.Eq{"team_id": id}},
		{"questions", sq.Eq{"team_id": id}},
		{"team_assignments", sq.Eq{"team_id": id}},
		{"teams", sq.Eq{"id": id}},
	}
	for _, d := range deletes {
		if _, err := repo.exec(ctx, psql.Delete(d.table).Where(d.where)); err != nil {
			return errors.Wrap(err, "deleting from "+d.table)
		}
	}
	return nil
}
