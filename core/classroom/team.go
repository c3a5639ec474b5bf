package classroom

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
)

var errInvalidDivision = errors.New("invalid team division")

type StudentTeamService struct {
	store Store
}

func NewStudentTeamService(store Store) *StudentTeamService {
	return &StudentTeamService{store: store}
}

// GetStudentTeams lists the student's teams with their assignment.
func (svc *StudentTeamService) GetStudentTeams(ctx context.Context, studentID int) ([]Team, error) {
	teams, err := svc.store.Teams.QueryStudentTeams(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying student teams")
	}
	for i := range teams {
		if teams[i].AssignmentID == 0 {
			continue
		}
		if teams[i].Assignment, err = svc.store.Assignments.GetAssignmentByID(ctx, teams[i].AssignmentID); err != nil {
			return nil, errors.Wrap(err, "finding team assignment")
		}
	}
	return teams, nil
}

// GetTeam returns the student's team for the assignment, or nil when the student has none yet.
func (svc *StudentTeamService) GetTeam(ctx context.Context, studentID, assignmentID int) (*Team, error) {
	team, err := svc.store.Teams.GetStudentTeam(ctx, studentID, assignmentID)
	if err != nil || team == nil {
		return nil, errors.Wrap(err, "finding student team")
	}
	if team.Students, err = svc.store.Teams.QueryTeamStudents(ctx, team.ID); err != nil {
		return nil, errors.Wrap(err, "querying team students")
	}
	return team, nil
}

// GetTeamByID returns the team with its members, or nil.
func (svc *StudentTeamService) GetTeamByID(ctx context.Context, teamID int) (*Team, error) {
	team, err := svc.store.Teams.GetTeamByID(ctx, teamID)
	if err != nil || team == nil {
		return nil, errors.Wrap(err, "finding team")
	}
	if team.Students, err = svc.store.Teams.QueryTeamStudents(ctx, team.ID); err != nil {
		return nil, errors.Wrap(err, "querying team students")
	}
	return team, nil
}

// CheckMember fails with an access denied error unless the student is in the team.
func (svc *StudentTeamService) CheckMember(ctx context.Context, studentID, teamID int) error {
	return CheckTeamMember(ctx, svc.store, studentID, teamID)
}

type TeacherTeamsService struct {
	store Store
}

func NewTeacherTeamsService(store Store) *TeacherTeamsService {
	return &TeacherTeamsService{store: store}
}

func (svc *TeacherTeamsService) GetTeamsThatHaveAssignment(ctx context.Context, teacherID, assignmentID int) ([]Team, error) {
	if _, err := getOwnedAssignment(ctx, svc.store, teacherID, assignmentID); err != nil {
		return nil, err
	}
	teams, err := svc.store.Teams.QueryAssignmentTeams(ctx, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignment teams")
	}
	return teams, withStudents(ctx, svc.store, teams)
}

// CreateTeamsInAssignment adds the teams of the division to the assignment in one transaction.
func (svc *TeacherTeamsService) CreateTeamsInAssignment(ctx context.Context, teacherID, assignmentID int, div NewTeamDivision) ([]Team, error) {
	if _, err := getOwnedAssignment(ctx, svc.store, teacherID, assignmentID); err != nil {
		return nil, err
	}
	members := make([][]int, len(div.Teams))
	for i, nt := range div.Teams {
		members[i] = nt.StudentIDs
	}
	if err := svc.checkDivision(ctx, assignmentID, members); err != nil {
		return nil, err
	}

	now := core.Now()
	teams := make([]Team, 0, len(div.Teams))
	err := svc.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, nt := range div.Teams {
			team, err := svc.store.Teams.CreateTeam(ctx, Team{TeamName: nt.TeamName, AssignmentID: assignmentID, CreatedAt: now})
			if err != nil {
				return errors.Wrap(err, "inserting team")
			}
			if err = svc.store.Teams.SetTeamStudents(ctx, team.ID, nt.StudentIDs); err != nil {
				return errors.Wrap(err, "setting team students")
			}
			teams = append(teams, team)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating teams")
	}
	return teams, withStudents(ctx, svc.store, teams)
}

// UpdateTeamsForAssignment makes the division the assignment's full set of teams:
// listed teams are renamed and get their members replaced, unlisted teams are deleted.
func (svc *TeacherTeamsService) UpdateTeamsForAssignment(ctx context.Context, teacherID, assignmentID int, div IdentifiableTeamDivision) ([]Team, error) {
	if _, err := getOwnedAssignment(ctx, svc.store, teacherID, assignmentID); err != nil {
		return nil, err
	}
	existing, err := svc.store.Teams.QueryAssignmentTeams(ctx, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignment teams")
	}
	unlisted := make(map[int]bool, len(existing))
	for _, team := range existing {
		unlisted[team.ID] = true
	}

	var fldErrs []core.FieldError
	members := make([][]int, len(div.Teams))
	for i, it := range div.Teams {
		if !unlisted[it.TeamID] {
			fldErrs = append(fldErrs, core.FieldError{
				Field: fmt.Sprintf("teams[%d].teamId", i),
				Error: "team does not belong to this assignment",
			})
		}
		delete(unlisted, it.TeamID)
		members[i] = it.StudentIDs
	}
	if len(fldErrs) > 0 {
		return nil, core.NewValidationError(errInvalidDivision, fldErrs...)
	}
	if err = svc.checkDivision(ctx, assignmentID, members); err != nil {
		return nil, err
	}

	err = svc.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, it := range div.Teams {
			if err := svc.store.Teams.UpdateTeamName(ctx, it.TeamID, it.TeamName); err != nil {
				return errors.Wrap(err, "renaming team")
			}
			if err := svc.store.Teams.SetTeamStudents(ctx, it.TeamID, it.StudentIDs); err != nil {
				return errors.Wrap(err, "setting team students")
			}
		}
		for teamID := range unlisted {
			if err := svc.store.Teams.DeleteTeam(ctx, teamID); err != nil {
				return errors.Wrap(err, "deleting unlisted team")
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "updating teams")
	}
	return svc.GetTeamsThatHaveAssignment(ctx, teacherID, assignmentID)
}

// DeleteTeam removes a team of one of the teacher's assignments.
func (svc *TeacherTeamsService) DeleteTeam(ctx context.Context, teacherID, teamID int) error {
	if err := svc.CheckTeacher(ctx, teacherID, teamID); err != nil {
		return err
	}
	err := svc.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return svc.store.Teams.DeleteTeam(ctx, teamID)
	})
	return errors.Wrap(err, "deleting team")
}

// CheckTeacher fails unless the team exists and belongs to an assignment of the teacher.
func (svc *TeacherTeamsService) CheckTeacher(ctx context.Context, teacherID, teamID int) error {
	team, err := svc.store.Teams.GetTeamByID(ctx, teamID)
	if err != nil {
		return errors.Wrap(err, "finding team")
	}
	if team == nil {
		return ErrTeamNotFound
	}
	if team.AssignmentID == 0 {
		return ErrNotAssignmentOwner
	}
	_, err = getOwnedAssignment(ctx, svc.store, teacherID, team.AssignmentID)
	return err
}

// checkDivision requires every student to be in a class of the assignment and in at most one team.
func (svc *TeacherTeamsService) checkDivision(ctx context.Context, assignmentID int, members [][]int) error {
	ids, err := svc.store.Assignments.QueryAssignmentStudentIDs(ctx, assignmentID)
	if err != nil {
		return errors.Wrap(err, "querying assignment students")
	}
	eligible := make(map[int]bool, len(ids))
	for _, id := range ids {
		eligible[id] = true
	}

	var fldErrs []core.FieldError
	seen := make(map[int]bool)
	for i, studentIDs := range members {
		field := fmt.Sprintf("teams[%d].studentIds", i)
		inTeam := make(map[int]bool, len(studentIDs))
		for _, id := range studentIDs {
			switch {
			case !eligible[id]:
				fldErrs = append(fldErrs, core.FieldError{Field: field, Error: fmt.Sprintf("student %d is not in a class of this assignment", id)})
			case inTeam[id]:
				fldErrs = append(fldErrs, core.FieldError{Field: field, Error: fmt.Sprintf("student %d is listed more than once", id)})
			case seen[id]:
				fldErrs = append(fldErrs, core.FieldError{Field: field, Error: fmt.Sprintf("student %d appears in more than one team", id)})
			}
			inTeam[id] = true
			seen[id] = true
		}
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(errInvalidDivision, fldErrs...)
	}
	return nil
}

// CheckTeamMember fails with ErrTeamNotFound or ErrNotTeamMember unless the student is in the team.
func CheckTeamMember(ctx context.Context, store Store, studentID, teamID int) error {
	team, err := store.Teams.GetTeamByID(ctx, teamID)
	if err != nil {
		return errors.Wrap(err, "finding team")
	}
	if team == nil {
		return ErrTeamNotFound
	}
	ok, err := store.Teams.IsStudentInTeam(ctx, studentID, teamID)
	if err != nil {
		return errors.Wrap(err, "checking team membership")
	}
	if !ok {
		return ErrNotTeamMember
	}
	return nil
}

func withStudents(ctx context.Context, store Store, teams []Team) error {
	for i := range teams {
		students, err := store.Teams.QueryTeamStudents(ctx, teams[i].ID)
		if err != nil {
			return errors.Wrap(err, "querying team students")
		}
		teams[i].Students = students
	}
	return nil
}
