package classroom

import (
	"context"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/learning"
	"github.com/SELab-2/Dwengo-1/core/user"
)

var (
	// errors
	ErrClassNotFound      = core.NewNotFoundError("class not found")
	ErrAssignmentNotFound = core.NewNotFoundError("assignment not found")
	ErrTeamNotFound       = core.NewNotFoundError("team not found")
	ErrStudentNotInClass  = core.NewNotFoundError("student is not a member of this class")
	ErrNotClassMember     = core.NewAccessDeniedError("student is not a member of this class")
	ErrNotClassTeacher    = core.NewAccessDeniedError("you are not the teacher of this class")
	ErrNotAssignmentOwner = core.NewAccessDeniedError("you are not a teacher of this assignment")
	ErrNotTeamMember      = core.NewAccessDeniedError("student is not a member of this team")
	ErrJoinCodeTaken      = core.NewValidationError(nil, core.FieldError{Field: "joinCode", Error: "join code already in use"})
)

type (
	ClassRepository interface {
		// CreateClass returns ErrJoinCodeTaken when the join code is not unique.
		CreateClass(ctx context.Context, class Class) (Class, error)
		// GetClassByID returns ErrClassNotFound when absent; so does GetClassByJoinCode.
		GetClassByID(ctx context.Context, id int) (Class, error)
		GetClassByJoinCode(ctx context.Context, code string) (Class, error)
		QueryTeacherClasses(ctx context.Context, teacherID int) ([]Class, error)
		QueryStudentClasses(ctx context.Context, studentID int) ([]Class, error)
		// UpdateJoinCode returns ErrJoinCodeTaken when the join code is not unique.
		UpdateJoinCode(ctx context.Context, classID int, code string) (Class, error)
		AddStudent(ctx context.Context, classID, studentID int) error
		// RemoveStudent returns ErrStudentNotInClass when there is nothing to remove.
		RemoveStudent(ctx context.Context, classID, studentID int) error
		IsStudentInClass(ctx context.Context, classID, studentID int) (bool, error)
		QueryClassStudents(ctx context.Context, classID int) ([]user.Profile, error)
	}

	AssignmentRepository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		LinkClass(ctx context.Context, classID, assignmentID int) error
		// GetAssignmentByID returns nil without error when absent.
		GetAssignmentByID(ctx context.Context, id int) (*Assignment, error)
		QueryClassAssignments(ctx context.Context, classID int) ([]Assignment, error)
		QueryAssignmentClasses(ctx context.Context, assignmentID int) ([]Class, error)
		// QueryStudentAssignments lists the distinct assignments linked to the student's classes,
		// restricted to classID when it is not 0. Ties are broken by id.
		QueryStudentAssignments(ctx context.Context, studentID, classID int, orderings []core.DBOrdering, limit int) ([]Assignment, error)
		// QueryAssignmentStudentIDs lists the students of all classes linked to the assignment.
		QueryAssignmentStudentIDs(ctx context.Context, assignmentID int) ([]int, error)
		IsTeacherOfAssignment(ctx context.Context, teacherID, assignmentID int) (bool, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		DeleteClassLinks(ctx context.Context, assignmentID int) error
		DeleteTeamLinks(ctx context.Context, assignmentID int) error
		DeleteAssignment(ctx context.Context, id int) error
	}

	TeamRepository interface {
		// CreateTeam stores the team and links it to team.AssignmentID.
		CreateTeam(ctx context.Context, team Team) (Team, error)
		UpdateTeamName(ctx context.Context, teamID int, name string) error
		// SetTeamStudents replaces the members of the team.
		SetTeamStudents(ctx context.Context, teamID int, studentIDs []int) error
		// GetTeamByID and GetStudentTeam return nil without error when absent.
		GetTeamByID(ctx context.Context, id int) (*Team, error)
		GetStudentTeam(ctx context.Context, studentID, assignmentID int) (*Team, error)
		QueryStudentTeams(ctx context.Context, studentID int) ([]Team, error)
		QueryAssignmentTeams(ctx context.Context, assignmentID int) ([]Team, error)
		QueryTeamStudents(ctx context.Context, teamID int) ([]user.Profile, error)
		IsStudentInTeam(ctx context.Context, studentID, teamID int) (bool, error)
		// DeleteTeam removes the team with its members, assignment link and questions.
		DeleteTeam(ctx context.Context, id int) error
	}

	// Store is the data access handle shared by the classroom services.
	Store struct {
		Tx            core.Transactor
		Users         user.Repository
		LearningPaths learning.Repository
		Classes       ClassRepository
		Assignments   AssignmentRepository
		Teams         TeamRepository
	}
)
