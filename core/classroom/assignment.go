package classroom

import (
	"context"

	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
)

var errUnknownLearningPath = core.NewValidationError(nil, core.FieldError{Field: "learningPathId", Error: "learning path not found"})

type AssignmentService struct {
	store Store
}

func NewAssignmentService(store Store) *AssignmentService {
	return &AssignmentService{store: store}
}

// GetAssignmentByID returns nil without error when the assignment does not exist.
func (svc *AssignmentService) GetAssignmentByID(ctx context.Context, id int, includeClass, includeTeams bool) (*Assignment, error) {
	a, err := svc.store.Assignments.GetAssignmentByID(ctx, id)
	if err != nil || a == nil {
		return nil, errors.Wrap(err, "finding assignment")
	}
	if includeClass {
		if a.Classes, err = svc.store.Assignments.QueryAssignmentClasses(ctx, id); err != nil {
			return nil, errors.Wrap(err, "querying assignment classes")
		}
	}
	if includeTeams {
		if a.Teams, err = svc.store.Teams.QueryAssignmentTeams(ctx, id); err != nil {
			return nil, errors.Wrap(err, "querying assignment teams")
		}
		if err = withStudents(ctx, svc.store, a.Teams); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// CreateAssignmentForClass creates the assignment and links it to the teacher's class in one transaction.
func (svc *AssignmentService) CreateAssignmentForClass(ctx context.Context, teacherID, classID int, na NewAssignment) (Assignment, error) {
	class, err := svc.store.Classes.GetClassByID(ctx, classID)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "finding class")
	}
	if class.TeacherID != teacherID {
		return Assignment{}, ErrNotClassTeacher
	}
	if err = svc.checkLearningPath(ctx, na.LearningPathID); err != nil {
		return Assignment{}, err
	}

	now := core.Now()
	a := Assignment{
		Title:          na.Title,
		Description:    na.Description,
		LearningPathID: na.LearningPathID,
		Deadline:       na.Deadline,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = svc.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if a, err = svc.store.Assignments.CreateAssignment(ctx, a); err != nil {
			return errors.Wrap(err, "inserting assignment")
		}
		return errors.Wrap(svc.store.Assignments.LinkClass(ctx, classID, a.ID), "linking class")
	})
	if err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	a.Classes = []Class{class}
	return a, nil
}

func (svc *AssignmentService) GetAssignmentsByClass(ctx context.Context, teacherID, classID int) ([]Assignment, error) {
	class, err := svc.store.Classes.GetClassByID(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "finding class")
	}
	if class.TeacherID != teacherID {
		return nil, ErrNotClassTeacher
	}
	assignments, err := svc.store.Assignments.QueryClassAssignments(ctx, classID)
	return assignments, errors.Wrap(err, "querying class assignments")
}

// UpdateAssignment repoints the assignment to another learning path and applies the optional fields.
func (svc *AssignmentService) UpdateAssignment(ctx context.Context, teacherID, id int, ua UpdateAssignment) (Assignment, error) {
	a, err := svc.getOwnedAssignment(ctx, teacherID, id)
	if err != nil {
		return Assignment{}, err
	}
	if err = svc.checkLearningPath(ctx, ua.LearningPathID); err != nil {
		return Assignment{}, err
	}

	a.LearningPathID = ua.LearningPathID
	if ua.Title != nil {
		a.Title = *ua.Title
	}
	if ua.Description != nil {
		a.Description = core.CleanString(*ua.Description)
	}
	if ua.Deadline != nil {
		a.Deadline = ua.Deadline
	}
	a.UpdatedAt = core.Now()

	updated, err := svc.store.Assignments.UpdateAssignment(ctx, a)
	return updated, errors.Wrap(err, "updating assignment")
}

// DeleteAssignment removes the class links, the team links and the assignment in one transaction.
func (svc *AssignmentService) DeleteAssignment(ctx context.Context, teacherID, id int) error {
	if _, err := svc.getOwnedAssignment(ctx, teacherID, id); err != nil {
		return err
	}
	err := svc.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.store.Assignments.DeleteClassLinks(ctx, id); err != nil {
			return errors.Wrap(err, "deleting class links")
		}
		if err := svc.store.Assignments.DeleteTeamLinks(ctx, id); err != nil {
			return errors.Wrap(err, "deleting team links")
		}
		return errors.Wrap(svc.store.Assignments.DeleteAssignment(ctx, id), "deleting assignment row")
	})
	return errors.Wrap(err, "deleting assignment")
}

func (svc *AssignmentService) getOwnedAssignment(ctx context.Context, teacherID, id int) (Assignment, error) {
	return getOwnedAssignment(ctx, svc.store, teacherID, id)
}

func (svc *AssignmentService) checkLearningPath(ctx context.Context, id int) error {
	lp, err := svc.store.LearningPaths.GetLearningPathByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "finding learning path")
	}
	if lp == nil {
		return errUnknownLearningPath
	}
	return nil
}

// getOwnedAssignment returns ErrAssignmentNotFound or ErrNotAssignmentOwner unless the
// teacher owns a class the assignment is linked to.
func getOwnedAssignment(ctx context.Context, store Store, teacherID, id int) (Assignment, error) {
	a, err := store.Assignments.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "finding assignment")
	}
	if a == nil {
		return Assignment{}, ErrAssignmentNotFound
	}
	owns, err := store.Assignments.IsTeacherOfAssignment(ctx, teacherID, id)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "checking assignment teacher")
	}
	if !owns {
		return Assignment{}, ErrNotAssignmentOwner
	}
	return *a, nil
}

type StudentAssignmentService struct {
	store Store
}

func NewStudentAssignmentService(store Store) *StudentAssignmentService {
	return &StudentAssignmentService{store: store}
}

// GetAssignmentsForStudent lists the assignments of all the student's classes.
func (svc *StudentAssignmentService) GetAssignmentsForStudent(ctx context.Context, studentID int, q AssignmentQuery) ([]Assignment, error) {
	return svc.query(ctx, studentID, 0, q)
}

// GetAssignmentsForStudentInClass lists the assignments of one class the student is a member of.
func (svc *StudentAssignmentService) GetAssignmentsForStudentInClass(ctx context.Context, studentID, classID int, q AssignmentQuery) ([]Assignment, error) {
	if err := svc.IsStudentInClass(ctx, studentID, classID); err != nil {
		return nil, err
	}
	return svc.query(ctx, studentID, classID, q)
}

// IsStudentInClass fails with an access denied error when the student is not a member.
func (svc *StudentAssignmentService) IsStudentInClass(ctx context.Context, studentID, classID int) error {
	return isStudentInClass(ctx, svc.store, studentID, classID)
}

func (svc *StudentAssignmentService) query(ctx context.Context, studentID, classID int, q AssignmentQuery) ([]Assignment, error) {
	limit, err := q.LimitValue()
	if err != nil {
		return nil, err
	}
	assignments, err := svc.store.Assignments.QueryStudentAssignments(ctx, studentID, classID, q.Orderings(), limit)
	return assignments, errors.Wrap(err, "querying student assignments")
}
