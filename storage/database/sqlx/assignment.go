package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
)

var assignmentColumns = []string{"id", "title", "description", "learning_path_id", "deadline", "created_at", "updated_at"}

type assignmentRepository struct {
	base
}

var _ classroom.AssignmentRepository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *sqlx.DB) classroom.AssignmentRepository {
	return &assignmentRepository{base{db: db}}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a classroom.Assignment) (classroom.Assignment, error) {
	q := psql.Insert("assignments").
		Columns("title", "description", "learning_path_id", "deadline", "created_at", "updated_at").
		Values(a.Title, a.Description, a.LearningPathID, a.Deadline, a.CreatedAt, a.UpdatedAt).
		Suffix("RETURNING id")
	err := repo.get(ctx, &a.ID, q)
	return a, errors.Wrap(err, "inserting assignment")
}

func (repo *assignmentRepository) LinkClass(ctx context.Context, classID, assignmentID int) error {
	q := psql.Insert("class_assignments").
		Columns("class_id", "assignment_id").
		Values(classID, assignmentID).
		Suffix("ON CONFLICT DO NOTHING")
	_, err := repo.exec(ctx, q)
	return errors.Wrap(err, "inserting class assignment")
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id int) (*classroom.Assignment, error) {
	var a classroom.Assignment
	if err := repo.get(ctx, &a, psql.Select(assignmentColumns...).From("assignments").Where(sq.Eq{"id": id})); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "selecting assignment")
	}
	return &a, nil
}

func (repo *assignmentRepository) QueryClassAssignments(ctx context.Context, classID int) ([]classroom.Assignment, error) {
	assignments := make([]classroom.Assignment, 0)
	q := psql.Select(prefixed("a", assignmentColumns)...).
		From("assignments a").
		Join("class_assignments ca ON ca.assignment_id = a.id").
		Where(sq.Eq{"ca.class_id": classID}).
		OrderBy("a.id")
	err := repo.selectAll(ctx, &assignments, q)
	return assignments, errors.Wrap(err, "selecting class assignments")
}

func (repo *assignmentRepository) QueryAssignmentClasses(ctx context.Context, assignmentID int) ([]classroom.Class, error) {
	classes := make([]classroom.Class, 0)
	q := psql.Select(prefixed("c", classColumns)...).
		From("classes c").
		Join("class_assignments ca ON ca.class_id = c.id").
		Where(sq.Eq{"ca.assignment_id": assignmentID}).
		OrderBy("c.id")
	err := repo.selectAll(ctx, &classes, q)
	return classes, errors.Wrap(err, "selecting assignment classes")
}

// studentAssignmentsQuery selects the distinct assignments linked to a class the student belongs to.
// orderings must only hold whitelisted columns.
func studentAssignmentsQuery(studentID, classID int, orderings []core.DBOrdering, limit int) sq.SelectBuilder {
	q := psql.Select(prefixed("a", assignmentColumns)...).
		Distinct().
		From("assignments a").
		Join("class_assignments ca ON ca.assignment_id = a.id").
		Join("class_students cs ON cs.class_id = ca.class_id").
		Where(sq.Eq{"cs.student_id": studentID})
	if classID != 0 {
		q = q.Where(sq.Eq{"ca.class_id": classID})
	}

	orderBys := make([]string, 0, len(orderings)+1)
	for _, ord := range orderings {
		ord.Field = "a." + ord.Field
		orderBys = append(orderBys, ord.String())
	}
	orderBys = append(orderBys, "a.id ASC")
	return q.OrderBy(orderBys...).Limit(uint64(limit))
}

func (repo *assignmentRepository) QueryStudentAssignments(
	ctx context.Context,
	studentID, classID int,
	orderings []core.DBOrdering,
	limit int,
) ([]classroom.Assignment, error) {
	assignments := make([]classroom.Assignment, 0)
	err := repo.selectAll(ctx, &assignments, studentAssignmentsQuery(studentID, classID, orderings, limit))
	return assignments, errors.Wrap(err, "selecting student assignments")
}

func (repo *assignmentRepository) QueryAssignmentStudentIDs(ctx context.Context, assignmentID int) ([]int, error) {
	ids := make([]int, 0)
	q := psql.Select("cs.student_id").
		Distinct().
		From("class_assignments ca").
		Join("class_students cs ON cs.class_id = ca.class_id").
		Where(sq.Eq{"ca.assignment_id": assignmentID}).
		OrderBy("cs.student_id")
	err := repo.selectAll(ctx, &ids, q)
	return ids, errors.Wrap(err, "selecting assignment students")
}

func (repo *assignmentRepository) IsTeacherOfAssignment(ctx context.Context, teacherID, assignmentID int) (bool, error) {
	q := psql.Select("1").
		From("class_assignments ca").
		Join("classes c ON c.id = ca.class_id").
		Where(sq.Eq{"ca.assignment_id": assignmentID, "c.teacher_id": teacherID})
	ok, err := repo.exists(ctx, q)
	return ok, errors.Wrap(err, "checking assignment teacher")
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, a classroom.Assignment) (classroom.Assignment, error) {
	q := psql.Update("assignments").
		SetMap(map[string]interface{}{
			"title":            a.Title,
			"description":      a.Description,
			"learning_path_id": a.LearningPathID,
			"deadline":         a.Deadline,
			"updated_at":       a.UpdatedAt,
		}).
		Where(sq.Eq{"id": a.ID}).
		Suffix("RETURNING " + joinColumns(assignmentColumns))

	var updated classroom.Assignment
	if err := repo.get(ctx, &updated, q); err != nil {
		if isNoRows(err) {
			return classroom.Assignment{}, classroom.ErrAssignmentNotFound
		}
		return classroom.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return updated, nil
}

func (repo *assignmentRepository) DeleteClassLinks(ctx context.Context, assignmentID int) error {
	_, err := repo.exec(ctx, psql.Delete("class_assignments").Where(sq.Eq{"assignment_id": assignmentID}))
	return errors.Wrap(err, "deleting class assignments")
}

func (repo *assignmentRepository) DeleteTeamLinks(ctx context.Context, assignmentID int) error {
	_, err := repo.exec(ctx, psql.Delete("team_assignments").Where(sq.Eq{"assignment_id": assignmentID}))
	return errors.Wrap(err, "deleting team assignments")
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id int) error {
	_, err := repo.exec(ctx, psql.Delete("assignments").Where(sq.Eq{"id": id}))
	return errors.Wrap(err, "deleting assignment")
}
