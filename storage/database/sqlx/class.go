package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/user"
)

var classColumns = []string{"id", "name", "join_code", "teacher_id", "created_at", "updated_at"}

type classRepository struct {
	base
}

var _ classroom.ClassRepository = (*classRepository)(nil)

func NewClassRepository(db *sqlx.DB) classroom.ClassRepository {
	return &classRepository{base{db: db}}
}

func (repo *classRepository) CreateClass(ctx context.Context, class classroom.Class) (classroom.Class, error) {
	q := psql.Insert("classes").
		Columns("name", "join_code", "teacher_id", "created_at", "updated_at").
		Values(class.Name, class.JoinCode, class.TeacherID, class.CreatedAt, class.UpdatedAt).
		Suffix("RETURNING id")
	if err := repo.get(ctx, &class.ID, q); err != nil {
		if isUniqueViolation(err) {
			return classroom.Class{}, classroom.ErrJoinCodeTaken
		}
		return classroom.Class{}, errors.Wrap(err, "inserting class")
	}
	return class, nil
}

func (repo *classRepository) getClass(ctx context.Context, where sq.Eq) (classroom.Class, error) {
	var class classroom.Class
	if err := repo.get(ctx, &class, psql.Select(classColumns...).From("classes").Where(where)); err != nil {
		if isNoRows(err) {
			return classroom.Class{}, classroom.ErrClassNotFound
		}
		return classroom.Class{}, errors.Wrap(err, "selecting class")
	}
	return class, nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id int) (classroom.Class, error) {
	return repo.getClass(ctx, sq.Eq{"id": id})
}

func (repo *classRepository) GetClassByJoinCode(ctx context.Context, code string) (classroom.Class, error) {
	return repo.getClass(ctx, sq.Eq{"join_code": code})
}

func (repo *classRepository) QueryTeacherClasses(ctx context.Context, teacherID int) ([]classroom.Class, error) {
	classes := make([]classroom.Class, 0)
	q := psql.Select(classColumns...).From("classes").Where(sq.Eq{"teacher_id": teacherID}).OrderBy("id")
	err := repo.selectAll(ctx, &classes, q)
	return classes, errors.Wrap(err, "selecting teacher classes")
}

func (repo *classRepository) QueryStudentClasses(ctx context.Context, studentID int) ([]classroom.Class, error) {
	classes := make([]classroom.Class, 0)
	q := psql.Select(prefixed("c", classColumns)...).
		From("classes c").
		Join("class_students cs ON cs.class_id = c.id").
		Where(sq.Eq{"cs.student_id": studentID}).
		OrderBy("c.id")
	err := repo.selectAll(ctx, &classes, q)
	return classes, errors.Wrap(err, "selecting student classes")
}

func (repo *classRepository) UpdateJoinCode(ctx context.Context, classID int, code string) (classroom.Class, error) {
	q := psql.Update("classes").
		Set("join_code", code).
		Where(sq.Eq{"id": classID}).
		Suffix("RETURNING " + joinColumns(classColumns))

	var class classroom.Class
	if err := repo.get(ctx, &class, q); err != nil {
		switch {
		case isNoRows(err):
			return classroom.Class{}, classroom.ErrClassNotFound
		case isUniqueViolation(err):
			return classroom.Class{}, classroom.ErrJoinCodeTaken
		}
		return classroom.Class{}, errors.Wrap(err, "updating join code")
	}
	return class, nil
}

func (repo *classRepository) AddStudent(ctx context.Context, classID, studentID int) error {
	q := psql.Insert("class_students").
		Columns("class_id", "student_id").
		Values(classID, studentID).
		Suffix("ON CONFLICT DO NOTHING")
	_, err := repo.exec(ctx, q)
	return errors.Wrap(err, "inserting class student")
}

func (repo *classRepository) RemoveStudent(ctx context.Context, classID, studentID int) error {
	res, err := repo.exec(ctx, psql.Delete("class_students").Where(sq.Eq{"class_id": classID, "student_id": studentID}))
	if err != nil {
		return errors.Wrap(err, "deleting class student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classroom.ErrStudentNotInClass
	}
	return nil
}

func (repo *classRepository) IsStudentInClass(ctx context.Context, classID, studentID int) (bool, error) {
	q := psql.Select("1").From("class_students").Where(sq.Eq{"class_id": classID, "student_id": studentID})
	ok, err := repo.exists(ctx, q)
	return ok, errors.Wrap(err, "checking class student")
}

func (repo *classRepository) QueryClassStudents(ctx context.Context, classID int) ([]user.Profile, error) {
	students := make([]user.Profile, 0)
	q := psql.Select(profileColumns...).
		From("users u").
		Join("class_students cs ON cs.student_id = u.id").
		Where(sq.Eq{"cs.class_id": classID}).
		OrderBy("u.id")
	err := repo.selectAll(ctx, &students, q)
	return students, errors.Wrap(err, "selecting class students")
}
