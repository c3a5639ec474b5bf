package inmemdb

import (
	"context"

	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/user"
)

type classRepository struct {
	db *DB
}

var _ classroom.ClassRepository = (*classRepository)(nil)

func NewClassRepository(db *DB) classroom.ClassRepository {
	return &classRepository{db: db}
}

func (repo *classRepository) joinCodeTaken(code string, exclID int) bool {
	for _, c := range repo.db.data.classes {
		if c.JoinCode == code && c.ID != exclID {
			return true
		}
	}
	return false
}

func (repo *classRepository) CreateClass(ctx context.Context, class classroom.Class) (classroom.Class, error) {
	defer repo.db.lock(ctx)()

	if repo.joinCodeTaken(class.JoinCode, 0) {
		return classroom.Class{}, classroom.ErrJoinCodeTaken
	}
	class.ID = repo.db.data.nextID("classes")
	repo.db.data.classes[class.ID] = class
	return class, nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id int) (classroom.Class, error) {
	defer repo.db.lock(ctx)()

	if c, ok := repo.db.data.classes[id]; ok {
		return c, nil
	}
	return classroom.Class{}, classroom.ErrClassNotFound
}

func (repo *classRepository) GetClassByJoinCode(ctx context.Context, code string) (classroom.Class, error) {
	defer repo.db.lock(ctx)()

	for _, c := range repo.db.data.classes {
		if c.JoinCode == code {
			return c, nil
		}
	}
	return classroom.Class{}, classroom.ErrClassNotFound
}

func (repo *classRepository) QueryTeacherClasses(ctx context.Context, teacherID int) ([]classroom.Class, error) {
	defer repo.db.lock(ctx)()

	classes := make([]classroom.Class, 0)
	for _, id := range sortedKeys(repo.db.data.classes) {
		if c := repo.db.data.classes[id]; c.TeacherID == teacherID {
			classes = append(classes, c)
		}
	}
	return classes, nil
}

func (repo *classRepository) QueryStudentClasses(ctx context.Context, studentID int) ([]classroom.Class, error) {
	defer repo.db.lock(ctx)()

	classes := make([]classroom.Class, 0)
	for _, id := range sortedKeys(repo.db.data.classes) {
		if repo.db.data.classStudents[pair{id, studentID}] {
			classes = append(classes, repo.db.data.classes[id])
		}
	}
	return classes, nil
}

func (repo *classRepository) UpdateJoinCode(ctx context.Context, classID int, code string) (classroom.Class, error) {
	defer repo.db.lock(ctx)()

	c, ok := repo.db.data.classes[classID]
	if !ok {
		return classroom.Class{}, classroom.ErrClassNotFound
	}
	if repo.joinCodeTaken(code, classID) {
		return classroom.Class{}, classroom.ErrJoinCodeTaken
	}
	c.JoinCode = code
	repo.db.data.classes[classID] = c
	return c, nil
}

func (repo *classRepository) AddStudent(ctx context.Context, classID, studentID int) error {
	defer repo.db.lock(ctx)()

	repo.db.data.classStudents[pair{classID, studentID}] = true
	return nil
}

func (repo *classRepository) RemoveStudent(ctx context.Context, classID, studentID int) error {
	defer repo.db.lock(ctx)()

	key := pair{classID, studentID}
	if !repo.db.data.classStudents[key] {
		return classroom.ErrStudentNotInClass
	}
	delete(repo.db.data.classStudents, key)
	return nil
}

func (repo *classRepository) IsStudentInClass(ctx context.Context, classID, studentID int) (bool, error) {
	defer repo.db.lock(ctx)()
	return repo.db.data.classStudents[pair{classID, studentID}], nil
}

func (repo *classRepository) QueryClassStudents(ctx context.Context, classID int) ([]user.Profile, error) {
	defer repo.db.lock(ctx)()

	var ids []int
	for key := range repo.db.data.classStudents {
		if key[0] == classID {
			ids = append(ids, key[1])
		}
	}
	return repo.db.profiles(ids), nil
}
