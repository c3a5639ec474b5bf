package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
)

type assignmentRepository struct {
	db *DB
}

var _ classroom.AssignmentRepository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) classroom.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a classroom.Assignment) (classroom.Assignment, error) {
	defer repo.db.lock(ctx)()

	a.ID = repo.db.data.nextID("assignments")
	a.Classes, a.Teams = nil, nil
	repo.db.data.assignments[a.ID] = a
	return a, nil
}

func (repo *assignmentRepository) LinkClass(ctx context.Context, classID, assignmentID int) error {
	defer repo.db.lock(ctx)()

	repo.db.data.classAssignments[pair{classID, assignmentID}] = true
	return nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id int) (*classroom.Assignment, error) {
	defer repo.db.lock(ctx)()

	if a, ok := repo.db.data.assignments[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (repo *assignmentRepository) QueryClassAssignments(ctx context.Context, classID int) ([]classroom.Assignment, error) {
	defer repo.db.lock(ctx)()

	assignments := make([]classroom.Assignment, 0)
	for _, id := range sortedKeys(repo.db.data.assignments) {
		if repo.db.data.classAssignments[pair{classID, id}] {
			assignments = append(assignments, repo.db.data.assignments[id])
		}
	}
	return assignments, nil
}

func (repo *assignmentRepository) QueryAssignmentClasses(ctx context.Context, assignmentID int) ([]classroom.Class, error) {
	defer repo.db.lock(ctx)()

	classes := make([]classroom.Class, 0)
	for _, id := range sortedKeys(repo.db.data.classes) {
		if repo.db.data.classAssignments[pair{id, assignmentID}] {
			classes = append(classes, repo.db.data.classes[id])
		}
	}
	return classes, nil
}

func (repo *assignmentRepository) QueryStudentAssignments(
	ctx context.Context,
	studentID, classID int,
	orderings []core.DBOrdering,
	limit int,
) ([]classroom.Assignment, error) {
	defer repo.db.lock(ctx)()

	assignments := make([]classroom.Assignment, 0)
	for _, id := range sortedKeys(repo.db.data.assignments) {
		if repo.visibleTo(studentID, classID, id) {
			assignments = append(assignments, repo.db.data.assignments[id])
		}
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		for _, ord := range orderings {
			if c := compareAssignments(assignments[i], assignments[j], ord); c != 0 {
				return c < 0
			}
		}
		return assignments[i].ID < assignments[j].ID
	})
	if len(assignments) > limit {
		assignments = assignments[:limit]
	}
	return assignments, nil
}

func (repo *assignmentRepository) visibleTo(studentID, classID, assignmentID int) bool {
	for key := range repo.db.data.classAssignments {
		if key[1] != assignmentID || (classID != 0 && key[0] != classID) {
			continue
		}
		if repo.db.data.classStudents[pair{key[0], studentID}] {
			return true
		}
	}
	return false
}

// compareAssignments orders by one column the way postgres does, nulls placed per ord.NullsLast.
func compareAssignments(a, b classroom.Assignment, ord core.DBOrdering) int {
	var ta, tb *time.Time
	switch ord.Field {
	case "deadline":
		ta, tb = a.Deadline, b.Deadline
	case "created_at":
		ta, tb = &a.CreatedAt, &b.CreatedAt
	case "updated_at":
		ta, tb = &a.UpdatedAt, &b.UpdatedAt
	default:
		return 0
	}

	switch {
	case ta == nil && tb == nil:
		return 0
	case ta == nil || tb == nil:
		aNull := ta == nil
		if ord.NullsLast == aNull {
			return 1
		}
		return -1
	}

	c := ta.Compare(*tb)
	if !ord.Ascending {
		c = -c
	}
	return c
}

func (repo *assignmentRepository) QueryAssignmentStudentIDs(ctx context.Context, assignmentID int) ([]int, error) {
	defer repo.db.lock(ctx)()

	seen := make(map[int]bool)
	ids := make([]int, 0)
	for ca := range repo.db.data.classAssignments {
		if ca[1] != assignmentID {
			continue
		}
		for cs := range repo.db.data.classStudents {
			if cs[0] == ca[0] && !seen[cs[1]] {
				seen[cs[1]] = true
				ids = append(ids, cs[1])
			}
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (repo *assignmentRepository) IsTeacherOfAssignment(ctx context.Context, teacherID, assignmentID int) (bool, error) {
	defer repo.db.lock(ctx)()

	for key := range repo.db.data.classAssignments {
		if key[1] != assignmentID {
			continue
		}
		if c, ok := repo.db.data.classes[key[0]]; ok && c.TeacherID == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, a classroom.Assignment) (classroom.Assignment, error) {
	defer repo.db.lock(ctx)()

	orig, ok := repo.db.data.assignments[a.ID]
	if !ok {
		return classroom.Assignment{}, classroom.ErrAssignmentNotFound
	}
	a.CreatedAt = orig.CreatedAt
	a.Classes, a.Teams = nil, nil
	repo.db.data.assignments[a.ID] = a
	return a, nil
}

func (repo *assignmentRepository) DeleteClassLinks(ctx context.Context, assignmentID int) error {
	defer repo.db.lock(ctx)()

	for key := range repo.db.data.classAssignments {
		if key[1] == assignmentID {
			delete(repo.db.data.classAssignments, key)
		}
	}
	return nil
}

func (repo *assignmentRepository) DeleteTeamLinks(ctx context.Context, assignmentID int) error {
	defer repo.db.lock(ctx)()

	for teamID, aID := range repo.db.data.teamAssignments {
		if aID == assignmentID {
			delete(repo.db.data.teamAssignments, teamID)
		}
	}
	return nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id int) error {
	defer repo.db.lock(ctx)()

	delete(repo.db.data.assignments, id)
	return nil
}
