package inmemdb

import (
	"context"
	"sort"
	"sync"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/learning"
	"github.com/SELab-2/Dwengo-1/core/question"
	"github.com/SELab-2/Dwengo-1/core/user"
)

type (
	// pair is a row of a join table, e.g. {classID, studentID}.
	pair [2]int

	tables struct {
		seq              map[string]int
		users            map[int]user.User
		learningPaths    map[int]learning.LearningPath
		learningObjects  map[int]learning.LearningObject
		classes          map[int]classroom.Class
		classStudents    map[pair]bool // {classID, studentID}
		assignments      map[int]classroom.Assignment
		classAssignments map[pair]bool // {classID, assignmentID}
		teams            map[int]classroom.Team
		teamAssignments  map[int]int   // teamID: assignmentID
		teamStudents     map[pair]bool // {teamID, studentID}
		questions        map[int]question.Question
	}

	// DB is an in-memory stand-in for the postgres database, used in tests and local runs.
	// Transactions hold the lock for their whole duration and roll back by restoring a snapshot.
	DB struct {
		mu   sync.Mutex
		data *tables
	}

	txKey struct{}
)

var _ core.Transactor = (*DB)(nil)

func Open() *DB {
	return &DB{data: newTables()}
}

func newTables() *tables {
	return &tables{
		seq:              make(map[string]int),
		users:            make(map[int]user.User),
		learningPaths:    make(map[int]learning.LearningPath),
		learningObjects:  make(map[int]learning.LearningObject),
		classes:          make(map[int]classroom.Class),
		classStudents:    make(map[pair]bool),
		assignments:      make(map[int]classroom.Assignment),
		classAssignments: make(map[pair]bool),
		teams:            make(map[int]classroom.Team),
		teamAssignments:  make(map[int]int),
		teamStudents:     make(map[pair]bool),
		questions:        make(map[int]question.Question),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.seq {
		c.seq[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.learningPaths {
		c.learningPaths[k] = v
	}
	for k, v := range t.learningObjects {
		c.learningObjects[k] = v
	}
	for k, v := range t.classes {
		c.classes[k] = v
	}
	for k, v := range t.classStudents {
		c.classStudents[k] = v
	}
	for k, v := range t.assignments {
		c.assignments[k] = v
	}
	for k, v := range t.classAssignments {
		c.classAssignments[k] = v
	}
	for k, v := range t.teams {
		c.teams[k] = v
	}
	for k, v := range t.teamAssignments {
		c.teamAssignments[k] = v
	}
	for k, v := range t.teamStudents {
		c.teamStudents[k] = v
	}
	for k, v := range t.questions {
		c.questions[k] = v
	}
	return c
}

func (t *tables) nextID(table string) int {
	t.seq[table]++
	return t.seq[table]
}

// Reset drops all data.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data = newTables()
}

func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if db.inTx(ctx) {
		return fn(ctx)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	snapshot := db.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, db)); err != nil {
		db.data = snapshot
		return err
	}
	return nil
}

func (db *DB) inTx(ctx context.Context) bool {
	txDB, ok := ctx.Value(txKey{}).(*DB)
	return ok && txDB == db
}

// lock takes the lock unless ctx runs inside one of db's transactions, which already holds it.
func (db *DB) lock(ctx context.Context) func() {
	if db.inTx(ctx) {
		return func() {}
	}
	db.mu.Lock()
	return db.mu.Unlock
}

func (db *DB) profiles(ids []int) []user.Profile {
	sort.Ints(ids)
	profiles := make([]user.Profile, 0, len(ids))
	for _, id := range ids {
		if usr, ok := db.data.users[id]; ok {
			profiles = append(profiles, usr.Profile())
		}
	}
	return profiles
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// NewStore bundles the in-memory repositories into a classroom.Store.
func NewStore(db *DB) classroom.Store {
	return classroom.Store{
		Tx:            db,
		Users:         NewUserRepository(db),
		LearningPaths: NewLearningRepository(db),
		Classes:       NewClassRepository(db),
		Assignments:   NewAssignmentRepository(db),
		Teams:         NewTeamRepository(db),
	}
}
