package classroom_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/user"
	"github.com/SELab-2/Dwengo-1/services/email"
	"github.com/SELab-2/Dwengo-1/storage/database/inmem"
	"github.com/SELab-2/Dwengo-1/tests"
)

var errBoom = errors.New("boom")

func newStore() classroom.Store {
	return inmemdb.NewStore(inmemdb.Open())
}

// takenCodes rejects the first n join codes.
type takenCodes struct {
	classroom.ClassRepository
	n     int
	tried []string
}

func (repo *takenCodes) CreateClass(ctx context.Context, class classroom.Class) (classroom.Class, error) {
	repo.tried = append(repo.tried, class.JoinCode)
	if len(repo.tried) <= repo.n {
		return classroom.Class{}, classroom.ErrJoinCodeTaken
	}
	return repo.ClassRepository.CreateClass(ctx, class)
}

func TestClassService_CreateClass(t *testing.T) {
	store := newStore()
	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")

	t.Run("Retries taken join codes", func(t *testing.T) {
		repo := &takenCodes{ClassRepository: store.Classes, n: 2}
		s := store
		s.Classes = repo
		svc := classroom.NewClassService(s, 8)

		class, err := svc.CreateClass(context.Background(), teacher.ID, classroom.NewClass{Name: "6 Informatica"})
		require.NoError(t, err)
		assert.Len(t, repo.tried, 3)
		assert.Equal(t, repo.tried[2], class.JoinCode)
		assert.Equal(t, teacher.ID, class.TeacherID)
	})

	t.Run("Gives up eventually", func(t *testing.T) {
		repo := &takenCodes{ClassRepository: store.Classes, n: 100}
		s := store
		s.Classes = repo
		svc := classroom.NewClassService(s, 8)

		_, err := svc.CreateClass(context.Background(), teacher.ID, classroom.NewClass{Name: "6 Wiskunde"})
		assert.Equal(t, classroom.ErrJoinCodeTaken, errors.Cause(err))
		assert.Len(t, repo.tried, 5)
	})
}

func TestClassService_RegenerateJoinCode(t *testing.T) {
	store := newStore()
	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	other := testutil.CreateTeacher(t, store.Users, "Ada", "Lovelace", "ada@test.be")
	class := testutil.CreateClass(t, store.Classes, teacher.ID, "6 Informatica", "ABCDEFGH")
	svc := classroom.NewClassService(store, 8)
	ctx := context.Background()

	_, err := svc.RegenerateJoinCode(ctx, other.ID, class.ID)
	assert.Equal(t, classroom.ErrNotClassTeacher, err)

	updated, err := svc.RegenerateJoinCode(ctx, teacher.ID, class.ID)
	require.NoError(t, err)
	assert.NotEqual(t, class.JoinCode, updated.JoinCode)

	_, err = store.Classes.GetClassByJoinCode(ctx, class.JoinCode)
	assert.Equal(t, classroom.ErrClassNotFound, errors.Cause(err))
}

func TestStudentService_JoinClass(t *testing.T) {
	store := newStore()
	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	student := testutil.CreateStudent(t, store.Users, "Grace", "Hopper", "grace@test.be")
	class := testutil.CreateClass(t, store.Classes, teacher.ID, "6 Informatica", "ABCDEFGH")
	mailSvc := emailsvc.NewConsoleServiceMock(core.NewTestConfig())
	svc := classroom.NewStudentService(store, mailSvc)
	ctx := context.Background()

	_, err := svc.JoinClass(ctx, student.ID, "ZZZZZZZZ")
	assert.Equal(t, classroom.ErrClassNotFound, errors.Cause(err))

	joined, err := svc.JoinClass(ctx, student.ID, class.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, class.ID, joined.ID)

	msgs := mailSvc.Messages()
	if assert.Len(t, msgs, 1) {
		assert.Equal(t, teacher.Email, msgs[0].To[0].Address)
		assert.Contains(t, msgs[0].Body, student.Email)
	}

	_, err = svc.JoinClass(ctx, student.ID, class.JoinCode)
	var vErr *core.ValidationError
	if assert.ErrorAs(t, err, &vErr) {
		assert.Equal(t, "joinCode", vErr.Fields[0].Field)
	}
	assert.Len(t, mailSvc.Messages(), 1)

	classes, err := svc.GetStudentClasses(ctx, student.ID)
	assert.NoError(t, err)
	assert.Equal(t, []classroom.Class{class}, classes)
}

// failingLinks fails to link assignments to classes.
type failingLinks struct {
	classroom.AssignmentRepository
}

func (failingLinks) LinkClass(context.Context, int, int) error { return errBoom }

func TestAssignmentService_CreateAssignmentForClass(t *testing.T) {
	store := newStore()
	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	other := testutil.CreateTeacher(t, store.Users, "Ada", "Lovelace", "ada@test.be")
	lp := testutil.CreateLearningPath(t, store.LearningPaths, "lp-1", "Sorteren")
	class := testutil.CreateClass(t, store.Classes, teacher.ID, "6 Informatica", "ABCDEFGH")
	ctx := context.Background()
	na := classroom.NewAssignment{Title: "Sorteren", LearningPathID: lp.ID}

	t.Run("Not the teacher", func(t *testing.T) {
		_, err := classroom.NewAssignmentService(store).CreateAssignmentForClass(ctx, other.ID, class.ID, na)
		assert.Equal(t, classroom.ErrNotClassTeacher, err)
	})

	t.Run("Unknown class", func(t *testing.T) {
		_, err := classroom.NewAssignmentService(store).CreateAssignmentForClass(ctx, teacher.ID, 9999, na)
		assert.Equal(t, classroom.ErrClassNotFound, errors.Cause(err))
	})

	t.Run("Rolls back when linking fails", func(t *testing.T) {
		s := store
		s.Assignments = failingLinks{store.Assignments}

		_, err := classroom.NewAssignmentService(s).CreateAssignmentForClass(ctx, teacher.ID, class.ID, na)
		assert.Equal(t, errBoom, errors.Cause(err))

		a, err := store.Assignments.GetAssignmentByID(ctx, 1)
		assert.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("Created and linked", func(t *testing.T) {
		a, err := classroom.NewAssignmentService(store).CreateAssignmentForClass(ctx, teacher.ID, class.ID, na)
		require.NoError(t, err)
		assert.Equal(t, []classroom.Class{class}, a.Classes)

		linked, err := store.Assignments.QueryClassAssignments(ctx, class.ID)
		assert.NoError(t, err)
		if assert.Len(t, linked, 1) {
			assert.Equal(t, a.ID, linked[0].ID)
		}
	})
}

// failingTeamLinks fails to unlink the teams of an assignment.
type failingTeamLinks struct {
	classroom.AssignmentRepository
}

func (failingTeamLinks) DeleteTeamLinks(context.Context, int) error { return errBoom }

func TestAssignmentService_DeleteAssignment(t *testing.T) {
	store := newStore()
	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	student := testutil.CreateStudent(t, store.Users, "Grace", "Hopper", "grace@test.be")
	lp := testutil.CreateLearningPath(t, store.LearningPaths, "lp-1", "Sorteren")
	class := testutil.CreateClass(t, store.Classes, teacher.ID, "6 Informatica", "ABCDEFGH", student.ID)
	a := testutil.CreateAssignment(t, store.Assignments, "Sorteren", lp.ID, nil, []int{class.ID})
	team := testutil.CreateTeam(t, store.Teams, a.ID, "Team 1", student.ID)
	ctx := context.Background()

	t.Run("Rolls back when unlinking teams fails", func(t *testing.T) {
		s := store
		s.Assignments = failingTeamLinks{store.Assignments}

		err := classroom.NewAssignmentService(s).DeleteAssignment(ctx, teacher.ID, a.ID)
		assert.Equal(t, errBoom, errors.Cause(err))

		got, err := store.Assignments.GetAssignmentByID(ctx, a.ID)
		assert.NoError(t, err)
		assert.NotNil(t, got)

		linked, err := store.Assignments.QueryClassAssignments(ctx, class.ID)
		assert.NoError(t, err)
		if assert.Len(t, linked, 1) {
			assert.Equal(t, a.ID, linked[0].ID)
		}

		teams, err := store.Teams.QueryAssignmentTeams(ctx, a.ID)
		assert.NoError(t, err)
		if assert.Len(t, teams, 1) {
			assert.Equal(t, team.ID, teams[0].ID)
		}
	})

	t.Run("Deleted", func(t *testing.T) {
		require.NoError(t, classroom.NewAssignmentService(store).DeleteAssignment(ctx, teacher.ID, a.ID))

		got, err := store.Assignments.GetAssignmentByID(ctx, a.ID)
		assert.NoError(t, err)
		assert.Nil(t, got)

		linked, err := store.Assignments.QueryClassAssignments(ctx, class.ID)
		assert.NoError(t, err)
		assert.Empty(t, linked)
	})
}

func TestStudentAssignmentService(t *testing.T) {
	store := newStore()
	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	student := testutil.CreateStudent(t, store.Users, "Grace", "Hopper", "grace@test.be")
	lp := testutil.CreateLearningPath(t, store.LearningPaths, "lp-1", "Sorteren")
	c1 := testutil.CreateClass(t, store.Classes, teacher.ID, "5 Latijn", "AAAAAAAA", student.ID)
	c2 := testutil.CreateClass(t, store.Classes, teacher.ID, "6 Informatica", "BBBBBBBB")
	now := time.Now()
	a1 := testutil.CreateAssignment(t, store.Assignments, "A", lp.ID, testutil.TimePtr(now.Add(time.Hour)), []int{c1.ID, c2.ID})
	a2 := testutil.CreateAssignment(t, store.Assignments, "B", lp.ID, nil, []int{c1.ID})
	testutil.CreateAssignment(t, store.Assignments, "C", lp.ID, nil, []int{c2.ID})
	svc := classroom.NewStudentAssignmentService(store)
	ctx := context.Background()

	got, err := svc.GetAssignmentsForStudent(ctx, student.ID, classroom.AssignmentQuery{})
	require.NoError(t, err)
	assert.Equal(t, []classroom.Assignment{a1, a2}, got)

	got, err = svc.GetAssignmentsForStudent(ctx, student.ID, classroom.AssignmentQuery{Limit: "1"})
	require.NoError(t, err)
	assert.Equal(t, []classroom.Assignment{a1}, got)

	_, err = svc.GetAssignmentsForStudentInClass(ctx, student.ID, c2.ID, classroom.AssignmentQuery{})
	assert.Equal(t, classroom.ErrNotClassMember, err)
}

// failingMembers fails to set the members of the second team.
type failingMembers struct {
	classroom.TeamRepository
	calls int
}

func (repo *failingMembers) SetTeamStudents(ctx context.Context, teamID int, studentIDs []int) error {
	repo.calls++
	if repo.calls > 1 {
		return errBoom
	}
	return repo.TeamRepository.SetTeamStudents(ctx, teamID, studentIDs)
}

func TestTeacherTeamsService(t *testing.T) {
	store := newStore()
	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	s1 := testutil.CreateStudent(t, store.Users, "Grace", "Hopper", "grace@test.be")
	s2 := testutil.CreateStudent(t, store.Users, "Edsger", "Dijkstra", "edsger@test.be")
	lp := testutil.CreateLearningPath(t, store.LearningPaths, "lp-1", "Sorteren")
	class := testutil.CreateClass(t, store.Classes, teacher.ID, "6 Informatica", "ABCDEFGH", s1.ID, s2.ID)
	a := testutil.CreateAssignment(t, store.Assignments, "Sorteren", lp.ID, nil, []int{class.ID})
	ctx := context.Background()
	div := classroom.NewTeamDivision{Teams: []classroom.NewTeam{
		{TeamName: "Alpha", StudentIDs: []int{s1.ID}},
		{TeamName: "Beta", StudentIDs: []int{s2.ID}},
	}}

	t.Run("Rolls back the whole division", func(t *testing.T) {
		s := store
		s.Teams = &failingMembers{TeamRepository: store.Teams}

		_, err := classroom.NewTeacherTeamsService(s).CreateTeamsInAssignment(ctx, teacher.ID, a.ID, div)
		assert.Equal(t, errBoom, errors.Cause(err))

		teams, err := store.Teams.QueryAssignmentTeams(ctx, a.ID)
		assert.NoError(t, err)
		assert.Empty(t, teams)
	})

	t.Run("Duplicates", func(t *testing.T) {
		_, err := classroom.NewTeacherTeamsService(store).CreateTeamsInAssignment(ctx, teacher.ID, a.ID, classroom.NewTeamDivision{
			Teams: []classroom.NewTeam{
				{TeamName: "Alpha", StudentIDs: []int{s1.ID, s1.ID}},
				{TeamName: "Beta", StudentIDs: []int{s2.ID, s1.ID}},
			},
		})
		var vErr *core.ValidationError
		if assert.ErrorAs(t, err, &vErr) {
			assert.Equal(t, []core.FieldError{
				{Field: "teams[0].studentIds", Error: fmt.Sprintf("student %d is listed more than once", s1.ID)},
				{Field: "teams[1].studentIds", Error: fmt.Sprintf("student %d appears in more than one team", s1.ID)},
			}, vErr.Fields)
		}
	})

	svc := classroom.NewTeacherTeamsService(store)
	teams, err := svc.CreateTeamsInAssignment(ctx, teacher.ID, a.ID, div)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, []user.Profile{s1.Profile()}, teams[0].Students)

	t.Run("Partition update", func(t *testing.T) {
		updated, err := svc.UpdateTeamsForAssignment(ctx, teacher.ID, a.ID, classroom.IdentifiableTeamDivision{
			Teams: []classroom.IdentifiableTeam{{TeamID: teams[1].ID, TeamName: "Gamma", StudentIDs: []int{s1.ID, s2.ID}}},
		})
		require.NoError(t, err)
		if assert.Len(t, updated, 1) {
			assert.Equal(t, "Gamma", updated[0].TeamName)
			assert.Equal(t, []user.Profile{s1.Profile(), s2.Profile()}, updated[0].Students)
		}

		gone, err := store.Teams.GetTeamByID(ctx, teams[0].ID)
		assert.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("Membership checks", func(t *testing.T) {
		assert.NoError(t, classroom.CheckTeamMember(ctx, store, s1.ID, teams[1].ID))
		assert.Equal(t, classroom.ErrTeamNotFound, classroom.CheckTeamMember(ctx, store, s1.ID, teams[0].ID))
		assert.NoError(t, svc.CheckTeacher(ctx, teacher.ID, teams[1].ID))
	})
}
