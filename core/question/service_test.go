package question_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/learning"
	"github.com/SELab-2/Dwengo-1/core/question"
	"github.com/SELab-2/Dwengo-1/storage/database/inmem"
	"github.com/SELab-2/Dwengo-1/tests"
)

var errBoom = errors.New("boom")

// failingGeneral fails to store the learning path of general questions.
type failingGeneral struct {
	question.Repository
}

func (failingGeneral) CreateQuestionGeneral(context.Context, int, int) error { return errBoom }

func TestService(t *testing.T) {
	db := inmemdb.Open()
	store := inmemdb.NewStore(db)
	repo := inmemdb.NewQuestionRepository(db)
	svc := question.NewService(store, repo)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	s1 := testutil.CreateStudent(t, store.Users, "Grace", "Hopper", "grace@test.be")
	s2 := testutil.CreateStudent(t, store.Users, "Edsger", "Dijkstra", "edsger@test.be")
	lp1 := testutil.CreateLearningPath(t, store.LearningPaths, "lp-1", "Sorteren")
	lp2 := testutil.CreateLearningPath(t, store.LearningPaths, "lp-2", "Zoeken")
	class := testutil.CreateClass(t, store.Classes, teacher.ID, "6 Informatica", "ABCDEFGH", s1.ID, s2.ID)
	a := testutil.CreateAssignment(t, store.Assignments, "Sorteren", lp1.ID, nil, []int{class.ID})
	team := testutil.CreateTeam(t, store.Teams, a.ID, "Team 1", s1.ID)

	t.Run("CreateQuestion checks its input", func(t *testing.T) {
		tests := []struct {
			name  string
			nq    question.NewQuestion
			field string
		}{
			{name: "Description", nq: question.NewQuestion{Description: " ", TeamID: team.ID, StudentID: s1.ID, Type: question.TypeGeneral}, field: "description"},
			{name: "Team", nq: question.NewQuestion{Description: "Help", StudentID: s1.ID, Type: question.TypeGeneral}, field: "teamId"},
			{name: "Student", nq: question.NewQuestion{Description: "Help", TeamID: team.ID, Type: question.TypeGeneral}, field: "studentId"},
			{name: "Type", nq: question.NewQuestion{Description: "Help", TeamID: team.ID, StudentID: s1.ID, Type: "OTHER"}, field: "type"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateQuestion(ctx, tt.nq)
				var vErr *core.ValidationError
				if assert.ErrorAs(t, err, &vErr) {
					assert.Equal(t, tt.field, vErr.Fields[0].Field)
				}
			})
		}
	})

	t.Run("Members only", func(t *testing.T) {
		_, err := svc.CreateQuestionGeneral(ctx, s2.ID, question.NewGeneralQuestion{Description: "Help", TeamID: team.ID, LearningPathID: lp1.ID})
		assert.Equal(t, classroom.ErrNotTeamMember, errors.Cause(err))

		_, err = svc.CreateQuestionGeneral(ctx, s1.ID, question.NewGeneralQuestion{Description: "Help", TeamID: team.ID, LearningPathID: 9999})
		assert.Equal(t, learning.ErrPathNotFound, err)
	})

	t.Run("Rolls back the base question", func(t *testing.T) {
		failing := question.NewService(store, failingGeneral{repo})
		_, err := failing.CreateQuestionGeneral(ctx, s1.ID, question.NewGeneralQuestion{Description: "Help", TeamID: team.ID, LearningPathID: lp1.ID})
		assert.Equal(t, errBoom, errors.Cause(err))

		questions, err := repo.QueryTeamQuestions(ctx, team.ID)
		assert.NoError(t, err)
		assert.Empty(t, questions)
	})

	t.Run("First question per learning path", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		q1 := testutil.CreateGeneralQuestion(t, repo, team.ID, s1.ID, lp2.ID, "Eerst", past)
		testutil.CreateGeneralQuestion(t, repo, team.ID, s1.ID, lp2.ID, "Later", past.Add(time.Minute))
		q3 := testutil.CreateGeneralQuestion(t, repo, team.ID, s1.ID, lp1.ID, "Ander pad", past.Add(2*time.Minute))

		q4, err := svc.CreateQuestionGeneral(ctx, s1.ID, question.NewGeneralQuestion{Description: "Nu", TeamID: team.ID, LearningPathID: lp1.ID})
		require.NoError(t, err)

		tq, err := svc.GetQuestionsTeam(ctx, team.ID)
		require.NoError(t, err)
		assert.Len(t, tq.Questions, 4)
		assert.Equal(t, q4.ID, tq.Questions[3].ID)
		if assert.Len(t, tq.FirstPerLearningPath, 2) {
			assert.Equal(t, q3.ID, tq.FirstPerLearningPath[0].ID)
			assert.Equal(t, q1.ID, tq.FirstPerLearningPath[1].ID)
		}
	})

	t.Run("Update own questions only", func(t *testing.T) {
		q, err := svc.CreateQuestionSpecific(ctx, s1.ID, question.NewSpecificQuestion{Description: "Stap 2?", TeamID: team.ID, LearningObjectID: 9999})
		assert.Equal(t, learning.ErrObjectNotFound, err)
		assert.Zero(t, q.ID)

		tq, err := svc.GetQuestionsTeam(ctx, team.ID)
		require.NoError(t, err)
		id := tq.Questions[0].ID

		updated, err := svc.UpdateQuestion(ctx, id, s1.ID, question.UpdateQuestion{Description: "Anders", TeamID: team.ID})
		require.NoError(t, err)
		assert.Equal(t, "Anders", updated.Description)
		assert.True(t, !updated.UpdatedAt.Before(updated.CreatedAt))

		_, err = svc.UpdateQuestion(ctx, id, s2.ID, question.UpdateQuestion{Description: "Anders", TeamID: team.ID})
		assert.Equal(t, classroom.ErrNotTeamMember, err)
	})

	t.Run("Unknown team", func(t *testing.T) {
		_, err := svc.GetQuestionsTeam(ctx, 9999)
		assert.Equal(t, classroom.ErrTeamNotFound, err)
	})
}
