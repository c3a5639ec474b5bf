package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SELab-2/Dwengo-1/core/question"
	"github.com/SELab-2/Dwengo-1/tests"
)

func Test_questionApi(t *testing.T) {
	resetDB()

	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	other := testutil.CreateTeacher(t, store.Users, "Ada", "Lovelace", "ada@test.be")
	s1 := testutil.CreateStudent(t, store.Users, "Grace", "Hopper", "grace@test.be")
	s2 := testutil.CreateStudent(t, store.Users, "Edsger", "Dijkstra", "edsger@test.be")
	s3 := testutil.CreateStudent(t, store.Users, "Barbara", "Liskov", "barbara@test.be")
	lp1 := testutil.CreateLearningPath(t, store.LearningPaths, "lp-1", "Sorteren")
	lp2 := testutil.CreateLearningPath(t, store.LearningPaths, "lp-2", "Zoeken")
	lo := testutil.CreateLearningObject(t, store.LearningPaths, lp1.ID, "lo-1", "Bubble sort")
	class := testutil.CreateClass(t, store.Classes, teacher.ID, "6 Informatica", "ABCDEFGH", s1.ID, s2.ID, s3.ID)
	a := testutil.CreateAssignment(t, store.Assignments, "Sorteren", lp1.ID, nil, []int{class.ID})
	team := testutil.CreateTeam(t, store.Teams, a.ID, "Team 1", s1.ID, s2.ID)
	testutil.CreateTeam(t, store.Teams, a.ID, "Team 2", s3.ID)

	// older questions of the team
	past := time.Now().Add(-time.Hour)
	q1 := testutil.CreateGeneralQuestion(t, qRepo, team.ID, s2.ID, lp1.ID, "Waarom?", past)
	q2 := testutil.CreateGeneralQuestion(t, qRepo, team.ID, s1.ID, lp1.ID, "Hoe?", past.Add(time.Minute))
	q3 := testutil.CreateGeneralQuestion(t, qRepo, team.ID, s1.ID, lp2.ID, "Wat?", past.Add(2*time.Minute))

	s1Token := getToken(t, s1)
	var general, specific question.Question

	t.Run("Create general", func(t *testing.T) {
		tests := []httpTest{
			{
				name: "Required fields", body: []byte(`{"description": " "}`), token: s1Token, wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, map[string]string{
					"description":    "description is required",
					"teamId":         "teamId is required",
					"learningPathId": "learningPathId is required",
				}),
			},
			{
				name: "Unknown learning path", body: []byte(fmt.Sprintf(`{"description": "Help", "teamId": %d, "learningPathId": 9999}`, team.ID)),
				token: s1Token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "learning path not found"}),
			},
			{
				name: "Unknown team", body: []byte(fmt.Sprintf(`{"description": "Help", "teamId": 9999, "learningPathId": %d}`, lp1.ID)),
				token: s1Token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "team not found"}),
			},
			{
				name: "Not a member", body: []byte(fmt.Sprintf(`{"description": "Help", "teamId": %d, "learningPathId": %d}`, team.ID, lp1.ID)),
				token: getToken(t, s3), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "student is not a member of this team"}),
			},
		}
		runTests(t, withRoute(tests, http.MethodPost, "/api/question/student/general"))

		body := []byte(fmt.Sprintf(`{"description": " Help! ", "teamId": %d, "learningPathId": %d}`, team.ID, lp2.ID))
		req, rec := newAuthRequest(http.MethodPost, "/api/question/student/general", s1Token, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &general))
		assert.Equal(t, "Help!", general.Description)
		assert.Equal(t, question.TypeGeneral, general.Type)
		assert.Equal(t, s1.ID, general.StudentID)
		if assert.NotNil(t, general.LearningPathID) {
			assert.Equal(t, lp2.ID, *general.LearningPathID)
		}
	})

	t.Run("Create specific", func(t *testing.T) {
		tests := []httpTest{
			{
				name: "Learning object required", body: []byte(fmt.Sprintf(`{"description": "Help", "teamId": %d}`, team.ID)),
				token: s1Token, wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"learningObjectId": "learningObjectId is required"}),
			},
			{
				name: "Unknown learning object", body: []byte(fmt.Sprintf(`{"description": "Help", "teamId": %d, "learningObjectId": 9999}`, team.ID)),
				token: s1Token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "learning object not found"}),
			},
		}
		runTests(t, withRoute(tests, http.MethodPost, "/api/question/student/specific"))

		body := []byte(fmt.Sprintf(`{"description": "Stap 3?", "teamId": %d, "learningObjectId": %d}`, team.ID, lo.ID))
		req, rec := newAuthRequest(http.MethodPost, "/api/question/student/specific", getToken(t, s2), body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &specific))
		assert.Equal(t, question.TypeSpecific, specific.Type)
		assert.Nil(t, specific.LearningPathID)
		if assert.NotNil(t, specific.LearningObjectID) {
			assert.Equal(t, lo.ID, *specific.LearningObjectID)
		}
	})

	t.Run("Update", func(t *testing.T) {
		path := fmt.Sprintf("/api/question/student/%d", general.ID)
		tests := []httpTest{
			{
				name: "Description required", body: []byte(fmt.Sprintf(`{"description": "", "teamId": %d}`, team.ID)), token: s1Token,
				wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"description": "description is required"}),
			},
			{
				name: "Someone else's question", body: []byte(fmt.Sprintf(`{"description": "Nee", "teamId": %d}`, team.ID)), token: getToken(t, s2),
				wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "question not found"}),
			},
			{
				name: "Not a member", body: []byte(fmt.Sprintf(`{"description": "Nee", "teamId": %d}`, team.ID)), token: getToken(t, s3),
				wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "student is not a member of this team"}),
			},
		}
		runTests(t, withRoute(tests, http.MethodPut, path))

		req, rec := newAuthRequest(http.MethodPut, path, s1Token, []byte(fmt.Sprintf(`{"description": "Help, please", "teamId": %d}`, team.ID)))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var updated question.Question
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, general.ID, updated.ID)
		assert.Equal(t, "Help, please", updated.Description)
		assert.Equal(t, general.CreatedAt, updated.CreatedAt)
		general = updated
	})

	t.Run("Team questions", func(t *testing.T) {
		path := fmt.Sprintf("/api/question/student/team/%d", team.ID)

		req, rec := newAuthRequest(http.MethodGet, path, s1Token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var tq question.TeamQuestions
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tq))

		ids := make([]int, len(tq.Questions))
		for i, q := range tq.Questions {
			ids[i] = q.ID
		}
		assert.Equal(t, []int{q1.ID, q2.ID, q3.ID, general.ID, specific.ID}, ids)

		// the earliest general question per learning path
		if assert.Len(t, tq.FirstPerLearningPath, 2) {
			assert.Equal(t, q1.ID, tq.FirstPerLearningPath[0].ID)
			assert.Equal(t, q3.ID, tq.FirstPerLearningPath[1].ID)
		}

		// the teacher of the assignment sees the same
		req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/api/question/teacher/team/%d", team.ID), getToken(t, teacher))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, tq)}, rec)

		tests := []httpTest{
			{
				name: "Student outside the team", path: path, token: getToken(t, s3), wantCode: http.StatusForbidden,
				wantData: marchallObj(t, httpErr{Error: "student is not a member of this team"}),
			},
			{
				name: "Unknown team", path: "/api/question/student/team/9999", token: s1Token, wantCode: http.StatusNotFound,
				wantData: marchallObj(t, httpErr{Error: "team not found"}),
			},
			{
				name: "Other teacher", path: fmt.Sprintf("/api/question/teacher/team/%d", team.ID), token: getToken(t, other),
				wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "you are not a teacher of this assignment"}),
			},
		}
		runTests(t, tests)
	})
}
