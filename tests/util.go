package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/learning"
	"github.com/SELab-2/Dwengo-1/core/question"
	"github.com/SELab-2/Dwengo-1/core/user"
)

const Password = "Kangaroo-Violin-42"

// NewValidator returns a validator with every custom validation and translation registered.
func NewValidator() (*validator.Validate, *ut.UniversalTranslator) {
	validate := validator.New()
	uni := core.NewUniversalTranslator()
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	classroom.InitValidators(validate, translator)
	return validate, uni
}

func timestamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC().Truncate(time.Microsecond)
	}
	return core.Now()
}

func createUser(t *testing.T, repo user.Repository, role, firstName, lastName, email string) user.User {
	now := core.Now()
	usr := user.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(Password); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo user.Repository, firstName, lastName, email string) user.User {
	return createUser(t, repo, user.RoleStudent, firstName, lastName, email)
}

func CreateTeacher(t *testing.T, repo user.Repository, firstName, lastName, email string) user.User {
	return createUser(t, repo, user.RoleTeacher, firstName, lastName, email)
}

func CreateLearningPath(t *testing.T, repo learning.Repository, hruid, title string) learning.LearningPath {
	lp, err := repo.CreateLearningPath(context.Background(), learning.LearningPath{
		HRUID: hruid, Language: "nl", Title: title, Description: title,
	})
	if err != nil {
		t.Fatalf("CreateLearningPath() failed: %v", err)
	}
	return lp
}

func CreateLearningObject(t *testing.T, repo learning.Repository, lpID int, hruid, title string) learning.LearningObject {
	lo, err := repo.CreateLearningObject(context.Background(), learning.LearningObject{
		HRUID: hruid, Language: "nl", Title: title, LearningPathID: lpID,
	})
	if err != nil {
		t.Fatalf("CreateLearningObject() failed: %v", err)
	}
	return lo
}

// CreateClass stores a class of the teacher and adds the students to it.
func CreateClass(t *testing.T, repo classroom.ClassRepository, teacherID int, name, joinCode string, studentIDs ...int) classroom.Class {
	ctx := context.Background()
	now := core.Now()
	class, err := repo.CreateClass(ctx, classroom.Class{
		Name: name, JoinCode: joinCode, TeacherID: teacherID, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	for _, id := range studentIDs {
		if err = repo.AddStudent(ctx, class.ID, id); err != nil {
			t.Fatalf("CreateClass() failed: %v", err)
		}
	}
	return class
}

// CreateAssignment stores an assignment linked to the classes.
func CreateAssignment(
	t *testing.T,
	repo classroom.AssignmentRepository,
	title string,
	lpID int,
	deadline *time.Time,
	classIDs []int,
	createdAt ...time.Time,
) classroom.Assignment {
	ctx := context.Background()
	tstamp := timestamp(createdAt)
	if deadline != nil {
		d := deadline.UTC().Truncate(time.Microsecond)
		deadline = &d
	}
	a, err := repo.CreateAssignment(ctx, classroom.Assignment{
		Title: title, LearningPathID: lpID, Deadline: deadline, CreatedAt: tstamp, UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	for _, id := range classIDs {
		if err = repo.LinkClass(ctx, id, a.ID); err != nil {
			t.Fatalf("CreateAssignment() failed: %v", err)
		}
	}
	return a
}

// CreateTeam stores a team of the assignment with the students as members.
func CreateTeam(t *testing.T, repo classroom.TeamRepository, assignmentID int, name string, studentIDs ...int) classroom.Team {
	ctx := context.Background()
	team, err := repo.CreateTeam(ctx, classroom.Team{TeamName: name, AssignmentID: assignmentID, CreatedAt: core.Now()})
	if err != nil {
		t.Fatalf("CreateTeam() failed: %v", err)
	}
	if err = repo.SetTeamStudents(ctx, team.ID, studentIDs); err != nil {
		t.Fatalf("CreateTeam() failed: %v", err)
	}
	return team
}

// CreateGeneralQuestion stores a question about the learning path, asked at createdAt (default now).
func CreateGeneralQuestion(
	t *testing.T,
	repo question.Repository,
	teamID, studentID, lpID int,
	description string,
	createdAt ...time.Time,
) question.Question {
	ctx := context.Background()
	tstamp := timestamp(createdAt)
	q, err := repo.CreateQuestion(ctx, question.Question{
		Description: description,
		Type:        question.TypeGeneral,
		TeamID:      teamID,
		StudentID:   studentID,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateGeneralQuestion() failed: %v", err)
	}
	if err = repo.CreateQuestionGeneral(ctx, q.ID, lpID); err != nil {
		t.Fatalf("CreateGeneralQuestion() failed: %v", err)
	}
	q.LearningPathID = &lpID
	return q
}

func TimePtr(t time.Time) *time.Time {
	t = t.UTC().Truncate(time.Microsecond)
	return &t
}
