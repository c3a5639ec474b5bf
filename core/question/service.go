package question

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/learning"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("question not found")
)

type (
	Repository interface {
		// CreateQuestion stores the base question row only.
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		CreateQuestionGeneral(ctx context.Context, questionID, learningPathID int) error
		CreateQuestionSpecific(ctx context.Context, questionID, learningObjectID int) error
		// UpdateQuestionDescription only touches the row matching (id, studentID, teamID); ErrNotFound otherwise.
		UpdateQuestionDescription(ctx context.Context, id, studentID, teamID int, description string, updatedAt time.Time) (Question, error)
		QueryTeamQuestions(ctx context.Context, teamID int) ([]Question, error)
		// QueryFirstQuestionPerLearningPath returns, per learning path, the team's general question with the minimum created_at.
		QueryFirstQuestionPerLearningPath(ctx context.Context, teamID int) ([]Question, error)
	}

	Service struct {
		store     classroom.Store
		questions Repository
	}
)

func NewService(store classroom.Store, questions Repository) *Service {
	return &Service{store: store, questions: questions}
}

// CreateQuestion stores the base question after checking that the student is a member of the team.
func (svc *Service) CreateQuestion(ctx context.Context, nq NewQuestion) (Question, error) {
	if err := checkNewQuestion(nq); err != nil {
		return Question{}, err
	}
	if err := svc.checkMember(ctx, nq.StudentID, nq.TeamID); err != nil {
		return Question{}, err
	}

	now := core.Now()
	q, err := svc.questions.CreateQuestion(ctx, Question{
		Description: nq.Description,
		Type:        nq.Type,
		TeamID:      nq.TeamID,
		StudentID:   nq.StudentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return q, errors.Wrap(err, "inserting question")
}

// CreateQuestionGeneral asks a question about a learning path.
func (svc *Service) CreateQuestionGeneral(ctx context.Context, studentID int, ng NewGeneralQuestion) (Question, error) {
	if ng.LearningPathID <= 0 {
		return Question{}, missingField("learningPathId")
	}
	lp, err := svc.store.LearningPaths.GetLearningPathByID(ctx, ng.LearningPathID)
	if err != nil {
		return Question{}, errors.Wrap(err, "finding learning path")
	}
	if lp == nil {
		return Question{}, learning.ErrPathNotFound
	}

	var q Question
	err = svc.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		q, err = svc.CreateQuestion(ctx, NewQuestion{
			Description: ng.Description, TeamID: ng.TeamID, StudentID: studentID, Type: TypeGeneral,
		})
		if err != nil {
			return err
		}
		q.LearningPathID = &ng.LearningPathID
		return errors.Wrap(svc.questions.CreateQuestionGeneral(ctx, q.ID, ng.LearningPathID), "inserting general question")
	})
	return q, err
}

// CreateQuestionSpecific asks a question about a learning object.
func (svc *Service) CreateQuestionSpecific(ctx context.Context, studentID int, ns NewSpecificQuestion) (Question, error) {
	if ns.LearningObjectID <= 0 {
		return Question{}, missingField("learningObjectId")
	}
	lo, err := svc.store.LearningPaths.GetLearningObjectByID(ctx, ns.LearningObjectID)
	if err != nil {
		return Question{}, errors.Wrap(err, "finding learning object")
	}
	if lo == nil {
		return Question{}, learning.ErrObjectNotFound
	}

	var q Question
	err = svc.store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		q, err = svc.CreateQuestion(ctx, NewQuestion{
			Description: ns.Description, TeamID: ns.TeamID, StudentID: studentID, Type: TypeSpecific,
		})
		if err != nil {
			return err
		}
		q.LearningObjectID = &ns.LearningObjectID
		return errors.Wrap(svc.questions.CreateQuestionSpecific(ctx, q.ID, ns.LearningObjectID), "inserting specific question")
	})
	return q, err
}

// UpdateQuestion changes the description of one of the student's questions in the team.
func (svc *Service) UpdateQuestion(ctx context.Context, questionID, studentID int, uq UpdateQuestion) (Question, error) {
	if core.CleanString(uq.Description) == "" {
		return Question{}, missingField("description")
	}
	if err := svc.checkMember(ctx, studentID, uq.TeamID); err != nil {
		return Question{}, err
	}
	q, err := svc.questions.UpdateQuestionDescription(ctx, questionID, studentID, uq.TeamID, uq.Description, core.Now())
	return q, errors.Wrap(err, "updating question")
}

// GetQuestionsTeam lists the questions of a team along with the first general question per learning path.
func (svc *Service) GetQuestionsTeam(ctx context.Context, teamID int) (TeamQuestions, error) {
	team, err := svc.store.Teams.GetTeamByID(ctx, teamID)
	if err != nil {
		return TeamQuestions{}, errors.Wrap(err, "finding team")
	}
	if team == nil {
		return TeamQuestions{}, classroom.ErrTeamNotFound
	}

	var tq TeamQuestions
	if tq.Questions, err = svc.questions.QueryTeamQuestions(ctx, teamID); err != nil {
		return TeamQuestions{}, errors.Wrap(err, "querying team questions")
	}
	if tq.FirstPerLearningPath, err = svc.questions.QueryFirstQuestionPerLearningPath(ctx, teamID); err != nil {
		return TeamQuestions{}, errors.Wrap(err, "querying first questions")
	}
	if tq.Questions == nil {
		tq.Questions = []Question{}
	}
	if tq.FirstPerLearningPath == nil {
		tq.FirstPerLearningPath = []Question{}
	}
	return tq, nil
}

func (svc *Service) checkMember(ctx context.Context, studentID, teamID int) error {
	return classroom.CheckTeamMember(ctx, svc.store, studentID, teamID)
}

func checkNewQuestion(nq NewQuestion) error {
	switch {
	case core.CleanString(nq.Description) == "":
		return missingField("description")
	case nq.TeamID <= 0:
		return missingField("teamId")
	case nq.StudentID <= 0:
		return missingField("studentId")
	case nq.Type != TypeGeneral && nq.Type != TypeSpecific:
		return core.NewValidationError(nil, core.FieldError{Field: "type", Error: "type must be one of [GENERAL SPECIFIC]"})
	}
	return nil
}

func missingField(field string) error {
	return core.NewValidationError(nil, core.FieldError{Field: field, Error: field + " is required"})
}
