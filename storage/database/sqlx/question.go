package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/question"
)

var questionColumns = []string{
	"q.id", "q.description", "q.type", "q.team_id", "q.student_id",
	"qg.learning_path_id", "qs.learning_object_id", "q.created_at", "q.updated_at",
}

type questionRepository struct {
	base
}

var _ question.Repository = (*questionRepository)(nil)

func NewQuestionRepository(db *sqlx.DB) question.Repository {
	return &questionRepository{base{db: db}}
}

// selectQuestions joins questions with their general or specific row.
func selectQuestions() sq.SelectBuilder {
	return psql.Select(questionColumns...).
		From("questions q").
		LeftJoin("question_generals qg ON qg.question_id = q.id").
		LeftJoin("question_specifics qs ON qs.question_id = q.id")
}

func (repo *questionRepository) CreateQuestion(ctx context.Context, q question.Question) (question.Question, error) {
	ins := psql.Insert("questions").
		Columns("description", "type", "team_id", "student_id", "created_at", "updated_at").
		Values(q.Description, q.Type, q.TeamID, q.StudentID, q.CreatedAt, q.UpdatedAt).
		Suffix("RETURNING id")
	err := repo.get(ctx, &q.ID, ins)
	return q, errors.Wrap(err, "inserting question")
}

func (repo *questionRepository) CreateQuestionGeneral(ctx context.Context, questionID, learningPathID int) error {
	ins := psql.Insert("question_generals").Columns("question_id", "learning_path_id").Values(questionID, learningPathID)
	_, err := repo.exec(ctx, ins)
	return errors.Wrap(err, "inserting question general")
}

func (repo *questionRepository) CreateQuestionSpecific(ctx context.Context, questionID, learningObjectID int) error {
	ins := psql.Insert("question_specifics").Columns("question_id", "learning_object_id").Values(questionID, learningObjectID)
	_, err := repo.exec(ctx, ins)
	return errors.Wrap(err, "inserting question specific")
}

func (repo *questionRepository) UpdateQuestionDescription(
	ctx context.Context,
	id, studentID, teamID int,
	description string,
	updatedAt time.Time,
) (question.Question, error) {
	res, err := repo.exec(ctx, updateQuestionDescriptionQuery(id, studentID, teamID, description, updatedAt))
	if err != nil {
		return question.Question{}, errors.Wrap(err, "updating question")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return question.Question{}, question.ErrNotFound
	}

	var q question.Question
	err = repo.get(ctx, &q, selectQuestions().Where(sq.Eq{"q.id": id}))
	return q, errors.Wrap(err, "selecting question")
}

// updateQuestionDescriptionQuery only matches the question of that author in that team.
func updateQuestionDescriptionQuery(id, studentID, teamID int, description string, updatedAt time.Time) sq.UpdateBuilder {
	return psql.Update("questions").
		Set("description", description).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id, "student_id": studentID, "team_id": teamID})
}

func (repo *questionRepository) QueryTeamQuestions(ctx context.Context, teamID int) ([]question.Question, error) {
	questions := make([]question.Question, 0)
	err := repo.selectAll(ctx, &questions, selectQuestions().Where(sq.Eq{"q.team_id": teamID}).OrderBy("q.id"))
	return questions, errors.Wrap(err, "selecting team questions")
}

// firstQuestionPerLearningPathQuery joins the team's general questions on the per learning path
// minimum of created_at, computed by a grouped subquery.
func firstQuestionPerLearningPathQuery(teamID int) sq.SelectBuilder {
	firsts := sq.Select("qg2.learning_path_id", "MIN(q2.created_at) AS first_at").
		From("questions q2").
		Join("question_generals qg2 ON qg2.question_id = q2.id").
		Where(sq.Eq{"q2.team_id": teamID}).
		GroupBy("qg2.learning_path_id").
		Prefix("JOIN (").
		Suffix(") f ON f.learning_path_id = qg.learning_path_id AND f.first_at = q.created_at")

	return psql.Select(questionColumns...).
		From("questions q").
		Join("question_generals qg ON qg.question_id = q.id").
		LeftJoin("question_specifics qs ON qs.question_id = q.id").
		JoinClause(firsts).
		Where(sq.Eq{"q.team_id": teamID}).
		OrderBy("qg.learning_path_id", "q.id")
}

func (repo *questionRepository) QueryFirstQuestionPerLearningPath(ctx context.Context, teamID int) ([]question.Question, error) {
	questions := make([]question.Question, 0)
	err := repo.selectAll(ctx, &questions, firstQuestionPerLearningPathQuery(teamID))
	return questions, errors.Wrap(err, "selecting first questions per learning path")
}
