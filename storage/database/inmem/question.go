package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/SELab-2/Dwengo-1/core/question"
)

type questionRepository struct {
	db *DB
}

var _ question.Repository = (*questionRepository)(nil)

func NewQuestionRepository(db *DB) question.Repository {
	return &questionRepository{db: db}
}

func (repo *questionRepository) CreateQuestion(ctx context.Context, q question.Question) (question.Question, error) {
	defer repo.db.lock(ctx)()

	q.ID = repo.db.data.nextID("questions")
	q.LearningPathID, q.LearningObjectID = nil, nil
	repo.db.data.questions[q.ID] = q
	return q, nil
}

func (repo *questionRepository) CreateQuestionGeneral(ctx context.Context, questionID, learningPathID int) error {
	defer repo.db.lock(ctx)()

	q, ok := repo.db.data.questions[questionID]
	if !ok {
		return question.ErrNotFound
	}
	q.LearningPathID = &learningPathID
	repo.db.data.questions[questionID] = q
	return nil
}

func (repo *questionRepository) CreateQuestionSpecific(ctx context.Context, questionID, learningObjectID int) error {
	defer repo.db.lock(ctx)()

	q, ok := repo.db.data.questions[questionID]
	if !ok {
		return question.ErrNotFound
	}
	q.LearningObjectID = &learningObjectID
	repo.db.data.questions[questionID] = q
	return nil
}

func (repo *questionRepository) UpdateQuestionDescription(
	ctx context.Context,
	id, studentID, teamID int,
	description string,
	updatedAt time.Time,
) (question.Question, error) {
	defer repo.db.lock(ctx)()

	q, ok := repo.db.data.questions[id]
	if !ok || q.StudentID != studentID || q.TeamID != teamID {
		return question.Question{}, question.ErrNotFound
	}
	q.Description = description
	q.UpdatedAt = updatedAt
	repo.db.data.questions[id] = q
	return q, nil
}

func (repo *questionRepository) QueryTeamQuestions(ctx context.Context, teamID int) ([]question.Question, error) {
	defer repo.db.lock(ctx)()

	questions := make([]question.Question, 0)
	for _, id := range sortedKeys(repo.db.data.questions) {
		if q := repo.db.data.questions[id]; q.TeamID == teamID {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (repo *questionRepository) QueryFirstQuestionPerLearningPath(ctx context.Context, teamID int) ([]question.Question, error) {
	defer repo.db.lock(ctx)()

	// learning path: min(created_at)
	firsts := make(map[int]time.Time)
	for _, q := range repo.db.data.questions {
		if q.TeamID != teamID || q.LearningPathID == nil {
			continue
		}
		if first, ok := firsts[*q.LearningPathID]; !ok || q.CreatedAt.Before(first) {
			firsts[*q.LearningPathID] = q.CreatedAt
		}
	}

	questions := make([]question.Question, 0, len(firsts))
	for _, id := range sortedKeys(repo.db.data.questions) {
		q := repo.db.data.questions[id]
		if q.TeamID != teamID || q.LearningPathID == nil {
			continue
		}
		if q.CreatedAt.Equal(firsts[*q.LearningPathID]) {
			questions = append(questions, q)
		}
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return *questions[i].LearningPathID < *questions[j].LearningPathID
	})
	return questions, nil
}
