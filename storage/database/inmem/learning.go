package inmemdb

import (
	"context"

	"github.com/SELab-2/Dwengo-1/core/learning"
)

type learningRepository struct {
	db *DB
}

var _ learning.Repository = (*learningRepository)(nil)

func NewLearningRepository(db *DB) learning.Repository {
	return &learningRepository{db: db}
}

func (repo *learningRepository) CreateLearningPath(ctx context.Context, lp learning.LearningPath) (learning.LearningPath, error) {
	defer repo.db.lock(ctx)()

	lp.ID = repo.db.data.nextID("learning_paths")
	repo.db.data.learningPaths[lp.ID] = lp
	return lp, nil
}

func (repo *learningRepository) CreateLearningObject(ctx context.Context, lo learning.LearningObject) (learning.LearningObject, error) {
	defer repo.db.lock(ctx)()

	lo.ID = repo.db.data.nextID("learning_objects")
	repo.db.data.learningObjects[lo.ID] = lo
	return lo, nil
}

func (repo *learningRepository) QueryLearningPaths(ctx context.Context) ([]learning.LearningPath, error) {
	defer repo.db.lock(ctx)()

	paths := make([]learning.LearningPath, 0, len(repo.db.data.learningPaths))
	for _, id := range sortedKeys(repo.db.data.learningPaths) {
		paths = append(paths, repo.db.data.learningPaths[id])
	}
	return paths, nil
}

func (repo *learningRepository) GetLearningPathByID(ctx context.Context, id int) (*learning.LearningPath, error) {
	defer repo.db.lock(ctx)()

	if lp, ok := repo.db.data.learningPaths[id]; ok {
		return &lp, nil
	}
	return nil, nil
}

func (repo *learningRepository) GetLearningObjectByID(ctx context.Context, id int) (*learning.LearningObject, error) {
	defer repo.db.lock(ctx)()

	if lo, ok := repo.db.data.learningObjects[id]; ok {
		return &lo, nil
	}
	return nil, nil
}
