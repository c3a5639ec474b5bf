package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/learning"
)

var (
	learningPathColumns   = []string{"id", "hruid", "language", "title", "description"}
	learningObjectColumns = []string{"id", "hruid", "language", "title", "learning_path_id"}
)

type learningRepository struct {
	base
}

var _ learning.Repository = (*learningRepository)(nil)

func NewLearningRepository(db *sqlx.DB) learning.Repository {
	return &learningRepository{base{db: db}}
}

func (repo *learningRepository) CreateLearningPath(ctx context.Context, lp learning.LearningPath) (learning.LearningPath, error) {
	q := psql.Insert("learning_paths").
		Columns("hruid", "language", "title", "description").
		Values(lp.HRUID, lp.Language, lp.Title, lp.Description).
		Suffix("RETURNING id")
	err := repo.get(ctx, &lp.ID, q)
	return lp, errors.Wrap(err, "inserting learning path")
}

func (repo *learningRepository) CreateLearningObject(ctx context.Context, lo learning.LearningObject) (learning.LearningObject, error) {
	q := psql.Insert("learning_objects").
		Columns("hruid", "language", "title", "learning_path_id").
		Values(lo.HRUID, lo.Language, lo.Title, lo.LearningPathID).
		Suffix("RETURNING id")
	err := repo.get(ctx, &lo.ID, q)
	return lo, errors.Wrap(err, "inserting learning object")
}

func (repo *learningRepository) QueryLearningPaths(ctx context.Context) ([]learning.LearningPath, error) {
	paths := make([]learning.LearningPath, 0)
	err := repo.selectAll(ctx, &paths, psql.Select(learningPathColumns...).From("learning_paths").OrderBy("id"))
	return paths, errors.Wrap(err, "selecting learning paths")
}

func (repo *learningRepository) GetLearningPathByID(ctx context.Context, id int) (*learning.LearningPath, error) {
	var lp learning.LearningPath
	if err := repo.get(ctx, &lp, psql.Select(learningPathColumns...).From("learning_paths").Where(sq.Eq{"id": id})); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "selecting learning path")
	}
	return &lp, nil
}

func (repo *learningRepository) GetLearningObjectByID(ctx context.Context, id int) (*learning.LearningObject, error) {
	var lo learning.LearningObject
	if err := repo.get(ctx, &lo, psql.Select(learningObjectColumns...).From("learning_objects").Where(sq.Eq{"id": id})); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "selecting learning object")
	}
	return &lo, nil
}
