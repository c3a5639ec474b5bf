package learning

import (
	"context"

	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
)

var (
	ErrPathNotFound   = core.NewNotFoundError("learning path not found")
	ErrObjectNotFound = core.NewNotFoundError("learning object not found")
)

type (
	// Repository lookups return nil without error when nothing matches.
	Repository interface {
		CreateLearningPath(ctx context.Context, lp LearningPath) (LearningPath, error)
		CreateLearningObject(ctx context.Context, lo LearningObject) (LearningObject, error)
		QueryLearningPaths(ctx context.Context) ([]LearningPath, error)
		GetLearningPathByID(ctx context.Context, id int) (*LearningPath, error)
		GetLearningObjectByID(ctx context.Context, id int) (*LearningObject, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) List(ctx context.Context) ([]LearningPath, error) {
	paths, err := svc.repo.QueryLearningPaths(ctx)
	return paths, errors.Wrap(err, "querying learning paths")
}

func (svc *Service) Get(ctx context.Context, id int) (LearningPath, error) {
	lp, err := svc.repo.GetLearningPathByID(ctx, id)
	if err != nil {
		return LearningPath{}, errors.Wrap(err, "finding learning path")
	}
	if lp == nil {
		return LearningPath{}, ErrPathNotFound
	}
	return *lp, nil
}
