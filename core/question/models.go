package question

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SELab-2/Dwengo-1/core"
)

// Question types
const (
	TypeGeneral  = "GENERAL"  // about a learning path
	TypeSpecific = "SPECIFIC" // about a learning object
)

type Question struct {
	ID               int       `json:"id" db:"id"`
	Description      string    `json:"description" db:"description"`
	Type             string    `json:"type" db:"type"`
	TeamID           int       `json:"teamId" db:"team_id"`
	StudentID        int       `json:"studentId" db:"student_id"`
	LearningPathID   *int      `json:"learningPathId,omitempty" db:"learning_path_id"`
	LearningObjectID *int      `json:"learningObjectId,omitempty" db:"learning_object_id"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

type NewQuestion struct {
	Description string `json:"description" validate:"required"`
	TeamID      int    `json:"teamId" validate:"required,gt=0"`
	StudentID   int    `json:"-"` // the authenticated student
	Type        string `json:"-"`
}

type NewGeneralQuestion struct {
	Description    string `json:"description" validate:"required"`
	TeamID         int    `json:"teamId" validate:"required,gt=0"`
	LearningPathID int    `json:"learningPathId" validate:"required,gt=0"`
}

func (nq *NewGeneralQuestion) Validate(validate *validator.Validate) error {
	nq.Description = core.CleanString(nq.Description)
	return validate.Struct(nq)
}

type NewSpecificQuestion struct {
	Description      string `json:"description" validate:"required"`
	TeamID           int    `json:"teamId" validate:"required,gt=0"`
	LearningObjectID int    `json:"learningObjectId" validate:"required,gt=0"`
}

func (nq *NewSpecificQuestion) Validate(validate *validator.Validate) error {
	nq.Description = core.CleanString(nq.Description)
	return validate.Struct(nq)
}

type UpdateQuestion struct {
	Description string `json:"description" validate:"required"`
	TeamID      int    `json:"teamId" validate:"required,gt=0"`
}

func (uq *UpdateQuestion) Validate(validate *validator.Validate) error {
	uq.Description = core.CleanString(uq.Description)
	return validate.Struct(uq)
}

// TeamQuestions holds all questions of a team and, per learning path, the earliest general question.
type TeamQuestions struct {
	Questions            []Question `json:"questions"`
	FirstPerLearningPath []Question `json:"firstPerLearningPath"`
}
