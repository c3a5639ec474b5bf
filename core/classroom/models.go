package classroom

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/user"
)

type Class struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	JoinCode  string    `json:"joinCode" db:"join_code"`
	TeacherID int       `json:"teacherId" db:"teacher_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type NewClass struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

type JoinRequest struct {
	JoinCode string `json:"joinCode" query:"joinCode" validate:"required"`
}

func (jr *JoinRequest) Validate(validate *validator.Validate) error {
	jr.JoinCode = strings.ToUpper(core.CleanString(jr.JoinCode))
	return validate.Struct(jr)
}

type Assignment struct {
	ID             int        `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	LearningPathID int        `json:"learningPathId" db:"learning_path_id"`
	Deadline       *time.Time `json:"deadline" db:"deadline"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
	Classes        []Class    `json:"classes,omitempty" db:"-"`
	Teams          []Team     `json:"teams,omitempty" db:"-"`
}

type NewAssignment struct {
	Title          string     `json:"title" validate:"required,max=255"`
	Description    string     `json:"description"`
	LearningPathID int        `json:"learningPathId" validate:"required,gt=0"`
	Deadline       *time.Time `json:"deadline"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

// UpdateAssignment repoints an assignment to another learning path. Other fields are optional.
type UpdateAssignment struct {
	LearningPathID int        `json:"learningPathId" validate:"required,gt=0"`
	Title          *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description    *string    `json:"description"`
	Deadline       *time.Time `json:"deadline"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	if ua.Title != nil {
		title := core.CleanString(*ua.Title)
		ua.Title = &title
	}
	return validate.Struct(ua)
}

var (
	defaultAssignmentSort  = "deadline"
	defaultAssignmentLimit = 5

	// sortable fields and their columns
	assignmentSortFields = map[string]string{
		"deadline":  "deadline",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}
)

// AssignmentQuery holds the raw sort/order/limit query params of the student assignment listings.
type AssignmentQuery struct {
	Sort  string `query:"sort"`
	Order string `query:"order" validate:"omitempty,oneof=asc desc"`
	Limit string `query:"limit" validate:"omitempty,posint"`
}

func (q *AssignmentQuery) Validate(validate *validator.Validate) error {
	q.Order = core.CleanString(q.Order, true /* lower */)
	q.Limit = core.CleanString(q.Limit)
	return validate.Struct(q)
}

// Orderings maps the comma-separated sort fields onto columns. Unknown fields are dropped; none left means deadline.
func (q AssignmentQuery) Orderings() []core.DBOrdering {
	asc := q.Order != "desc"
	seen := make(map[string]bool)
	orderings := make([]core.DBOrdering, 0, len(assignmentSortFields))
	for _, field := range strings.Split(q.Sort, ",") {
		col, ok := assignmentSortFields[strings.TrimSpace(field)]
		if !ok || seen[col] {
			continue
		}
		seen[col] = true
		orderings = append(orderings, core.DBOrdering{Field: col, Ascending: asc, NullsLast: true})
	}
	if len(orderings) == 0 {
		orderings = append(orderings, core.DBOrdering{
			Field: assignmentSortFields[defaultAssignmentSort], Ascending: asc, NullsLast: true,
		})
	}
	return orderings
}

// LimitValue returns the limit, the default when absent, or a validation error.
func (q AssignmentQuery) LimitValue() (int, error) {
	if q.Limit == "" {
		return defaultAssignmentLimit, nil
	}
	n, err := strconv.Atoi(q.Limit)
	if err != nil || n <= 0 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "limit", Error: "limit must be a positive integer"})
	}
	return n, nil
}

type Team struct {
	ID           int            `json:"id" db:"id"`
	TeamName     string         `json:"teamName" db:"team_name"`
	AssignmentID int            `json:"assignmentId" db:"assignment_id"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
	Students     []user.Profile `json:"students,omitempty" db:"-"`
	Assignment   *Assignment    `json:"assignment,omitempty" db:"-"`
}

// NewTeam is one entry of a creation division. TeamID must stay unset.
type NewTeam struct {
	TeamID     *int   `json:"teamId,omitempty"`
	TeamName   string `json:"teamName" validate:"teamname"`
	StudentIDs []int  `json:"studentIds" validate:"teammembers,dive,gt=0"`
}

type NewTeamDivision struct {
	Teams []NewTeam `json:"teams" validate:"required,min=1,dive"`
}

func (d *NewTeamDivision) Validate(validate *validator.Validate) error {
	for i := range d.Teams {
		d.Teams[i].TeamName = core.CleanString(d.Teams[i].TeamName)
	}
	return validate.Struct(d)
}

// IdentifiableTeam is one entry of an update division, naming an existing team.
type IdentifiableTeam struct {
	TeamID     int    `json:"teamId" validate:"required,gt=0"`
	TeamName   string `json:"teamName" validate:"teamname"`
	StudentIDs []int  `json:"studentIds" validate:"teammembers,dive,gt=0"`
}

type IdentifiableTeamDivision struct {
	Teams []IdentifiableTeam `json:"teams" validate:"required,min=1,dive"`
}

func (d *IdentifiableTeamDivision) Validate(validate *validator.Validate) error {
	for i := range d.Teams {
		d.Teams[i].TeamName = core.CleanString(d.Teams[i].TeamName)
	}
	return validate.Struct(d)
}
