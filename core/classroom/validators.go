package classroom

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/SELab-2/Dwengo-1/core"
)

var (
	teamNameTag  = "teamname"
	teamNameText = "Team name cannot be empty"

	teamMembersTag  = "teammembers"
	teamMembersText = "Each team must have at least one student"

	noTeamIDTag  = "noteamid"
	noTeamIDText = "teamId cannot be set when creating teams"
)

// InitValidators registers the team division validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(teamNameTag, teamNameValidation)
	core.RegisterCustomTranslation(validate, translator, teamNameTag, teamNameText)

	_ = validate.RegisterValidation(teamMembersTag, teamMembersValidation)
	core.RegisterCustomTranslation(validate, translator, teamMembersTag, teamMembersText)

	validate.RegisterStructValidation(newTeamStructValidation, NewTeam{})
	core.RegisterCustomTranslation(validate, translator, noTeamIDTag, noTeamIDText)
}

// teamNameValidation rejects blank team names.
func teamNameValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// teamMembersValidation requires a non-empty list of student ids.
func teamMembersValidation(fl validator.FieldLevel) bool {
	return fl.Field().Len() > 0
}

// newTeamStructValidation rejects a creation entry carrying an id.
func newTeamStructValidation(sl validator.StructLevel) {
	nt := sl.Current().Interface().(NewTeam)
	if nt.TeamID != nil {
		sl.ReportError(nt.TeamID, "teamId", "TeamID", noTeamIDTag, "")
	}
}
