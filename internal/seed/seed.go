package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// AreaEnsurer inserts an interest area unless one with the same name exists
type AreaEnsurer interface {
	EnsureByName(ctx context.Context, name string, description *string) error
}

type defaultArea struct {
	name        string
	description string
}

var defaultAreas = []defaultArea{
	{"Tecnología", "Desarrollo de software, datos y herramientas digitales"},
	{"Emprendimiento", "Creación y gestión de negocios"},
	{"Educación", "Docencia y formación continua"},
	{"Salud", "Bienestar y ciencias de la salud"},
	{"Administración", "Gestión, finanzas y contabilidad"},
	{"Idiomas", "Lenguas extranjeras y comunicación"},
}

// CreateDefaultData creates the default interest areas if they don't exist.
// Every area is attempted; failures are joined into the returned error.
func CreateDefaultData(ctx context.Context, areas AreaEnsurer, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (interest areas)...")

	var finalErr error
	for _, a := range defaultAreas {
		description := a.description
		if err := areas.EnsureByName(ctx, a.name, &description); err != nil {
			lgr.Error().Err(err).Str("area", a.name).Msg("Error creating default interest area")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("areas", len(defaultAreas)).Msg("Default data ready")
	}
	return finalErr
}
