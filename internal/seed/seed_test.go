package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnsurer struct {
	names  []string
	failOn string
}

func (r *recordingEnsurer) EnsureByName(_ context.Context, name string, description *string) error {
	r.names = append(r.names, name)
	if name == r.failOn {
		return errors.New("insert failed")
	}
	if description == nil || *description == "" {
		return errors.New("missing description")
	}
	return nil
}

func TestCreateDefaultData(t *testing.T) {
	ensurer := &recordingEnsurer{}

	require.NoError(t, CreateDefaultData(context.Background(), ensurer, zerolog.Nop()))
	assert.Len(t, ensurer.names, len(defaultAreas))
	assert.Contains(t, ensurer.names, "Tecnología")
}

func TestCreateDefaultData_ContinuesAfterFailure(t *testing.T) {
	ensurer := &recordingEnsurer{failOn: "Educación"}

	err := CreateDefaultData(context.Background(), ensurer, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
	assert.Len(t, ensurer.names, len(defaultAreas), "every area is still attempted")
}
