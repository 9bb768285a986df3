package cities

import (
	"context"
	"testing"

	"github.com/angelmondragon/lockerbox-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndUpdateCity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(dbtest.Open(t))

	city, err := svc.Create(ctx, CreateInput{Name: " Bayonne ", PostalCode: "64100", InseeCode: "64102"})
	require.NoError(t, err)
	assert.Equal(t, "Bayonne", city.Name)

	code := "64101"
	updated, err := svc.Update(ctx, city.ID, UpdateInput{PostalCode: &code})
	require.NoError(t, err)
	assert.Equal(t, "64101", updated.PostalCode)
	assert.Equal(t, "64102", updated.InseeCode)

	_, err = svc.Create(ctx, CreateInput{Name: "Bayonne"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}
