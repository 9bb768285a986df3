package statuses

import (
	"context"
	"testing"

	"github.com/angelmondragon/lockerbox-backend/pkg/db/dbtest"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNormalizesName(t *testing.T) {
	ctx := context.Background()
	svc := NewService(dbtest.Open(t))

	status, err := svc.Create(ctx, CreateInput{Name: " Paid ", Message: "Paid online"})
	require.NoError(t, err)
	assert.Equal(t, "paid", status.Name)

	found, err := svc.ByName(ctx, enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, status.ID, found.ID)

	_, err = svc.ByName(ctx, enums.OrderStatusRetrieved)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
