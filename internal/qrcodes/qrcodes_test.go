package qrcodes

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/angelmondragon/lockerbox-backend/pkg/storage/local"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestPublishStoresPNGUnderUUID(t *testing.T) {
	ctx := context.Background()
	store, err := local.New(t.TempDir())
	require.NoError(t, err)

	id := uuid.MustParse("6f1c1f1e-8f0e-4a57-9d55-0d1b3c1c2f11")
	key, err := NewGenerator(store).Publish(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "qrcodes/6f1c1f1e-8f0e-4a57-9d55-0d1b3c1c2f11.png", key)

	obj, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer obj.Body.Close()
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, pngMagic))
}

func TestPublishRejectsNilUUID(t *testing.T) {
	store, err := local.New(t.TempDir())
	require.NoError(t, err)

	_, err = NewGenerator(store).Publish(context.Background(), uuid.Nil)
	assert.Error(t, err)
}
