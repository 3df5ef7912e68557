package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func writeErr(index, code int) mongo.BulkWriteError {
	return mongo.BulkWriteError{
		WriteError: mongo.WriteError{Index: index, Code: code, Message: fmt.Sprintf("code %d", code)},
	}
}

func TestBulkResult(t *testing.T) {
	t.Run("all inserted", func(t *testing.T) {
		res, err := bulkResult(nil, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, res.Inserted)
		assert.Empty(t, res.Failed)
	})

	t.Run("per document failures", func(t *testing.T) {
		bwe := mongo.BulkWriteException{
			WriteErrors: []mongo.BulkWriteError{writeErr(1, 11000), writeErr(3, 121)},
		}

		res, err := bulkResult(bwe, 5)
		require.NoError(t, err)

		assert.Equal(t, 3, res.Inserted)
		require.Len(t, res.Failed, 2)
		assert.Equal(t, 1, res.Failed[0].Index)
		assert.True(t, res.Failed[0].Duplicate)
		assert.Equal(t, 3, res.Failed[1].Index)
		assert.False(t, res.Failed[1].Duplicate)
	})

	t.Run("write concern error is fatal", func(t *testing.T) {
		bwe := mongo.BulkWriteException{
			WriteConcernError: &mongo.WriteConcernError{Code: 64, Message: "waiting for replication timed out"},
			WriteErrors:       []mongo.BulkWriteError{writeErr(0, 11000)},
		}

		res, err := bulkResult(bwe, 2)
		require.Error(t, err)
		assert.Zero(t, res.Inserted)
		assert.Empty(t, res.Failed)
	})

	t.Run("network error is fatal", func(t *testing.T) {
		_, err := bulkResult(context.DeadlineExceeded, 2)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("other error is fatal", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := bulkResult(boom, 2)
		require.ErrorIs(t, err, boom)
	})
}

func TestExistingValues_Guards(t *testing.T) {
	s := &Storage{}

	_, err := s.ExistingValues(context.Background(), "serial", []string{"x"})
	require.Error(t, err)

	found, err := s.ExistingValues(context.Background(), "code", nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}
