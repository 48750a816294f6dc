package attachments

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAddWithinLimit(t *testing.T) {
	assert.NoError(t, CheckAdd(0, 5, 5))
	assert.NoError(t, CheckAdd(3, 2, 5))
	assert.NoError(t, CheckAdd(4, 1, 5))
}

func TestCheckAddAtLimit(t *testing.T) {
	assert.Error(t, CheckAdd(5, 1, 5))
}

func TestCheckAddBatchOverflowRejectsWholeBatch(t *testing.T) {
	err := CheckAdd(4, 3, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 4, limitErr.Current)
	assert.Equal(t, 3, limitErr.Incoming)
	assert.Equal(t, 5, limitErr.Max)
	assert.Contains(t, limitErr.Error(), "current: 4")
	assert.Contains(t, limitErr.Error(), "trying to add: 3")
}

func TestCheckAddZeroIncoming(t *testing.T) {
	assert.NoError(t, CheckAdd(5, 0, 5))
}
