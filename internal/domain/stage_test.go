package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStages(t *testing.T) {
	t.Parallel()

	list := Stages()
	require.Len(t, list, 8)
	assert.Equal(t, len(list), StageCount)

	ids := make(map[string]bool)
	for _, s := range list {
		assert.False(t, ids[s.ID], "stage IDs must be unique: %s", s.ID)
		ids[s.ID] = true
		assert.Equal(t, "img/"+s.ID+".png", s.Image)
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Description)
	}

	// Mutating the copy must not affect the fixed list
	list[0].Title = "changed"
	assert.NotEqual(t, "changed", Stages()[0].Title)
}

func TestStageByID(t *testing.T) {
	t.Parallel()

	s, err := StageByID("condensacao")
	require.NoError(t, err)
	assert.Equal(t, "Condensação", s.Title)

	_, err = StageByID("granizo")
	assert.True(t, errors.Is(err, ErrStageNotFound))
}
