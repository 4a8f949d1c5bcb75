package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStamp_Stamp(t *testing.T) {
	var s UserStamp

	s.Stamp(0)
	assert.Nil(t, s.CreatedBy)
	assert.Nil(t, s.UpdatedBy)

	s.Stamp(3)
	require.NotNil(t, s.CreatedBy)
	assert.Equal(t, 3, *s.CreatedBy)
	assert.Equal(t, 3, *s.UpdatedBy)

	s.Stamp(5)
	assert.Equal(t, 3, *s.CreatedBy)
	assert.Equal(t, 5, *s.UpdatedBy)

	s.Stamp(0)
	assert.Equal(t, 5, *s.UpdatedBy)
}
