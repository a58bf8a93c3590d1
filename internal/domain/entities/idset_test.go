package entities

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSet_AddRemove(t *testing.T) {
	s := NewIDSet()

	assert.True(t, s.Add(7))
	assert.False(t, s.Add(7))
	assert.True(t, s.Has(7))
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Remove(7))
	assert.False(t, s.Remove(7))
	assert.False(t, s.Has(7))
}

func TestIDSet_SortedAndIntersect(t *testing.T) {
	a := NewIDSet(5, 1, 3, 9)
	b := NewIDSet(3, 4, 5)

	assert.Equal(t, []int64{1, 3, 5, 9}, a.Sorted())
	assert.Equal(t, []int64{3, 5}, a.Intersect(b).Sorted())
	assert.Empty(t, a.Intersect(NewIDSet()).Sorted())
}

func TestIDSet_CloneOfNil(t *testing.T) {
	var s IDSet
	c := s.Clone()
	require.NotNil(t, c)
	assert.True(t, c.Add(1))
}

func TestIDSet_JSON(t *testing.T) {
	data, err := json.Marshal(NewIDSet(3, 1, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(data))

	var nilSet IDSet
	data, err = json.Marshal(nilSet)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	var decoded IDSet
	require.NoError(t, json.Unmarshal([]byte(`[4,4,2]`), &decoded))
	assert.Equal(t, []int64{2, 4}, decoded.Sorted())
}

func TestValidationErrors(t *testing.T) {
	var single error = NewValidationError("id", "id is required")
	assert.True(t, errors.Is(single, ErrValidation))
	assert.Equal(t, "id: id is required", single.Error())

	errs := ValidationErrors{
		{Field: "name", Message: "blank"},
		{Field: "duration", Message: "negative"},
	}
	assert.True(t, errors.Is(errs, ErrValidation))
	assert.Equal(t, "name: blank; duration: negative", errs.Error())
	assert.Equal(t, map[string]string{"name": "blank", "duration": "negative"}, errs.Fields())

	assert.NoError(t, ValidationErrors(nil).orNil())
}
