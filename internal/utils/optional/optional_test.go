package optional

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchBody struct {
	DueDate  Field[time.Time] `json:"due_date"`
	Assignee Field[string]    `json:"assignee_id"`
}

func TestField_AbsentKey(t *testing.T) {
	var body patchBody
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))

	assert.False(t, body.DueDate.Set)
	assert.False(t, body.Assignee.Set)
}

func TestField_ExplicitNull(t *testing.T) {
	var body patchBody
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":null,"assignee_id":null}`), &body))

	assert.True(t, body.DueDate.Set)
	assert.False(t, body.DueDate.Valid)
	assert.True(t, body.Assignee.Set)
	assert.False(t, body.Assignee.Valid)
}

func TestField_PresentValue(t *testing.T) {
	var body patchBody
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2025-07-01T12:00:00Z","assignee_id":"683cdb8aa96ad71e8e075bd2"}`), &body))

	assert.True(t, body.DueDate.Set)
	assert.True(t, body.DueDate.Valid)
	assert.Equal(t, 2025, body.DueDate.Value.Year())

	assert.True(t, body.Assignee.Set)
	assert.True(t, body.Assignee.Valid)
	assert.Equal(t, "683cdb8aa96ad71e8e075bd2", body.Assignee.Value)
}

func TestField_InvalidValue(t *testing.T) {
	var body patchBody
	assert.Error(t, json.Unmarshal([]byte(`{"due_date":"not-a-date"}`), &body))
}

func TestField_Constructors(t *testing.T) {
	set := Of("x")
	assert.True(t, set.Set)
	assert.True(t, set.Valid)
	assert.Equal(t, "x", set.Value)

	null := Null[string]()
	assert.True(t, null.Set)
	assert.False(t, null.Valid)
}

func TestField_MarshalRoundTrip(t *testing.T) {
	out, err := json.Marshal(Of("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(out))

	out, err = json.Marshal(Null[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = json.Marshal(Field[string]{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out), "unset fields encode as null")
}
