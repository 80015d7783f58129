package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeUneditedPost(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := Post{ID: 4, Content: "hello", CreatedAt: created, User: User{Username: "alice"}}

	b, err := json.Marshal(p.Serialize())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"user":"alice","body":"hello","posting_date":"2024-03-01T10:00:00Z"}`, string(b))
}

func TestSerializeEditedPost(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	edited := created.Add(time.Hour)
	p := Post{ID: 4, Content: "hello2", CreatedAt: created, Edited: true, EditedAt: &edited, User: User{Username: "alice"}}

	out := p.Serialize()
	require.NotNil(t, out.Edit)
	assert.True(t, out.Edit.Edited)
	assert.Equal(t, edited, out.Edit.EditingDate)
}

func TestBeforeSaveRejectsInconsistentEditState(t *testing.T) {
	now := time.Now()

	assert.NoError(t, (&Post{}).BeforeSave(nil))
	assert.NoError(t, (&Post{Edited: true, EditedAt: &now}).BeforeSave(nil))
	assert.ErrorIs(t, (&Post{Edited: true}).BeforeSave(nil), ErrEditStateInconsistent)
	assert.ErrorIs(t, (&Post{EditedAt: &now}).BeforeSave(nil), ErrEditStateInconsistent)
}
