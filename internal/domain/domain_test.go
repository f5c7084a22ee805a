package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{" Legal ", RoleLegalOfficer, true},
		{"legalOfficer", RoleLegalOfficer, true},
		{"legal_officer", RoleLegalOfficer, true},
		{"student", RoleGuest, true},
		{"root", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestClientName(t *testing.T) {
	assert.Equal(t, "legal", RoleLegalOfficer.ClientName())
	assert.Equal(t, "admin", RoleAdmin.ClientName())
	assert.Equal(t, "guest", RoleGuest.ClientName())
}

func TestNullableUUID(t *testing.T) {
	id := uuid.New()

	var body struct {
		AssignedTo NullableUUID `json:"assignedTo"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.AssignedTo.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"assignedTo":null}`), &body))
	assert.True(t, body.AssignedTo.Set)
	assert.Nil(t, body.AssignedTo.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"assignedTo":"`+id.String()+`"}`), &body))
	require.NotNil(t, body.AssignedTo.Value)
	assert.Equal(t, id, *body.AssignedTo.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"assignedTo":"nope"}`), &body))
}

func TestNullableUUIDMatches(t *testing.T) {
	id := uuid.New()
	other := uuid.New()

	assert.True(t, NullableUUID{Set: true}.Matches(nil))
	assert.True(t, NullableUUID{Value: &id, Set: true}.Matches(&id))
	assert.False(t, NullableUUID{Value: &id, Set: true}.Matches(&other))
	assert.False(t, NullableUUID{Value: &id, Set: true}.Matches(nil))
	assert.False(t, NullableUUID{Set: true}.Matches(&id))
}

func TestComplaintViewHidesCreator(t *testing.T) {
	name := "Amani"
	c := &Complaint{ID: uuid.New(), Title: "Exam leak", ReporterName: &name}

	v := c.View()
	assert.True(t, v.IsComplaint)
	assert.Nil(t, v.CreatedBy)
	assert.Equal(t, &name, v.Name)
}

func TestPreferencesScan(t *testing.T) {
	var p Preferences
	require.NoError(t, p.Scan(nil))
	assert.Equal(t, DefaultPreferences(), p)

	require.NoError(t, p.Scan([]byte(`{"language":"fr"}`)))
	assert.Equal(t, "fr", p.Language)
	assert.Equal(t, "system", p.Theme)
	assert.True(t, p.EmailNotifications)

	assert.Error(t, p.Scan(42))
}

func TestPagination(t *testing.T) {
	p := PaginationParams{Page: -1, PageSize: 0}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	resp := NewPaginatedResponse([]int{1, 2}, 2, 2, 5)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)
}
