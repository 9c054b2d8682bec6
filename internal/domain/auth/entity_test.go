package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", Profile{FirstName: " Ada", LastName: "Lovelace "}.DisplayName())
	assert.Equal(t, "Ada", Profile{FirstName: "Ada"}.DisplayName())
	assert.Equal(t, "", Profile{}.DisplayName())
}

func TestProfilePatch(t *testing.T) {
	assert.True(t, ProfilePatch{}.IsEmpty())

	p := Profile{UID: "u1", FirstName: "Ada", City: "London"}
	got := ProfilePatch{City: ptr(" Paris "), Phone: ptr("1")}.Apply(p)

	assert.Equal(t, "u1", got.UID)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "Paris", got.City)
	assert.Equal(t, "1", got.Phone)
	assert.Equal(t, "London", p.City)
}

func TestState(t *testing.T) {
	var s State
	assert.False(t, s.Authenticated())
	assert.ErrorIs(t, s.Patch(ProfilePatch{City: ptr("x")}), ErrInvalidProfile)
	assert.ErrorIs(t, s.SetUser(Profile{UID: "  "}), ErrInvalidProfile)

	require.NoError(t, s.SetUser(Profile{UID: " u1 ", Email: "a@b.c"}))
	assert.True(t, s.Authenticated())
	assert.Equal(t, "u1", s.User.UID)

	cp := s.Clone()
	cp.User.Email = "changed"
	assert.Equal(t, "a@b.c", s.User.Email)

	require.NoError(t, s.Patch(ProfilePatch{LastName: ptr("L")}))
	assert.Equal(t, "L", s.User.LastName)

	s.Logout()
	assert.False(t, s.Authenticated())
}
