package refindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/siteexport/internal/models"
)

func TestPlans(t *testing.T) {
	idx := Plans([]*models.Plan{
		{ID: "p1", Name: "Gold"},
		{ID: "p2", Name: "Silver"},
		{Name: "orphan without id"},
		nil,
	})

	require.Len(t, idx, 2)
	assert.Equal(t, "Gold", idx["p1"])
	assert.Equal(t, "Silver", idx["p2"])
	_, ok := idx[""]
	assert.False(t, ok, "malformed record must stay absent from the index")
}

func TestMembers(t *testing.T) {
	tests := []struct {
		name   string
		member *models.Member
		want   MemberInfo
	}{
		{
			name:   "full profile",
			member: &models.Member{ID: "m1", LoginEmail: "a@x.com", Profile: &models.MemberProfile{FirstName: "Ann", LastName: "Lee"}},
			want:   MemberInfo{Email: "a@x.com", FirstName: "Ann", LastName: "Lee", FullName: "Ann Lee"},
		},
		{
			name:   "first name only",
			member: &models.Member{ID: "m2", LoginEmail: "b@x.com", Profile: &models.MemberProfile{FirstName: "Bo"}},
			want:   MemberInfo{Email: "b@x.com", FirstName: "Bo", FullName: "Bo"},
		},
		{
			name:   "empty names resolve to the unknown literal",
			member: &models.Member{ID: "m3", LoginEmail: "c@x.com"},
			want:   MemberInfo{Email: "c@x.com", FullName: "Unknown Name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Members([]*models.Member{tt.member})
			require.Len(t, idx, 1)
			assert.Equal(t, tt.want, idx[tt.member.ID])
		})
	}
}

func TestMembersSkipsMalformed(t *testing.T) {
	idx := Members([]*models.Member{
		{LoginEmail: "noid@x.com"},
		nil,
		{ID: "m1", LoginEmail: "ok@x.com"},
	})
	require.Len(t, idx, 1)
	assert.Contains(t, idx, "m1")
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ann Lee", FullName("Ann", "Lee"))
	assert.Equal(t, "Ann", FullName("Ann", ""))
	assert.Equal(t, "Lee", FullName("", "Lee"))
	assert.Equal(t, UnknownName, FullName("", ""))
}
