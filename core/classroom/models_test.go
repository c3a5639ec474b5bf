package classroom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SELab-2/Dwengo-1/core"
)

func TestAssignmentQuery_Orderings(t *testing.T) {
	tests := []struct {
		name string
		q    AssignmentQuery
		want []core.DBOrdering
	}{
		{
			name: "Default",
			want: []core.DBOrdering{{Field: "deadline", Ascending: true, NullsLast: true}},
		},
		{
			name: "Unknown field falls back to deadline",
			q:    AssignmentQuery{Sort: "title", Order: "desc"},
			want: []core.DBOrdering{{Field: "deadline", NullsLast: true}},
		},
		{
			name: "Several fields, duplicates dropped",
			q:    AssignmentQuery{Sort: "createdAt, updatedAt,createdAt"},
			want: []core.DBOrdering{
				{Field: "created_at", Ascending: true, NullsLast: true},
				{Field: "updated_at", Ascending: true, NullsLast: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Orderings())
		})
	}
}

func TestAssignmentQuery_LimitValue(t *testing.T) {
	tests := []struct {
		limit   string
		want    int
		wantErr bool
	}{
		{limit: "", want: 5},
		{limit: "12", want: 12},
		{limit: "0", wantErr: true},
		{limit: "-4", wantErr: true},
		{limit: "five", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.limit, func(t *testing.T) {
			got, err := AssignmentQuery{Limit: tt.limit}.LimitValue()
			if tt.wantErr {
				var vErr *core.ValidationError
				if assert.ErrorAs(t, err, &vErr) {
					assert.Equal(t, "limit", vErr.Fields[0].Field)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateJoinCode(8)
		assert.NoError(t, err)
		assert.Len(t, code, 8)
		for _, r := range code {
			assert.Contains(t, joinCodeAlphabet, string(r))
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45)
}
