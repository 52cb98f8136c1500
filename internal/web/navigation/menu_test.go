package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satext/satext/internal/gate"
)

func titles(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Title)
	}

	return out
}

func TestMenu(t *testing.T) {
	tests := []struct {
		name   string
		caller gate.Caller
		want   []string
	}{
		{
			name:   "unlinked",
			caller: gate.Caller{UserID: "u"},
			want:   []string{"Choose corps", "Profile", "Sign out"},
		},
		{
			name:   "waiting for approval",
			caller: gate.Caller{UserID: "u", CorpsID: 1},
			want:   []string{"Approval", "Profile", "Sign out"},
		},
		{
			name:   "approved",
			caller: gate.Caller{UserID: "u", CorpsID: 1, IsApproved: true},
			want:   []string{"Send", "History", "Recipients", "Groups", "Profile", "Sign out"},
		},
		{
			name:   "admin",
			caller: gate.Caller{UserID: "u", CorpsID: 1, IsApproved: true, IsAdmin: true},
			want:   []string{"Send", "History", "Recipients", "Groups", "Approvals", "Profile", "Sign out"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Menu(tt.caller)))
		})
	}
}
