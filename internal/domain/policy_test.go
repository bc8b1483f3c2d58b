package domain

import "testing"

func TestCanMutate(t *testing.T) {
	tests := []struct {
		name    string
		caller  Caller
		ownerID string
		want    bool
	}{
		{"owner", Caller{ID: "u1", Role: RoleRegular}, "u1", true},
		{"admin on foreign resource", Caller{ID: "a1", Role: RoleAdmin}, "u1", true},
		{"regular on foreign resource", Caller{ID: "u2", Role: RoleRegular}, "u1", false},
		{"anonymous", Caller{}, "u1", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanMutate(tc.caller, tc.ownerID); got != tc.want {
				t.Fatalf("CanMutate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanDeleteComment(t *testing.T) {
	tests := []struct {
		name          string
		caller        Caller
		commentAuthor string
		postAuthor    string
		want          bool
	}{
		{"comment author", Caller{ID: "c1", Role: RoleRegular}, "c1", "p1", true},
		{"post author", Caller{ID: "p1", Role: RoleRegular}, "c1", "p1", true},
		{"admin", Caller{ID: "a1", Role: RoleAdmin}, "c1", "p1", true},
		{"third party", Caller{ID: "x1", Role: RoleRegular}, "c1", "p1", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanDeleteComment(tc.caller, tc.commentAuthor, tc.postAuthor); got != tc.want {
				t.Fatalf("CanDeleteComment = %v, want %v", got, tc.want)
			}
		})
	}
}
