package engine

import (
	"context"
	"testing"
)

func TestNormalizeExternalID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12345", "max_12345"},
		{"max_12345", "max_12345"},
		{"user_alice", "user_alice"},
		{"", "demo_user"},
		{"   ", "demo_user"},
		{"12a45", "12a45"},
	}
	for _, c := range cases {
		if got := NormalizeExternalID(c.in); got != c.want {
			t.Errorf("NormalizeExternalID(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveUserIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u1, err := svc.ResolveUser(ctx, "777", nil)
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if u1.ExternalID != "max_777" {
		t.Fatalf("external id = %q, want max_777", u1.ExternalID)
	}
	if u1.Energy != 50 || u1.Level != 1 {
		t.Fatalf("defaults = energy %d level %d, want 50/1", u1.Energy, u1.Level)
	}

	u2, err := svc.ResolveUser(ctx, "max_777", nil)
	if err != nil {
		t.Fatalf("ResolveUser again: %v", err)
	}
	if u2.ID != u1.ID {
		t.Fatalf("resolve created a second user: %d vs %d", u2.ID, u1.ID)
	}
}

func TestLookupUserDoesNotCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.LookupUser(ctx, "never_seen")
	if err != nil {
		t.Fatalf("LookupUser: %v", err)
	}
	if u != nil {
		t.Fatalf("LookupUser created a user: %+v", u)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ResolveUser(ctx, "max_1", nil); err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}

	name := "Alice"
	energy := 80
	u, err := svc.UpdateUserProfile(ctx, "max_1", ProfileUpdate{Name: &name, Energy: &energy})
	if err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if u.Name == nil || *u.Name != "Alice" || u.Energy != 80 || u.Level != 1 {
		t.Fatalf("profile = %+v, want name Alice energy 80 level 1", u)
	}

	if _, err := svc.UpdateUserProfile(ctx, "ghost", ProfileUpdate{Name: &name}); !IsNotFound(err) {
		t.Fatalf("expected not-found for unknown user, got %v", err)
	}
}
