package authctx

import (
	"context"
	"errors"
	"testing"

	"github.com/esteticaio/api/auth"
)

func TestSetGet(t *testing.T) {
	id := &auth.Identity{ID: 1, Email: "a@b.com", Role: auth.RoleAdmin}
	ctx := Set(context.Background(), id)

	got, ok := Get(ctx)
	if !ok || got != id {
		t.Fatalf("expected stored identity, got %v %v", got, ok)
	}
	if MustGet(ctx) != id {
		t.Error("MustGet should return stored identity")
	}
}

func TestGet_Missing(t *testing.T) {
	if _, ok := Get(context.Background()); ok {
		t.Error("expected no identity")
	}
	if _, ok := Get(Set(context.Background(), nil)); ok {
		t.Error("nil identity should read as absent")
	}
	if _, err := GetOrError(context.Background()); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("expected ErrNoIdentity, got %v", err)
	}
}

func TestMustGet_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustGet(context.Background())
}

func TestErrNoIdentity_IsUnauthenticated(t *testing.T) {
	_, err := GetOrError(context.Background())
	if !errors.Is(err, auth.ErrUnauthenticated) {
		t.Errorf("missing identity should read as unauthenticated, got %v", err)
	}
}
