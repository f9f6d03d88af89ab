package service

import (
	"context"
	"errors"
	"testing"

	"github.com/australparking/estacionamiento-api/internal/repository"
)

func TestBayServiceCRUD(t *testing.T) {
	bays := newMemBays()
	svc := NewBayService(bays)
	ctx := context.Background()

	id, err := svc.Add(ctx, &BayDTO{Description: "front row"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "front row" || got.Disabled {
		t.Fatalf("unexpected bay %+v", got)
	}

	// Full replace: every mutable field is overwritten.
	if err := svc.Update(ctx, &BayDTO{ID: id, Description: "front row (painted)", Disabled: true}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = svc.GetByID(ctx, id)
	if got.Description != "front row (painted)" || !got.Disabled {
		t.Fatalf("update did not replace fields: %+v", got)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, id); !errors.Is(err, repository.ErrBayNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrBayNotFound", err)
	}
	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("deleted bay still listed: %d entries", len(all))
	}
	if _, ok := bays.items[id]; !ok {
		t.Fatal("soft delete must keep the row")
	}
}

func TestBayServiceDeleteMissingIsNoOp(t *testing.T) {
	svc := NewBayService(newMemBays())
	if err := svc.Delete(context.Background(), 404); err != nil {
		t.Fatalf("deleting an absent bay must be a no-op, got %v", err)
	}
}

var _ BayStore = (*memBays)(nil)
var _ SessionStore = (*memStore)(nil)
