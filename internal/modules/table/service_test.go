package table

import (
	"context"
	"sync"
	"testing"

	"tably/internal/types"
)

func TestQRTarget(t *testing.T) {
	svc := NewService(newMemTableStore(), "https://order.example.com/")

	got := svc.QRTarget("trattoria-roma", "table-1")
	want := "https://order.example.com/t/trattoria-roma/table-1"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}

	// Path segments are escaped, so a hostile slug cannot break out of the
	// URL structure.
	got = svc.QRTarget("a/b", "x?y")
	want = "https://order.example.com/t/a%2Fb/x%3Fy"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestCreateRequiresDisplayName(t *testing.T) {
	svc := NewService(newMemTableStore(), "https://order.example.com")
	for _, name := range []string{"", "   ", "\t"} {
		if _, err := svc.Create(context.Background(), types.NewID(), name); err != ErrBadRequest {
			t.Errorf("name %q: expected ErrBadRequest, got %v", name, err)
		}
	}
}

func TestTableInTenant(t *testing.T) {
	store := newMemTableStore()
	svc := NewService(store, "https://order.example.com")
	ctx := context.Background()
	tenantA := types.NewID()
	tenantB := types.NewID()

	tbl, err := svc.Create(ctx, tenantA, "Window 2")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if ok, err := svc.TableInTenant(ctx, tbl.ID, tenantA); err != nil || !ok {
		t.Fatalf("own tenant: ok=%v err=%v", ok, err)
	}
	if ok, err := svc.TableInTenant(ctx, tbl.ID, tenantB); err != nil || ok {
		t.Fatalf("foreign tenant must not own the table: ok=%v err=%v", ok, err)
	}
	if ok, err := svc.TableInTenant(ctx, types.NewID(), tenantA); err != nil || ok {
		t.Fatalf("unknown table: ok=%v err=%v", ok, err)
	}
}

func TestRenameAndDeleteScopedToTenant(t *testing.T) {
	store := newMemTableStore()
	svc := NewService(store, "https://order.example.com")
	ctx := context.Background()
	tenantA := types.NewID()
	tenantB := types.NewID()

	tbl, err := svc.Create(ctx, tenantA, "Patio 1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Rename(ctx, tenantB, tbl.ID, "Hijacked"); err != ErrNotFound {
		t.Fatalf("cross-tenant rename: expected ErrNotFound, got %v", err)
	}
	if err := svc.Rename(ctx, tenantA, tbl.ID, "Patio 2"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := svc.Get(ctx, tenantA, tbl.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DisplayName != "Patio 2" {
		t.Fatalf("rename not applied: %s", got.DisplayName)
	}

	if err := svc.Delete(ctx, tenantB, tbl.ID); err != ErrNotFound {
		t.Fatalf("cross-tenant delete: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, tenantA, tbl.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, tenantA, tbl.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

type memTableStore struct {
	mu     sync.Mutex
	tables map[types.ID]*Table
}

func newMemTableStore() *memTableStore {
	return &memTableStore{tables: make(map[types.ID]*Table)}
}

func (s *memTableStore) Create(_ context.Context, t *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tables[t.ID] = &cp
	return nil
}

func (s *memTableStore) Get(_ context.Context, tenantID, id types.ID) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok || t.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memTableStore) List(_ context.Context, tenantID types.ID) ([]Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Table{}
	for _, t := range s.tables {
		if t.TenantID == tenantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTableStore) Rename(_ context.Context, tenantID, id types.ID, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok || t.TenantID != tenantID {
		return ErrNotFound
	}
	t.DisplayName = displayName
	return nil
}

func (s *memTableStore) Delete(_ context.Context, tenantID, id types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok || t.TenantID != tenantID {
		return ErrNotFound
	}
	delete(s.tables, id)
	return nil
}

func (s *memTableStore) Exists(_ context.Context, id, tenantID types.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	return ok && t.TenantID == tenantID, nil
}
