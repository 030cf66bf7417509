package tenant

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"tably/internal/modules/audit"
	"tably/internal/types"
)

func TestCreateProvisionsOwner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	owner := types.NewID()

	tn, err := svc.Create(ctx, CreateCommand{Name: "Trattoria Roma", Slug: "trattoria-roma", OwnerUserID: owner}, types.NewID())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tn.SubscriptionTier != TierFree {
		t.Fatalf("expected default free tier, got %s", tn.SubscriptionTier)
	}
	if tn.SubscriptionStatus != StatusActive {
		t.Fatalf("expected active status, got %s", tn.SubscriptionStatus)
	}

	m, err := svc.Member(ctx, tn.ID, owner)
	if err != nil {
		t.Fatalf("member: %v", err)
	}
	if m.Role != RoleOwner || !m.IsActive {
		t.Fatalf("unexpected owner membership: %+v", m)
	}
}

func TestCreateSlugValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, slug := range []string{"", "-leading", "trailing-", "UPPER", "has space", "a", "café"} {
		cmd := CreateCommand{Name: "X", Slug: slug, OwnerUserID: types.NewID()}
		if _, err := svc.Create(ctx, cmd, types.NewID()); err != ErrBadRequest {
			t.Errorf("slug %q: expected ErrBadRequest, got %v", slug, err)
		}
	}
	for _, slug := range []string{"ab", "cafe-9", "a1-b2-c3"} {
		cmd := CreateCommand{Name: "X", Slug: slug, OwnerUserID: types.NewID()}
		if _, err := svc.Create(ctx, cmd, types.NewID()); err != nil {
			t.Errorf("slug %q: unexpected error %v", slug, err)
		}
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cmd := CreateCommand{Name: "First", Slug: "bistro", OwnerUserID: types.NewID()}
	if _, err := svc.Create(ctx, cmd, types.NewID()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	cmd.Name = "Second"
	if _, err := svc.Create(ctx, cmd, types.NewID()); err != ErrSlugTaken {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestCreateRollsBackOnMemberFailure(t *testing.T) {
	svc, store := newTestService()
	store.addMemberErr = errors.New("insert failed")

	_, err := svc.Create(context.Background(), CreateCommand{Name: "X", Slug: "cafe", OwnerUserID: types.NewID()}, types.NewID())
	if err == nil {
		t.Fatal("expected create to fail")
	}
	if n := store.tenantCount(); n != 0 {
		t.Fatalf("expected tenant row rolled back, found %d", n)
	}
}

func TestTenantIDBySlugExcludesSuspended(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := types.NewID()

	tn, err := svc.Create(ctx, CreateCommand{Name: "X", Slug: "cafe", OwnerUserID: types.NewID()}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id, ok, err := svc.TenantIDBySlug(ctx, "cafe")
	if err != nil || !ok || id != tn.ID {
		t.Fatalf("active lookup: id=%s ok=%v err=%v", id, ok, err)
	}

	if err := svc.Suspend(ctx, tn.ID, actor); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if _, ok, err := svc.TenantIDBySlug(ctx, "cafe"); err != nil || ok {
		t.Fatalf("suspended tenant must not resolve: ok=%v err=%v", ok, err)
	}

	if err := svc.Resume(ctx, tn.ID, actor); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, ok, _ := svc.TenantIDBySlug(ctx, "cafe"); !ok {
		t.Fatal("resumed tenant must resolve again")
	}

	if _, ok, err := svc.TenantIDBySlug(ctx, "missing"); err != nil || ok {
		t.Fatalf("unknown slug must not resolve: ok=%v err=%v", ok, err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := types.NewID()

	tn, err := svc.Create(ctx, CreateCommand{Name: "Old Name", Slug: "cafe", OwnerUserID: types.NewID()}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Trattoria Nuova"
	logo := "https://cdn.example/logo.png"
	got, err := svc.UpdateProfile(ctx, ProfileUpdateCommand{TenantID: tn.ID, Name: &name, LogoURL: &logo}, actor)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if got.Name != name || got.LogoURL == nil || *got.LogoURL != logo {
		t.Fatalf("unexpected profile after update: %+v", got)
	}

	stored, err := svc.Get(ctx, tn.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Name != name || stored.LogoURL == nil || *stored.LogoURL != logo {
		t.Fatalf("update not persisted: %+v", stored)
	}

	// An empty logo URL clears it; an omitted name stays put.
	empty := ""
	got, err = svc.UpdateProfile(ctx, ProfileUpdateCommand{TenantID: tn.ID, LogoURL: &empty}, actor)
	if err != nil {
		t.Fatalf("clear logo: %v", err)
	}
	if got.Name != name || got.LogoURL != nil {
		t.Fatalf("unexpected profile after clear: %+v", got)
	}

	blank := "  "
	if _, err := svc.UpdateProfile(ctx, ProfileUpdateCommand{TenantID: tn.ID, Name: &blank}, actor); err != ErrBadRequest {
		t.Fatalf("blank name: expected ErrBadRequest, got %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, ProfileUpdateCommand{TenantID: types.NewID(), Name: &name}, actor); err != ErrNotFound {
		t.Fatalf("unknown tenant: expected ErrNotFound, got %v", err)
	}
}

func TestAddMemberRejectsDuplicate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := types.NewID()

	tn, err := svc.Create(ctx, CreateCommand{Name: "X", Slug: "cafe", OwnerUserID: types.NewID()}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	user := types.NewID()
	if _, err := svc.AddMember(ctx, MemberAddCommand{TenantID: tn.ID, UserID: user, Role: RoleWaiter}, actor); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if _, err := svc.AddMember(ctx, MemberAddCommand{TenantID: tn.ID, UserID: user, Role: RoleKitchen}, actor); err != ErrMemberExists {
		t.Fatalf("expected ErrMemberExists, got %v", err)
	}
}

func TestUpdateMember(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	actor := types.NewID()

	tn, err := svc.Create(ctx, CreateCommand{Name: "X", Slug: "cafe", OwnerUserID: types.NewID()}, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	user := types.NewID()
	if _, err := svc.AddMember(ctx, MemberAddCommand{TenantID: tn.ID, UserID: user, Role: RoleWaiter}, actor); err != nil {
		t.Fatalf("add member: %v", err)
	}

	role := RoleManager
	inactive := false
	m, err := svc.UpdateMember(ctx, MemberUpdateCommand{TenantID: tn.ID, UserID: user, Role: &role, IsActive: &inactive}, actor)
	if err != nil {
		t.Fatalf("update member: %v", err)
	}
	if m.Role != RoleManager || m.IsActive {
		t.Fatalf("unexpected member after update: %+v", m)
	}

	if _, err := svc.UpdateMember(ctx, MemberUpdateCommand{TenantID: tn.ID, UserID: types.NewID()}, actor); err != ErrMemberMissing {
		t.Fatalf("expected ErrMemberMissing, got %v", err)
	}
}

// --- in-memory Storage ---

type memTenantStore struct {
	mu           sync.Mutex
	tenants      map[types.ID]*Tenant
	members      map[types.ID][]*Member
	addMemberErr error
}

func newTestService() (*Service, *memTenantStore) {
	store := &memTenantStore{
		tenants: make(map[types.ID]*Tenant),
		members: make(map[types.ID][]*Member),
	}
	return NewService(store, audit.NopRecorder{}, zerolog.Nop()), store
}

func (s *memTenantStore) tenantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tenants)
}

func (s *memTenantStore) Create(_ context.Context, t *Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tenants[t.ID] = &cp
	return nil
}

func (s *memTenantStore) Get(_ context.Context, id types.ID) (*Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memTenantStore) GetBySlug(_ context.Context, slug string) (*Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tenants {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memTenantStore) List(_ context.Context) ([]Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		out = append(out, *t)
	}
	return out, nil
}

func (s *memTenantStore) SetStatus(_ context.Context, id types.ID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return ErrNotFound
	}
	t.SubscriptionStatus = status
	return nil
}

func (s *memTenantStore) UpdateProfile(_ context.Context, t *Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex, ok := s.tenants[t.ID]
	if !ok {
		return ErrNotFound
	}
	ex.Name = t.Name
	ex.LogoURL = t.LogoURL
	return nil
}

func (s *memTenantStore) Delete(_ context.Context, id types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[id]; !ok {
		return ErrNotFound
	}
	delete(s.tenants, id)
	delete(s.members, id)
	return nil
}

func (s *memTenantStore) AddMember(_ context.Context, m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addMemberErr != nil {
		return s.addMemberErr
	}
	cp := *m
	s.members[m.TenantID] = append(s.members[m.TenantID], &cp)
	return nil
}

func (s *memTenantStore) ListMembers(_ context.Context, tenantID types.ID) ([]Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Member{}
	for _, m := range s.members[tenantID] {
		out = append(out, *m)
	}
	return out, nil
}

func (s *memTenantStore) GetMember(_ context.Context, tenantID, userID types.ID) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members[tenantID] {
		if m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, ErrMemberMissing
}

func (s *memTenantStore) UpdateMember(_ context.Context, m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ex := range s.members[m.TenantID] {
		if ex.UserID == m.UserID {
			cp := *m
			s.members[m.TenantID][i] = &cp
			return nil
		}
	}
	return ErrMemberMissing
}
