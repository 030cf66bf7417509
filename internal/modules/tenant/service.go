// Tenant service: superadmin tenant control and staff administration.
package tenant

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tably/internal/modules/audit"
	"tably/internal/types"
)

var ErrBadRequest = errors.New("bad request")

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,38}[a-z0-9])?$`)

type Service struct {
	store Storage
	audit audit.Recorder
	log   zerolog.Logger
}

func NewService(store Storage, rec audit.Recorder, log zerolog.Logger) *Service {
	return &Service{store: store, audit: rec, log: log}
}

type CreateCommand struct {
	Name        string
	Slug        string
	OwnerUserID types.ID
	Tier        string
}

// Create provisions a tenant together with its owner membership.
func (s *Service) Create(ctx context.Context, cmd CreateCommand, actor types.ID) (*Tenant, error) {
	if cmd.Name == "" || cmd.OwnerUserID == "" || !slugPattern.MatchString(cmd.Slug) {
		return nil, ErrBadRequest
	}
	if _, err := s.store.GetBySlug(ctx, cmd.Slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	tier := cmd.Tier
	if tier == "" {
		tier = TierFree
	}
	now := time.Now().UTC()
	t := &Tenant{
		ID:                 types.NewID(),
		Name:               cmd.Name,
		Slug:               cmd.Slug,
		SubscriptionTier:   tier,
		SubscriptionStatus: StatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	if err := s.store.AddMember(ctx, &Member{
		ID:        types.NewID(),
		TenantID:  t.ID,
		UserID:    cmd.OwnerUserID,
		Role:      RoleOwner,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		// Keep the pair atomic in spirit: a tenant with no owner is
		// unusable, so undo the tenant row.
		if derr := s.store.Delete(ctx, t.ID); derr != nil {
			s.log.Error().Err(derr).Str("tenant_id", string(t.ID)).Msg("tenant: rollback after member insert failed")
		}
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:   &actor,
		ActorType: "superadmin",
		TenantID:  &t.ID,
		Action:    "tenant.create",
		Metadata:  map[string]any{"slug": t.Slug, "name": t.Name},
	})
	return t, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Tenant, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Tenant, error) {
	return s.store.List(ctx)
}

func (s *Service) Suspend(ctx context.Context, id types.ID, actor types.ID) error {
	return s.setStatus(ctx, id, StatusSuspended, "tenant.suspend", actor)
}

func (s *Service) Resume(ctx context.Context, id types.ID, actor types.ID) error {
	return s.setStatus(ctx, id, StatusActive, "tenant.resume", actor)
}

func (s *Service) setStatus(ctx context.Context, id types.ID, status, action string, actor types.ID) error {
	if err := s.store.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:   &actor,
		ActorType: "superadmin",
		TenantID:  &id,
		Action:    action,
	})
	return nil
}

// Delete removes the tenant and everything under it (orders, items, menu,
// tables cascade at the schema level).
func (s *Service) Delete(ctx context.Context, id types.ID, actor types.ID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:   &actor,
		ActorType: "superadmin",
		TenantID:  &id,
		Action:    "tenant.delete",
	})
	return nil
}

type ProfileUpdateCommand struct {
	TenantID types.ID
	Name     *string
	LogoURL  *string
}

// UpdateProfile changes the restaurant's display name and logo. An empty
// logo URL clears it.
func (s *Service) UpdateProfile(ctx context.Context, cmd ProfileUpdateCommand, actor types.ID) (*Tenant, error) {
	t, err := s.store.Get(ctx, cmd.TenantID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, ErrBadRequest
		}
		t.Name = name
	}
	if cmd.LogoURL != nil {
		if *cmd.LogoURL == "" {
			t.LogoURL = nil
		} else {
			t.LogoURL = cmd.LogoURL
		}
	}
	if err := s.store.UpdateProfile(ctx, t); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:   &actor,
		ActorType: "admin",
		TenantID:  &cmd.TenantID,
		Action:    "tenant.update_profile",
		Metadata:  map[string]any{"name": t.Name},
	})
	return t, nil
}

// TenantIDBySlug implements the order intake resolver: only active tenants
// accept new orders.
func (s *Service) TenantIDBySlug(ctx context.Context, slug string) (types.ID, bool, error) {
	t, err := s.store.GetBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if t.SubscriptionStatus != StatusActive {
		return "", false, nil
	}
	return t.ID, true, nil
}

func (s *Service) ListMembers(ctx context.Context, tenantID types.ID) ([]Member, error) {
	return s.store.ListMembers(ctx, tenantID)
}

func (s *Service) Member(ctx context.Context, tenantID, userID types.ID) (*Member, error) {
	return s.store.GetMember(ctx, tenantID, userID)
}

type MemberUpdateCommand struct {
	TenantID types.ID
	UserID   types.ID
	Role     *Role
	IsActive *bool
}

func (s *Service) UpdateMember(ctx context.Context, cmd MemberUpdateCommand, actor types.ID) (*Member, error) {
	m, err := s.store.GetMember(ctx, cmd.TenantID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if cmd.Role != nil {
		m.Role = *cmd.Role
	}
	if cmd.IsActive != nil {
		m.IsActive = *cmd.IsActive
	}
	if err := s.store.UpdateMember(ctx, m); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:   &actor,
		ActorType: "admin",
		TenantID:  &cmd.TenantID,
		Action:    "member.update",
		Metadata:  map[string]any{"user_id": string(cmd.UserID), "role": string(m.Role), "is_active": m.IsActive},
	})
	return m, nil
}

type MemberAddCommand struct {
	TenantID types.ID
	UserID   types.ID
	Role     Role
}

func (s *Service) AddMember(ctx context.Context, cmd MemberAddCommand, actor types.ID) (*Member, error) {
	if _, err := s.store.GetMember(ctx, cmd.TenantID, cmd.UserID); err == nil {
		return nil, ErrMemberExists
	} else if !errors.Is(err, ErrMemberMissing) {
		return nil, err
	}
	now := time.Now().UTC()
	m := &Member{
		ID:        types.NewID(),
		TenantID:  cmd.TenantID,
		UserID:    cmd.UserID,
		Role:      cmd.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.AddMember(ctx, m); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:   &actor,
		ActorType: "admin",
		TenantID:  &cmd.TenantID,
		Action:    "member.add",
		Metadata:  map[string]any{"user_id": string(cmd.UserID), "role": string(cmd.Role)},
	})
	return m, nil
}
