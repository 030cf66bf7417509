// Table service: CRUD plus QR target URLs.
package table

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"tably/internal/types"
)

var ErrBadRequest = errors.New("bad request")

type Service struct {
	store Storage
	// publicBaseURL is the customer-facing origin QR codes point at.
	publicBaseURL string
}

func NewService(store Storage, publicBaseURL string) *Service {
	return &Service{store: store, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *Service) Create(ctx context.Context, tenantID types.ID, displayName string) (*Table, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, ErrBadRequest
	}
	t := &Table{
		ID:          types.NewID(),
		TenantID:    tenantID,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id types.ID) (*Table, error) {
	return s.store.Get(ctx, tenantID, id)
}

func (s *Service) List(ctx context.Context, tenantID types.ID) ([]Table, error) {
	return s.store.List(ctx, tenantID)
}

func (s *Service) Rename(ctx context.Context, tenantID, id types.ID, displayName string) error {
	if strings.TrimSpace(displayName) == "" {
		return ErrBadRequest
	}
	return s.store.Rename(ctx, tenantID, id, displayName)
}

func (s *Service) Delete(ctx context.Context, tenantID, id types.ID) error {
	return s.store.Delete(ctx, tenantID, id)
}

// TableInTenant implements the order intake resolver.
func (s *Service) TableInTenant(ctx context.Context, tableID, tenantID types.ID) (bool, error) {
	return s.store.Exists(ctx, tableID, tenantID)
}

// QRTarget is the URL a printed table QR code encodes. Rendering the code
// image is left to whatever prints it.
func (s *Service) QRTarget(tenantSlug string, tableID types.ID) string {
	return s.publicBaseURL + "/t/" + url.PathEscape(tenantSlug) + "/" + url.PathEscape(string(tableID))
}
