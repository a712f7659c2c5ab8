package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/geotrace/geotrace/internal/shared"
)

// listLimit caps how many entries a single listing returns.
const listLimit = 50

// Service applies the ownership rules over the history store.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddInput carries one search result to record. Loc is the combined
// "lat,lng" string as returned by the lookup service.
type AddInput struct {
	IP       string
	City     string
	Region   string
	Country  string
	Loc      string
	Org      string
	Postal   string
	Timezone string
}

// Add records a search for the calling user.
func (s *Service) Add(ctx context.Context, ident shared.Identity, in AddInput) (*Entry, error) {
	if in.IP == "" {
		return nil, fmt.Errorf("%w: ip address is required", shared.ErrValidation)
	}
	lat, lng := parseLoc(in.Loc)
	entry := &Entry{
		UserID:      ident.UserID,
		IP:          in.IP,
		City:        orUnknown(in.City),
		Region:      orUnknown(in.Region),
		Country:     orUnknown(in.Country),
		CountryCode: orUnknown(in.Country),
		Latitude:    lat,
		Longitude:   lng,
		Org:         orUnknown(in.Org),
		Postal:      orUnknown(in.Postal),
		Timezone:    orUnknown(in.Timezone),
		SearchedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the caller's history, newest first.
func (s *Service) List(ctx context.Context, ident shared.Identity) ([]Entry, error) {
	return s.repo.ListByOwner(ctx, ident.UserID, listLimit)
}

// Get enforces the ownership guard on single-entry reads: an absent
// record answers not-found, a record owned by someone else answers
// forbidden without revealing its contents.
func (s *Service) Get(ctx context.Context, ident shared.Identity, id string) (*Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != ident.UserID {
		return nil, shared.ErrForbidden
	}
	return entry, nil
}

// Delete removes the given entries that belong to the caller.
func (s *Service) Delete(ctx context.Context, ident shared.Identity, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids array is required and must not be empty", shared.ErrValidation)
	}
	return s.repo.DeleteByIDs(ctx, ident.UserID, ids)
}

// Clear removes the caller's entire history.
func (s *Service) Clear(ctx context.Context, ident shared.Identity) (int64, error) {
	return s.repo.DeleteAllByOwner(ctx, ident.UserID)
}

// parseLoc splits a "lat,lng" pair into coordinates. Anything that does
// not parse yields nil rather than an error; coordinates are best-effort.
func parseLoc(loc string) (*float64, *float64) {
	if loc == "" {
		return nil, nil
	}
	parts := strings.SplitN(loc, ",", 2)
	if len(parts) != 2 {
		return nil, nil
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return nil, nil
	}
	return &lat, &lng
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
