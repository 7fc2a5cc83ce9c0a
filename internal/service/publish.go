package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/common/logger"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/opencloud"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/workspace"
)

type Action string

const (
	ActionPublish Action = "publish"
	ActionCreate  Action = "create"
)

func (a Action) Valid() bool {
	return a == ActionPublish || a == ActionCreate
}

// PlacesPageSize is the fixed page size of the places listing.
const PlacesPageSize = 50

const versionLatest = "latest"

// OpenCloud is the slice of the Open Cloud client the publish flow calls.
type OpenCloud interface {
	CreateUniverse(ctx context.Context, apiKey string, params opencloud.CreateUniverseRequest) (*opencloud.Universe, error)
	PublishPlaceVersion(ctx context.Context, apiKey string, universeID, placeID opencloud.ID, placeXML []byte) (*opencloud.PlaceVersion, error)
	ListUniverses(ctx context.Context, apiKey string, limit int) ([]opencloud.Universe, error)
}

type PublishParams struct {
	Action        Action
	PlaceID       opencloud.ID
	UniverseID    opencloud.ID // optional; defaults to PlaceID for publish
	WorkspaceData json.RawMessage
	UserID        opencloud.ID
	UserName      string
	APIKey        string
}

type PublishResult struct {
	Action         Action
	UniverseID     opencloud.ID
	PlaceID        opencloud.ID
	PlaceURL       string
	EditURL        string
	VersionNumber  any // upstream version number, or "latest"
	ProcessingTime time.Duration
	Message        string
}

type Place struct {
	UniverseID  opencloud.ID
	PlaceID     opencloud.ID
	Name        string
	Description string
	URL         string
}

type PublishService interface {
	Publish(ctx context.Context, params PublishParams) (*PublishResult, error)
	ListPlaces(ctx context.Context, apiKey string) ([]Place, error)
}

type URLConfig struct {
	WebURL     string // e.g. "https://www.roblox.com"
	CreatorURL string // e.g. "https://create.roblox.com"
}

type publishService struct {
	cloud  OpenCloud
	urls   URLConfig
	now    func() time.Time
	logger *slog.Logger
}

type PublishOption func(*publishService)

// WithClock overrides the clock used for processing time and universe names.
func WithClock(now func() time.Time) PublishOption {
	return func(s *publishService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewPublishService(cloud OpenCloud, urls URLConfig, logger *slog.Logger, opts ...PublishOption) PublishService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &publishService{
		cloud:  cloud,
		urls:   urls,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateAPIKey rejects missing keys and keys shorter than minLength.
func ValidateAPIKey(apiKey string, minLength int) error {
	if apiKey == "" || len(apiKey) < minLength {
		return ErrInvalidAPIKey
	}
	return nil
}

// Validate checks a publish request in the order the failures are reported:
// action, workspace data, then place id.
func (p PublishParams) Validate() error {
	if !p.Action.Valid() {
		return ErrInvalidAction
	}
	if !hasWorkspaceData(p.WorkspaceData) {
		return ErrMissingWorkspace
	}
	if p.Action == ActionPublish && p.PlaceID.IsZero() {
		return ErrPlaceIDRequired
	}
	return nil
}

func hasWorkspaceData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", `""`, "false":
		return false
	}
	// any spelling of numeric zero is falsy too
	if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil && f == 0 {
		return false
	}
	return true
}

func (s *publishService) Publish(ctx context.Context, params PublishParams) (*PublishResult, error) {
	start := s.now()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Action:    logger.Ptr(string(params.Action)),
		Component: "relay.publish",
	})
	if !params.PlaceID.IsZero() {
		ctx = logger.WithLogFields(ctx, logger.LogFields{PlaceID: logger.Ptr(params.PlaceID.String())})
	}
	if !params.UserID.IsZero() {
		ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(params.UserID.String())})
	}

	s.logger.InfoContext(ctx, "publish request received",
		"user_name", params.UserName,
		"api_key", logger.MaskSecret(params.APIKey),
	)

	var (
		result *PublishResult
		err    error
	)
	switch params.Action {
	case ActionPublish:
		result, err = s.updatePlace(ctx, params)
	case ActionCreate:
		result, err = s.createPlace(ctx, params)
	}
	if err != nil {
		return nil, err
	}

	result.ProcessingTime = s.now().Sub(start)
	s.logger.InfoContext(ctx, "publish completed",
		"place_id", result.PlaceID.String(),
		"processing_ms", result.ProcessingTime.Milliseconds(),
	)
	return result, nil
}

func (s *publishService) updatePlace(ctx context.Context, params PublishParams) (*PublishResult, error) {
	placeXML, err := workspace.Convert(params.WorkspaceData)
	if err != nil {
		return nil, fmt.Errorf("converting workspace: %w", err)
	}

	universeID := params.UniverseID
	if universeID.IsZero() {
		universeID = params.PlaceID
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{UniverseID: logger.Ptr(universeID.String())})
	s.logger.InfoContext(ctx, "updating existing place", "xml_bytes", len(placeXML))

	version, err := s.cloud.PublishPlaceVersion(ctx, params.APIKey, universeID, params.PlaceID, placeXML)
	if err != nil {
		return nil, fmt.Errorf("publishing place version: %w", err)
	}

	var versionNumber any = versionLatest
	if version != nil && version.VersionNumber != nil && *version.VersionNumber != 0 {
		versionNumber = *version.VersionNumber
	}

	return &PublishResult{
		Action:        ActionPublish,
		PlaceID:       params.PlaceID,
		PlaceURL:      s.placeURL(params.PlaceID),
		VersionNumber: versionNumber,
		Message:       "Place updated successfully!",
	}, nil
}

func (s *publishService) createPlace(ctx context.Context, params PublishParams) (*PublishResult, error) {
	// Convert before provisioning so a bad document never leaves an empty universe behind.
	placeXML, err := workspace.Convert(params.WorkspaceData)
	if err != nil {
		return nil, fmt.Errorf("converting workspace: %w", err)
	}

	s.logger.InfoContext(ctx, "creating new universe")
	universe, err := s.cloud.CreateUniverse(ctx, params.APIKey, opencloud.CreateUniverseRequest{
		DisplayName: "Studio Mobile - " + s.now().Format("1/2/2006"),
		Description: "Created with Roblox Studio Mobile",
		Genre:       "All",
		IsForSale:   false,
		Price:       0,
	})
	if err != nil {
		return nil, fmt.Errorf("creating universe: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UniverseID: logger.Ptr(universe.ID.String()),
		PlaceID:    logger.Ptr(universe.RootPlaceID.String()),
	})
	s.logger.InfoContext(ctx, "universe created, uploading root place")

	if _, err := s.cloud.PublishPlaceVersion(ctx, params.APIKey, universe.ID, universe.RootPlaceID, placeXML); err != nil {
		return nil, fmt.Errorf("publishing root place: %w", err)
	}

	return &PublishResult{
		Action:     ActionCreate,
		UniverseID: universe.ID,
		PlaceID:    universe.RootPlaceID,
		PlaceURL:   s.placeURL(universe.RootPlaceID),
		EditURL:    s.editURL(universe.ID),
		Message:    "New place created successfully!",
	}, nil
}

func (s *publishService) ListPlaces(ctx context.Context, apiKey string) ([]Place, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "relay.places"})

	universes, err := s.cloud.ListUniverses(ctx, apiKey, PlacesPageSize)
	if err != nil {
		return nil, fmt.Errorf("listing universes: %w", err)
	}

	places := make([]Place, 0, len(universes))
	for _, u := range universes {
		places = append(places, Place{
			UniverseID:  u.ID,
			PlaceID:     u.RootPlaceID,
			Name:        u.DisplayName,
			Description: u.Description,
			URL:         s.placeURL(u.RootPlaceID),
		})
	}

	s.logger.DebugContext(ctx, "listed places", "count", len(places))
	return places, nil
}

func (s *publishService) placeURL(placeID opencloud.ID) string {
	return strings.TrimRight(s.urls.WebURL, "/") + "/games/" + placeID.String()
}

func (s *publishService) editURL(universeID opencloud.ID) string {
	return strings.TrimRight(s.urls.CreatorURL, "/") + "/dashboard/creations/experiences/" + universeID.String() + "/overview"
}
