package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/opencloud"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

type PublishRequest struct {
	Action        string          `json:"action"`
	PlaceID       opencloud.ID    `json:"placeId,omitempty"`
	UniverseID    opencloud.ID    `json:"universeId,omitempty"`
	WorkspaceData json.RawMessage `json:"workspaceData,omitempty"`
	UserID        opencloud.ID    `json:"userId,omitempty"`
	UserName      string          `json:"userName,omitempty"`
}

func (r *PublishRequest) ToParams(apiKey string) service.PublishParams {
	return service.PublishParams{
		Action:        service.Action(r.Action),
		PlaceID:       r.PlaceID,
		UniverseID:    r.UniverseID,
		WorkspaceData: r.WorkspaceData,
		UserID:        r.UserID,
		UserName:      r.UserName,
		APIKey:        apiKey,
	}
}

type PublishResponse struct {
	Success        bool         `json:"success"`
	Action         string       `json:"action"`
	UniverseID     opencloud.ID `json:"universeId,omitempty"`
	PlaceID        opencloud.ID `json:"placeId"`
	PlaceURL       string       `json:"placeUrl"`
	EditURL        string       `json:"editUrl,omitempty"`
	VersionNumber  any          `json:"versionNumber,omitempty"`
	ProcessingTime string       `json:"processingTime"`
	Message        string       `json:"message"`
}

func ToPublishResponse(r *service.PublishResult) *PublishResponse {
	return &PublishResponse{
		Success:        true,
		Action:         string(r.Action),
		UniverseID:     r.UniverseID,
		PlaceID:        r.PlaceID,
		PlaceURL:       r.PlaceURL,
		EditURL:        r.EditURL,
		VersionNumber:  r.VersionNumber,
		ProcessingTime: FormatProcessingTime(r.ProcessingTime),
		Message:        r.Message,
	}
}

// FormatProcessingTime renders a duration as whole milliseconds, e.g. "842ms".
func FormatProcessingTime(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

type PlaceResponse struct {
	UniverseID  opencloud.ID `json:"universeId"`
	PlaceID     opencloud.ID `json:"placeId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
}

type PlacesResponse struct {
	Success bool            `json:"success"`
	Places  []PlaceResponse `json:"places"`
}

func ToPlacesResponse(places []service.Place) *PlacesResponse {
	resp := &PlacesResponse{
		Success: true,
		Places:  make([]PlaceResponse, 0, len(places)),
	}
	for _, p := range places {
		resp.Places = append(resp.Places, PlaceResponse{
			UniverseID:  p.UniverseID,
			PlaceID:     p.PlaceID,
			Name:        p.Name,
			Description: p.Description,
			URL:         p.URL,
		})
	}
	return resp
}
