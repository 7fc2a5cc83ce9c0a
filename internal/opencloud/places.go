package opencloud

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// VersionTypePublished makes the uploaded version live immediately.
const VersionTypePublished = "Published"

type PlaceVersion struct {
	// VersionNumber is nil when the upstream body did not carry one.
	VersionNumber *int64 `json:"versionNumber"`
}

// PublishPlaceVersion uploads an XML place document as a new published version.
// Every call creates a new version; nothing is deduplicated.
func (c *Client) PublishPlaceVersion(ctx context.Context, apiKey string, universeID, placeID ID, placeXML []byte) (*PlaceVersion, error) {
	if universeID.IsZero() || placeID.IsZero() {
		return nil, fmt.Errorf("opencloud: universe id and place id are required")
	}

	path := fmt.Sprintf("/universes/v1/%s/places/%s/versions",
		url.PathEscape(universeID.String()),
		url.PathEscape(placeID.String()),
	)

	var version PlaceVersion
	if err := c.do(ctx, request{
		operation:   "publish_place_version",
		method:      http.MethodPost,
		path:        path,
		query:       url.Values{"versionType": {VersionTypePublished}},
		apiKey:      apiKey,
		contentType: "application/xml",
		body:        placeXML,

		bestEffortDecode: true,
	}, &version); err != nil {
		return nil, err
	}
	return &version, nil
}
