package csfloat

import (
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the public lookup API host
	DefaultBaseURL = "https://s-api.csfloat.com"

	// ScreenshotEndpoint returns the rendered screenshot paths for an inspect link
	ScreenshotEndpoint = "/api/v1/public/screenshot"

	// DefaultImageBaseURL is prepended to screenshot paths
	DefaultImageBaseURL = "https://csfloat.pics/"

	// DefaultImageQuery is appended to every image URL
	DefaultImageQuery = "?v=3"
)

// ScreenshotURL constructs the lookup URL for a signed inspect link
func ScreenshotURL(baseURL, sig, inspect string) string {
	params := url.Values{}
	params.Set("sig", sig)
	params.Set("url", inspect)

	return strings.TrimRight(baseURL, "/") + ScreenshotEndpoint + "?" + params.Encode()
}

// ImageURL joins an image base, a screenshot path and the query suffix
func ImageURL(imageBase, path, query string) string {
	return imageBase + path + query
}
