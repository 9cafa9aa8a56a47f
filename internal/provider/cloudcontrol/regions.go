package cloudcontrol

import (
	"fmt"
	"strings"
)

// endpoints maps region codes to their CloudControl API base URLs. Keys are
// the short codes; the vendor's "dd-" prefix is accepted and stripped.
var endpoints = map[string]string{
	"na":       "https://api-na.dimensiondata.com",
	"eu":       "https://api-eu.dimensiondata.com",
	"au":       "https://api-au.dimensiondata.com",
	"af":       "https://api-mea.dimensiondata.com",
	"ap":       "https://api-ap.dimensiondata.com",
	"latam":    "https://api-latam.dimensiondata.com",
	"canada":   "https://api-canada.dimensiondata.com",
	"canberra": "https://api-canberra.dimensiondata.com",
	"id":       "https://api-id.dimensiondata.com",
	"in":       "https://api-in.dimensiondata.com",
	"il":       "https://api-il.dimensiondata.com",
	"mea":      "https://api-mea.dimensiondata.com",
}

// Endpoint resolves a region code to an API base URL.
func Endpoint(region string) (string, error) {
	r := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(region)), "dd-")
	base, ok := endpoints[r]
	if !ok {
		return "", fmt.Errorf("unknown region %q", region)
	}
	return base, nil
}
