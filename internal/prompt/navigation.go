package prompt

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrNavigationFailed is returned when neither store URL could be opened.
var ErrNavigationFailed = errors.New("could not open store listing")

const (
	marketDetailsURL = "market://details?id="
	webDetailsURL    = "https://play.google.com/store/apps/details?id="
)

// StoreListingURLs returns the native store URI and its web fallback for packageID.
func StoreListingURLs(packageID string) (primary, fallback string) {
	id := url.QueryEscape(packageID)
	return marketDetailsURL + id, webDetailsURL + id
}

// openWithFallback tries primary once and fallback once.
func openWithFallback(nav Navigator, primary, fallback string) error {
	primaryErr := nav.Open(primary)
	if primaryErr == nil {
		return nil
	}
	if err := nav.Open(fallback); err != nil {
		return fmt.Errorf("%w: %s: %v; %s: %w", ErrNavigationFailed, primary, primaryErr, fallback, err)
	}
	return nil
}
