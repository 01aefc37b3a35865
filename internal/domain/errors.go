package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveTheme means the shop has no published theme. Fatal to any
	// install or replace; the merchant has to publish a theme first.
	ErrNoActiveTheme = errors.New("shop has no active theme")

	// ErrAssetNotFound is the 404 branch of an asset read. Callers treat it
	// as a legitimate state (first install), not a failure.
	ErrAssetNotFound = errors.New("theme asset not found")

	// ErrMalformedTemplate means the remote template is not valid JSON or
	// not an object. The document is never repaired or partially mutated.
	ErrMalformedTemplate = errors.New("template is not a valid JSON document")

	// ErrBlockNotFound means the targeted block id is absent from the
	// freshly fetched template, typically because the merchant removed it
	// between listing and submitting. The caller should re-list and retry.
	ErrBlockNotFound = errors.New("block not found in template")

	// ErrSubscriptionRequired gates premium sections.
	ErrSubscriptionRequired = errors.New("active premium subscription required")

	// ErrShopNotFound means the shop domain is not registered with the app.
	ErrShopNotFound = errors.New("shop not found")

	// ErrSectionNotFound means the catalog has no section with that id.
	ErrSectionNotFound = errors.New("catalog section not found")
)

// RemoteError is any non-2xx platform response other than an asset 404.
// It carries the asset key and status so an operator can diagnose scope or
// quota problems from the log line alone.
type RemoteError struct {
	StatusCode int
	AssetKey   string
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.AssetKey != "" {
		return fmt.Sprintf("platform API error %d for asset %q: %s", e.StatusCode, e.AssetKey, e.Detail)
	}
	return fmt.Sprintf("platform API error %d: %s", e.StatusCode, e.Detail)
}
