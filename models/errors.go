package models

import "errors"

var (
	// ErrUpstreamUnavailable covers network, auth, rate-limit and protocol
	// failures of the marketplace.
	ErrUpstreamUnavailable = errors.New("marketplace unavailable")

	// ErrMalformedRecord marks a single upstream record missing required fields.
	ErrMalformedRecord = errors.New("malformed marketplace record")

	// ErrNoComparableData marks a title with zero completed-sale comps.
	ErrNoComparableData = errors.New("no comparable sales")

	// ErrInvalidInput is returned for caller mistakes such as an empty query
	// or a non-positive price.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a listing id is unknown to the marketplace.
	ErrNotFound = errors.New("listing not found")
)
