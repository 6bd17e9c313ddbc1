package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAddressParameterMissing is returned when the search address is empty after trimming
	ErrAddressParameterMissing = errors.New("address parameter required")

	// ErrTenantParameterMissing is returned when no tenant key is supplied
	ErrTenantParameterMissing = errors.New("tenant parameter required")

	// ErrTenantNotFound is returned when the tenant key is not in the registry
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrMissingCredential is returned when a tenant has no CompanyCam token configured
	ErrMissingCredential = errors.New("CompanyCam API token not configured for tenant")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNotFound is returned when a stored record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned on a unique key conflict
	ErrAlreadyExists = errors.New("record already exists")

	// ErrForbidden is returned when a record belongs to another tenant
	ErrForbidden = errors.New("access denied")

	// ErrInvalidCredentials is returned for an unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountPending is returned when a business user has not been approved yet
	ErrAccountPending = errors.New("account pending approval")

	// ErrUnauthorized is returned for a missing, malformed or expired token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidStatus is returned when a prospect status is outside ProspectStatuses
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrUnknownFlow is returned when no scoring table exists for a flow slug
	ErrUnknownFlow = errors.New("unknown flow")

	// ErrUpstreamFailure is returned when a CompanyCam or Maps request fails
	ErrUpstreamFailure = errors.New("upstream request failed")

	// ErrAddressNotGeocoded is returned when the geocoder has no result for an address
	ErrAddressNotGeocoded = errors.New("could not geocode address")

	// ErrThrottled is returned when no rate limiter slot frees up before the context ends
	ErrThrottled = errors.New("rate limit wait exceeded deadline")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// UpstreamStatusError carries the HTTP status of a failed upstream call.
// It unwraps to ErrUpstreamFailure.
type UpstreamStatusError struct {
	Service    string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error {
	return ErrUpstreamFailure
}

// MissingFieldsError lists the fields a request must carry.
// It unwraps to ErrInvalidRequest.
type MissingFieldsError struct {
	Required []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Required, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrInvalidRequest
}
