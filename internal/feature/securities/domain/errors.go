// Package domain defines domain-level types and errors for the securities feature.
package domain

import "errors"

// Domain errors for security synchronization.
// These errors represent business-level failures and should be mapped to
// user-visible responses by the transport layer. Call sites wrap them with
// the offending symbol via fmt.Errorf("%s: %w", symbol, Err...) so the
// symbol is always part of the message.
var (
	// ErrSymbolNotFound indicates that the requested symbol does not exist
	// at the market data provider. Terminal; retrying will not help.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrProviderUnavailable indicates a transient upstream failure
	// (timeout, 5xx, malformed payload). The caller may retry later;
	// the engine never retries within a single sync.
	ErrProviderUnavailable = errors.New("market data provider unavailable")

	// ErrSyncInProgress indicates the advisory per-security sync guard is
	// already held. This is a conflict, not a data error.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrSecurityNotFound indicates that no local security record matches
	// the given reference.
	ErrSecurityNotFound = errors.New("security not found")
)
