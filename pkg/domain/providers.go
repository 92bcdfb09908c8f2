package domain

import (
	"context"
	"time"
)

// SettingStore supplies immutable setting snapshots. Implementations must
// return a NotFoundError (not a nil setting) when the key does not exist
// for the tenant. Rules may be returned in any order; the engine sorts them
// by priority.
type SettingStore interface {
	GetSetting(ctx context.Context, tenantID, key string) (*Setting, error)
}

// SegmentProvider answers segment-membership questions for in_segment and
// not_in_segment conditions.
type SegmentProvider interface {
	IsMember(identity *Identity, segment string) (bool, error)
}

// HolidayProvider answers holiday-calendar questions for is_holiday and
// is_business_day conditions. An empty region selects the provider's
// default calendar.
type HolidayProvider interface {
	IsHoliday(date time.Time, region string) (bool, error)
}

// AttributeProvider computes a flat attribute map for a scope. Geocoding and
// user-agent lookups are modelled this way; the engine memoizes the result
// per scope within a single resolution.
type AttributeProvider interface {
	Attributes(scope any) (map[string]any, error)
}

// IdentifierResolver extracts the bucketing identifier for rollouts. Return
// ok=false when no stable identifier exists; the rollout then falls through
// to the setting default.
type IdentifierResolver func(scope any, identity *Identity) (identifier string, ok bool)
