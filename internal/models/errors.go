package models

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a valid query matches zero rows after
// filtering. It is an outcome, not a failure.
var ErrNoData = errors.New("no data in the selected range")

// ErrInvalidQuery is wrapped by validation failures on query input.
var ErrInvalidQuery = errors.New("invalid query")

// FeedKind names one of the two external data sources.
type FeedKind string

const (
	FeedSensor   FeedKind = "sensor"
	FeedRainfall FeedKind = "rainfall"
)

// FeedErrorKind classifies how a feed-level fetch went wrong. Row-level
// defects are dropped locally and never become a FeedError.
type FeedErrorKind string

const (
	FeedErrorConnectivity FeedErrorKind = "connectivity"
	FeedErrorMalformed    FeedErrorKind = "malformed"
)

// FeedError is a terminal error for one feed within a query. The other
// feed is still processed independently.
type FeedError struct {
	Feed FeedKind
	Kind FeedErrorKind
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("%s feed %s failure: %v", e.Feed, e.Kind, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

// NewFeedError wraps err as a terminal error for the given feed.
func NewFeedError(feed FeedKind, kind FeedErrorKind, err error) *FeedError {
	return &FeedError{Feed: feed, Kind: kind, Err: err}
}
