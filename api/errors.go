package api

import "github.com/zeebo/errs"

var (
	// PlanningError is carried by every error a planning call returns.
	PlanningError = errs.Class("planning")

	// LocationServiceError is returned when a BlockLocationService fails or
	// reports an inconsistent result.
	LocationServiceError = errs.Class("location service")

	// InvalidTopologyError is returned when the topology cannot host the
	// requested work.
	InvalidTopologyError = errs.Class("invalid topology")
)
