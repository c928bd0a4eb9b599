package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCoordinates = errors.New("Invalid coordinates, lat must be in the range (-90,+90), long must be in the range (-180,+180)")
	ErrPlayingFieldUnset  = errors.New("Playing field KML file is not set")
	ErrRoadsUnset         = errors.New("Roads KML file is not set")
	ErrLayerUnavailable   = errors.New("Error loading KML file")
	ErrInvalidZone        = errors.New("invalid zone")
	ErrInvalidLayer       = errors.New("invalid layer")
)
