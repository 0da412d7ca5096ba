package apidoc

import "errors"

var (
	// ErrMalformedHeader is returned when a feature name is not "VERB PATH".
	ErrMalformedHeader = errors.New("malformed feature header")

	// ErrUnknownVerb is returned when an endpoint verb is not one of Verbs.
	ErrUnknownVerb = errors.New("unknown HTTP verb")

	// ErrInvalidJSON is returned when a response assertion carries invalid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrNoFeature is returned when a callback arrives outside a feature or scenario.
	ErrNoFeature = errors.New("event outside of a feature")
)
