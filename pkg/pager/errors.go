package pager

import "errors"

var (
	ErrDecode       = errors.New("unable to decode response")
	ErrInvalidEvent = errors.New("got invalid watch event type")
)
