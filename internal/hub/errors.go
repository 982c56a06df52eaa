package hub

import "errors"

var (
	errNilDispatcher = errors.New("hub: dispatcher is required")
	errNilState      = errors.New("hub: state reader is required")
)
