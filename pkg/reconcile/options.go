package reconcile

import (
	"fmt"
	"log/slog"
	"strings"
)

// AttrRefresh selects how element props are reapplied after a patch.
type AttrRefresh uint8

const (
	// AttrRefreshFull clears every generic attribute and bound listener and
	// reapplies all props.
	AttrRefreshFull AttrRefresh = iota

	// AttrRefreshDiff removes attributes that disappeared from the props and
	// sets only the ones whose value changed.
	AttrRefreshDiff
)

// String returns the config spelling of the policy.
func (a AttrRefresh) String() string {
	switch a {
	case AttrRefreshFull:
		return "full"
	case AttrRefreshDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// ParseAttrRefresh parses "full" or "diff".
func ParseAttrRefresh(s string) (AttrRefresh, error) {
	switch strings.ToLower(s) {
	case "", "full":
		return AttrRefreshFull, nil
	case "diff":
		return AttrRefreshDiff, nil
	}
	return 0, fmt.Errorf("unknown attribute refresh mode %q", s)
}

// KeyCollision selects how duplicate sibling keys are handled.
type KeyCollision uint8

const (
	// KeyCollisionLastWins lets the later host child take the lookup slot.
	// The displaced child is removed as stale, and a later duplicate in the
	// new children is rendered fresh.
	KeyCollisionLastWins KeyCollision = iota

	// KeyCollisionError fails the patch before any mutation when two new
	// siblings resolve to the same key.
	KeyCollisionError
)

// String returns the config spelling of the policy.
func (k KeyCollision) String() string {
	switch k {
	case KeyCollisionLastWins:
		return "last-wins"
	case KeyCollisionError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseKeyCollision parses "last-wins" or "error".
func ParseKeyCollision(s string) (KeyCollision, error) {
	switch strings.ToLower(s) {
	case "", "last-wins":
		return KeyCollisionLastWins, nil
	case "error":
		return KeyCollisionError, nil
	}
	return 0, fmt.Errorf("unknown key collision policy %q", s)
}

// DefaultEventPrefix marks event handler props.
const DefaultEventPrefix = "on"

// DefaultDirectFields maps props assigned straight onto host node fields
// to the field they set.
var DefaultDirectFields = map[string]string{
	"checked":   "checked",
	"value":     "value",
	"className": "className",
	"class":     "className",
}

// Options configures an Engine.
type Options struct {
	AttrRefresh  AttrRefresh
	KeyCollision KeyCollision
	EventPrefix  string
	DirectFields map[string]string
	Logger       *slog.Logger
	Observer     Observer
}

// Option configures an Engine.
type Option func(*Options)

// WithAttrRefresh sets the prop refresh policy.
func WithAttrRefresh(mode AttrRefresh) Option {
	return func(o *Options) {
		o.AttrRefresh = mode
	}
}

// WithKeyCollision sets the duplicate key policy.
func WithKeyCollision(policy KeyCollision) Option {
	return func(o *Options) {
		o.KeyCollision = policy
	}
}

// WithEventPrefix sets the prop prefix that marks event handlers.
func WithEventPrefix(prefix string) Option {
	return func(o *Options) {
		o.EventPrefix = prefix
	}
}

// WithDirectFields replaces the direct-assignment prop table.
func WithDirectFields(fields map[string]string) Option {
	return func(o *Options) {
		o.DirectFields = fields
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithObserver sets the observer notified around every operation.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

func defaultOptions() Options {
	return Options{
		AttrRefresh:  AttrRefreshFull,
		KeyCollision: KeyCollisionLastWins,
		EventPrefix:  DefaultEventPrefix,
		DirectFields: DefaultDirectFields,
	}
}
