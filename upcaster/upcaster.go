// Package upcaster migrates stored event state from an older schema
// version to the current one before decoding. Stored state carries an
// implicit schema version in a reserved "_version_" key, defaulting to
// 1 when absent.
package upcaster

import "encoding/json"

// VersionKey is the reserved document key carrying a stored record's
// schema version. Mapper stamps it on encode; Chain.Apply reads and
// bumps it on decode.
const VersionKey = "_version_"

// Upcaster transforms one schema version of one topic's state into
// the next version. It must be pure and total for every record it
// claims to handle: given the (topic, fromVersion) it declares, it
// must succeed for any state the writer actually produced at that
// version.
type Upcaster interface {
	// Topic is the event topic this upcaster applies to.
	Topic() string

	// FromVersion is the schema version this upcaster consumes. It
	// produces FromVersion()+1.
	FromVersion() int

	// Upcast returns the migrated state and, if the migration also
	// renames the event, the new topic. Most upcasters return topic
	// unchanged.
	Upcast(state map[string]any, topic string) (newState map[string]any, newTopic string, err error)
}

// Chain is an ordered list of upcasters, consulted in order at each
// step of the migration loop.
type Chain struct {
	upcasters []Upcaster
}

// NewChain builds a Chain from a fixed list of upcasters.
func NewChain(upcasters ...Upcaster) *Chain {
	return &Chain{upcasters: upcasters}
}

// Apply repeatedly finds the first upcaster matching the record's
// current (topic, version), applies it, and bumps the version, until
// no upcaster matches. A record with no matching upcaster and no
// "_version_" key is left untouched.
func (c *Chain) Apply(state map[string]any, topic string) (map[string]any, string, error) {
	for {
		version := schemaVersion(state)

		u := c.find(topic, version)
		if u == nil {
			return state, topic, nil
		}

		newState, newTopic, err := u.Upcast(state, topic)
		if err != nil {
			return nil, "", err
		}
		if newTopic == "" {
			newTopic = topic
		}
		newState[VersionKey] = version + 1

		state, topic = newState, newTopic
	}
}

func (c *Chain) find(topic string, version int) Upcaster {
	for _, u := range c.upcasters {
		if u.Topic() == topic && u.FromVersion() == version {
			return u
		}
	}
	return nil
}

func schemaVersion(state map[string]any) int {
	raw, ok := state[VersionKey]
	if !ok {
		return 1
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 1
		}
		return int(n)
	default:
		return 1
	}
}
