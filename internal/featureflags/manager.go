// Package featureflags evaluates the server-side feature toggles configured
// through FEATURE_FLAGS, a comma-separated list such as
// "metrics_dashboard=on,wide_feed=25%,legacy_profile=off".
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds the flag set parsed once at startup. A flag value is either
// a boolean spelling (on/true/1, off/false/0) or "N%" for a percentage
// rollout; internally both collapse to a rollout percentage where 100 means
// fully on and 0 means fully off.
type Manager struct {
	rollout map[string]int
	values  map[string]string
}

// NewManager parses the configured flag list. Malformed entries are skipped
// so a typo in one flag cannot take the rest of the set down with it.
func NewManager(raw string) *Manager {
	m := &Manager{
		rollout: make(map[string]int),
		values:  make(map[string]string),
	}
	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name = canonical(name)
		value = canonical(value)
		if name == "" || value == "" {
			continue
		}
		m.values[name] = value
		m.rollout[name] = rolloutFor(value)
	}
	return m
}

// Enabled reports whether the named flag is on for the given user. Fully-on
// flags ignore the user, so route gates may pass a zero user ID. Partial
// rollouts are deterministic per user: the flag name and user ID hash into
// one of 100 buckets compared against the percentage, and an anonymous
// (zero) user never lands inside a partial rollout.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	pct, ok := m.rollout[canonical(name)]
	if !ok || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return bucket(canonical(name), userID) < pct
}

// Raw returns a copy of the flag values as configured, unevaluated.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.values))
	for name, value := range m.values {
		out[name] = value
	}
	return out
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.values))
	for name := range m.values {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

// rolloutFor maps a flag value onto a rollout percentage. Anything
// unrecognized counts as off.
func rolloutFor(value string) int {
	switch value {
	case "on", "true", "1":
		return 100
	case "off", "false", "0":
		return 0
	}
	if pct, ok := strings.CutSuffix(value, "%"); ok {
		n, err := strconv.Atoi(pct)
		if err != nil || n < 0 {
			return 0
		}
		if n > 100 {
			return 100
		}
		return n
	}
	return 0
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket places a (flag, user) pair into one of 100 stable buckets.
func bucket(name string, userID uint) int {
	h := fnv.New32a()
	h.Write([]byte(name))
	h.Write([]byte(":"))
	h.Write([]byte(strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}
