// Package tz resolves the canonical location of a deployment.
package tz

import (
	"fmt"
	"strings"
	"time"
)

// Load resolves an IANA zone name such as "Europe/Paris". An empty name
// means UTC.
func Load(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utc") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %q: %w", name, err)
	}
	return loc, nil
}
