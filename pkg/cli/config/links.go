package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// Links holds CLI flags for public link token signing
type Links struct {
	secret string
	ttl    time.Duration
}

// Flags returns CLI flags for public link configuration
func (l *Links) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "link-signing-secret",
			Usage:       "HMAC secret for public link tokens; public links are disabled when empty",
			Sources:     cli.EnvVars("FIELDLINE_LINK_SIGNING_SECRET"),
			Destination: &l.secret,
		},
		&cli.DurationFlag{
			Name:        "link-ttl",
			Usage:       "Lifetime of newly issued public links",
			Value:       30 * 24 * time.Hour,
			Sources:     cli.EnvVars("FIELDLINE_LINK_TTL"),
			Destination: &l.ttl,
		},
	}
}

// Secret returns the signing secret; empty when public links are disabled
func (l *Links) Secret() []byte {
	if l.secret == "" {
		return nil
	}
	return []byte(l.secret)
}

// TTL returns the configured link lifetime
func (l *Links) TTL() time.Duration {
	return l.ttl
}
