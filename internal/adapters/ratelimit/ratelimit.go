// Package ratelimit limits requests per client and policy.
package ratelimit

import (
	"context"
	"time"
)

type Policy struct {
	Name    string
	Max     int
	Window  time.Duration
	Message string
}

var (
	ContactForm = Policy{
		Name:    "contact",
		Max:     3,
		Window:  time.Hour,
		Message: "Too many contact form submissions. Please try again later.",
	}
	BrochureForm = Policy{
		Name:    "brochure",
		Max:     5,
		Window:  30 * time.Minute,
		Message: "Too many brochure requests. Please try again later.",
	}
	General = Policy{
		Name:    "general",
		Max:     100,
		Window:  15 * time.Minute,
		Message: "Too many requests. Please try again later.",
	}
	Admin = Policy{
		Name:    "admin",
		Max:     200,
		Window:  time.Hour,
		Message: "Too many admin requests. Please try again later.",
	}
	Auth = Policy{
		Name:    "auth",
		Max:     10,
		Window:  15 * time.Minute,
		Message: "Too many authentication attempts. Please try again later.",
	}
)

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is how long until the quota is fully available again.
	Reset time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string, policy Policy) (Decision, error)
}

func bucketKey(policy Policy, key string) string {
	return policy.Name + ":" + key
}
