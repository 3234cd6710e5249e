package playwright

import (
	"github.com/google/uuid"

	"github.com/oakline-labs/playwright-go/config"
	"github.com/oakline-labs/playwright-go/telemetry"
)

// RunOptions configures Run: driver launch settings plus the ambient
// telemetry backends the Connection should use.
type RunOptions struct {
	Config  config.Options
	Logger  telemetry.Logger
	Tracer  telemetry.Tracer
	Metrics telemetry.Metrics

	// SessionID overrides the generated correlation id. Leave empty to
	// have Run stamp a random one.
	SessionID string
}

func (o RunOptions) configOrDefault() config.Options {
	return o.Config
}

func (o RunOptions) sessionID() string {
	if o.SessionID != "" {
		return o.SessionID
	}
	return uuid.NewString()
}
