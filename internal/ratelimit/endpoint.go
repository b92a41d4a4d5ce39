package ratelimit

import "github.com/danielgtaylor/huma/v2"

// MetadataKey stores an EndpointConfig in huma operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig overrides rate limiting for one endpoint. The redirect path
// gets generous limits; admin and write endpoints get strict ones.
type EndpointConfig struct {
	// Limits replaces the default limits for this endpoint.
	Limits []LimitConfig

	// Disabled skips rate limiting entirely.
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if
// present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
