package instance

import "github.com/angelmondragon/storefront-backend/pkg/env"

// GetID returns the process instance identifier used to tag startup logs.
func GetID() string {
	return env.First("local", "STOREFRONT_INSTANCE_ID", "DYNO")
}
