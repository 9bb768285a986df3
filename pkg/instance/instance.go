package instance

import "github.com/angelmondragon/lockerbox-backend/pkg/env"

// GetID returns the process instance identifier used in startup logs.
func GetID() string {
	return env.Get("local", "LOCKERBOX_INSTANCE_ID", "DYNO", "HOSTNAME")
}
