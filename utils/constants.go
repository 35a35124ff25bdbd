// File: utils/constants.go
package utils

import "time"

// RoomLockPrefix is the prefix used for Redis per-room reservation locks.
const RoomLockPrefix = "roomlock:"

// HealthCheckInterval is how often dependency health is sampled.
const HealthCheckInterval = 60 * time.Second

// ActorContextKey is the gin context key holding the authenticated models.Actor.
const ActorContextKey = "actor"
