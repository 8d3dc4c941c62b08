// File: utils/constants.go
package utils

import "time"

// SlotCachePrefix is the prefix used for Redis per-date slot cache keys.
const SlotCachePrefix = "timeslots:date:"

// HealthCheckInterval is how often the store and cache are pinged.
const HealthCheckInterval = 60 * time.Second

// SlotGenerationPrefix is the prefix of the per-date counters bumped on every
// invalidation. A cache fill is dropped when the counter moved during the read.
const SlotGenerationPrefix = "timeslots:gen:"

// SlotGenerationTTL keeps idle generation counters from piling up.
const SlotGenerationTTL = 24 * time.Hour
