// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix namespaces the Redis keys that mirror bearer-token hashes.
const AuthCachePrefix = "auth:"

// AuthCacheTTL bounds how long a cached token hash is trusted before the
// next request falls back to the user store.
const AuthCacheTTL = time.Hour
