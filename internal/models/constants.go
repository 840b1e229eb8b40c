package models

const (
	// DefaultSessionTTL lifetime of a persisted session in seconds
	DefaultSessionTTL = 24 * 60 * 60 // 24 hours

	// DefaultNotificationPollSeconds interval between notification polls
	DefaultNotificationPollSeconds = 60

	// DefaultExportRangeMonthsBefore / After default export window
	DefaultExportRangeMonthsBefore = 1
	DefaultExportRangeMonthsAfter  = 2

	// WorkerQueueSize notification worker queue size
	WorkerQueueSize = 1000

	// DefaultPageSize list page size for dashboard views
	DefaultPageSize = 20

	// RateLimitRequests requests allowed per actor per window
	RateLimitRequests = 60

	// RateLimitWindow rate limit window in seconds
	RateLimitWindow = 60

	// CacheTTLSeconds read-through cache lifetime for backend GETs
	CacheTTLSeconds = 5 * 60
)
