package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Weather
	WeatherProvider WeatherProvider
	WeatherCache    WeatherCache

	// Persistence
	SnapshotStore SnapshotStore
	EventLog      EventLog

	// Traffic control
	RateLimiter RateLimiter

	// Infrastructure
	ConfigProvider   ConfigProvider
	Logger           Logger
	MetricsCollector MetricsCollector
	HealthChecker    SystemHealthChecker
}
