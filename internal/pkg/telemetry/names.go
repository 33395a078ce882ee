package telemetry

// Span names.
const (
	SpanProjectsList   = "projects.list"
	SpanProjectsGet    = "projects.get"
	SpanProjectsNearby = "projects.nearby"
	SpanProjectsImport = "projects.import"
	SpanDashboardLoad  = "dashboard.load"
	SpanMapSession     = "map.session"
)

// Span attribute keys.
const (
	AttrProjectID    = "geodash.project.id"
	AttrProjectCount = "geodash.project.count"
	AttrCacheHit     = "geodash.cache.hit"
	AttrMapID        = "geodash.map.id"
)
