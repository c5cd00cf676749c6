package shared

// DefaultCities is the smoke-test list for cmd/citycheck.
var DefaultCities = []string{
	"Dallas",
	"New York",
	"Paris",
	"London",
	"Rome",
	"Barcelona",
	"Istanbul",
	"Tokyo",
}
