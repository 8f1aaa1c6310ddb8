package constants

// DefaultSearchTerms is used when no terms file is configured.
var DefaultSearchTerms = []string{
	"HOLC maps",
	"HOLC",
	"Tompkins Square riot of 1988",
	"Festival markets",
	"Megalopolis",
	"Hope VI housing policy",
	"Hope VI",
	"Artificial Levees in New Orleans",
	"Containerization in shipping",
	"US Housing Act of 1949",
	"Levittown",
	"Gentrification",
	"Demolition of Pruitt-Igoe",
	"Sprawl",
	"Annexation of suburban territory",
	"Restrictive covenants",
	"Demolition of Pennsylvania Station, New York",
	"Riots of the 1960s",
	"Ford to City: Drop Dead",
	"Deindustrialization",
	"Peak of violent crime in US cities",
	"Block busting",
	"Great Migration",
	"Second ghetto",
	"Rust Belt",
	"Edge Cities",
	"Superstorm Sandy",
	"Growth of the Sun Belt",
}

// SearchTerms returns a copy of the default list so callers cannot mutate it.
func SearchTerms() []string {
	out := make([]string, len(DefaultSearchTerms))
	copy(out, DefaultSearchTerms)
	return out
}
