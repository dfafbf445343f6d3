package carbon

import "github.com/rs/zerolog"

// logger reports problems found while parsing embedded coefficient data.
var logger = zerolog.Nop()

// SetLogger replaces the logger used while parsing embedded data.
// Call it before the first coefficient lookup.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "carbon").Logger()
}
