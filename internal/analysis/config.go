package analysis

// Config switches analysis rules on and off. It is passed by value into
// every run and never stored by the engine.
type Config struct {
	// ShowWindows gates the daily-load and evening-session rules.
	ShowWindows             bool
	FlagOver4Pairs          bool
	FlagOver6Pairs          bool
	HighlightEveningClasses bool
}

// DefaultConfig returns the configuration used when no settings are
// supplied: every switch on.
func DefaultConfig() Config {
	return Config{
		ShowWindows:             true,
		FlagOver4Pairs:          true,
		FlagOver6Pairs:          true,
		HighlightEveningClasses: true,
	}
}
