package entry

// Dialect identifies a configuration file syntax.
type Dialect string

// Supported dialects.
const (
	// DialectEnv is the KEY=value .env syntax.
	DialectEnv Dialect = "env"
	// DialectProperties is the key=${ENV:default} .properties syntax.
	DialectProperties Dialect = "properties"
)

// String returns the dialect name.
func (d Dialect) String() string {
	return string(d)
}

// IsValid reports whether d is a supported dialect.
func (d Dialect) IsValid() bool {
	switch d {
	case DialectEnv, DialectProperties:
		return true
	default:
		return false
	}
}

// Synthesizes reports whether declarations missing from the file are
// appended as new entries. Properties files have no placeholder
// convention for introducing a new key.
func (d Dialect) Synthesizes() bool {
	return d == DialectEnv
}

