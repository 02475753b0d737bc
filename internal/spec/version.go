package spec

const (
	// Version represents the show report format specification version
	// It should be updated when breaking changes are made to the report structure
	Version = "0.1"
)
