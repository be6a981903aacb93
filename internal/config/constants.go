package config

// SourceFileExtensions are all recognized AST document extensions
var SourceFileExtensions = []string{".yaml", ".yml"}

// IsTestMode indicates if the program is running in test mode.
// Set once at startup; disables colour and run-ID output so results are deterministic.
var IsTestMode = false

// Pass names as they appear in reports and the run history.
const (
	TypesPassName   = "types"
	BorrowsPassName = "borrows"
)

// Built-in type names
const (
	Int32TypeName  = "Int32"
	StringTypeName = "String"
)

// Expectation keyword for a pass that must succeed.
const ExpectOK = "ok"

const (
	// DefaultMaxDepth bounds scope and expression nesting.
	DefaultMaxDepth = 512

	// ConfigEnvVar names the environment variable consulted when -config is not given.
	ConfigEnvVar = "REFCHECK_CONFIG"

	// TestModeEnvVar set to "1" turns on IsTestMode.
	TestModeEnvVar = "REFCHECK_TEST_MODE"
)

// Colour modes for terminal output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)
