// export_test.go exports private functions for white-box testing.
package logger

// Error formatting helpers exported for testing.
var (
	CollectErrorMessages = collectErrorMessages
	FormatErrorMessages  = formatErrorMessages
)
