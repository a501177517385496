package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidCapital       ErrorCode = 103
	ErrCodeInvalidPriceSeries   ErrorCode = 104
	ErrCodeUndefinedSignal      ErrorCode = 105

	// Data errors (200-299)
	ErrCodeInsufficientData ErrorCode = 200
	ErrCodeDataUnavailable  ErrorCode = 201
	ErrCodeQueryFailed      ErrorCode = 202
	ErrCodeNoDataFound      ErrorCode = 203

	// Computation errors (300-399)
	ErrCodeDivisionByZero        ErrorCode = 300
	ErrCodeDegenerateStatistics  ErrorCode = 301
	ErrCodeIndicatorCalculation  ErrorCode = 302
	ErrCodeSimulationStateBroken ErrorCode = 303

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError  ErrorCode = 600
	ErrCodeBacktestNoDataSource ErrorCode = 601
	ErrCodeResultWriteFailed    ErrorCode = 602

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeInvalidProvider       ErrorCode = 702
)
