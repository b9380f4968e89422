package errors

var (
	ErrUnknown           = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument   = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound          = New(ERR_NOT_FOUND, "not found")
	ErrProcessing        = New(ERR_PROCESSING, "error processing")
	ErrConfiguration     = New(ERR_CONFIGURATION, "configuration error")
	ErrError             = New(ERR_ERROR, "generic error")
	ErrNotInitialized    = New(ERR_NOT_INITIALIZED, "not initialized")
	ErrServiceError      = New(ERR_SERVICE_ERROR, "service error")
	ErrServiceNotStarted = New(ERR_SERVICE_NOT_STARTED, "service not started")
	ErrStorageError      = New(ERR_STORAGE_ERROR, "storage error")
	ErrStorageIO         = New(ERR_STORAGE_IO, "storage IO error")
	ErrStorageUnusable   = New(ERR_STORAGE_UNUSABLE, "storage unusable")
	ErrConnectionError   = New(ERR_CONNECTION_ERROR, "connection error")
	ErrInvalidPaymentID  = New(ERR_INVALID_PAYMENT_ID, "invalid payment id")
	ErrTxExtraError      = New(ERR_TX_EXTRA_ERROR, "tx extra error")
	ErrBlockInvalid      = New(ERR_BLOCK_INVALID, "block invalid")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}

func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}

func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}

func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}

func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}

func NewNotInitializedError(message string, params ...interface{}) error {
	return New(ERR_NOT_INITIALIZED, message, params...)
}

func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}

func NewServiceNotStartedError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_NOT_STARTED, message, params...)
}

func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}

func NewStorageIOError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_IO, message, params...)
}

func NewStorageUnusableError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_UNUSABLE, message, params...)
}

func NewConnectionError(message string, params ...interface{}) error {
	return New(ERR_CONNECTION_ERROR, message, params...)
}

func NewInvalidPaymentIDError(message string, params ...interface{}) error {
	return New(ERR_INVALID_PAYMENT_ID, message, params...)
}

func NewTxExtraError(message string, params ...interface{}) error {
	return New(ERR_TX_EXTRA_ERROR, message, params...)
}

func NewBlockInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_INVALID, message, params...)
}
