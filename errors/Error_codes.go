package errors

import "strconv"

// ERR is the numeric error code carried by every *Error. The codes are
// stable across releases so that operators can match on them in logs.
type ERR int32

const (
	ERR_UNKNOWN             ERR = 0
	ERR_INVALID_ARGUMENT    ERR = 1
	ERR_NOT_FOUND           ERR = 2
	ERR_PROCESSING          ERR = 3
	ERR_CONFIGURATION       ERR = 4
	ERR_ERROR               ERR = 9
	ERR_NOT_INITIALIZED     ERR = 10
	ERR_SERVICE_ERROR       ERR = 11
	ERR_SERVICE_NOT_STARTED ERR = 12
	ERR_STORAGE_ERROR       ERR = 20
	ERR_STORAGE_IO          ERR = 21
	ERR_STORAGE_UNUSABLE    ERR = 22
	ERR_CONNECTION_ERROR    ERR = 30
	ERR_INVALID_PAYMENT_ID  ERR = 40
	ERR_TX_EXTRA_ERROR      ERR = 41
	ERR_BLOCK_INVALID       ERR = 50
)

var ERR_name = map[int32]string{
	0:  "ERR_UNKNOWN",
	1:  "ERR_INVALID_ARGUMENT",
	2:  "ERR_NOT_FOUND",
	3:  "ERR_PROCESSING",
	4:  "ERR_CONFIGURATION",
	9:  "ERR_ERROR",
	10: "ERR_NOT_INITIALIZED",
	11: "ERR_SERVICE_ERROR",
	12: "ERR_SERVICE_NOT_STARTED",
	20: "ERR_STORAGE_ERROR",
	21: "ERR_STORAGE_IO",
	22: "ERR_STORAGE_UNUSABLE",
	30: "ERR_CONNECTION_ERROR",
	40: "ERR_INVALID_PAYMENT_ID",
	41: "ERR_TX_EXTRA_ERROR",
	50: "ERR_BLOCK_INVALID",
}

func (e ERR) Enum() string {
	if name, ok := ERR_name[int32(e)]; ok {
		return name
	}

	return "ERR(" + strconv.Itoa(int(e)) + ")"
}

func (e ERR) String() string {
	return e.Enum()
}
