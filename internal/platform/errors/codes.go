package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeNotFound Code = "NOT_FOUND"

	// Input errors
	CodeMissingParameters Code = "MISSING_PARAMETERS"
	CodeInvalidFormat     Code = "INVALID_FORMAT"
	CodeInvalidUser       Code = "INVALID_USER"

	// Token errors
	CodeUnauthorized Code = "UNAUTHORIZED"

	// Calendar workflow errors
	CodeCalendarCreateFailed Code = "CALENDAR_CREATE_FAILED"
	CodeCalendarUpdateFailed Code = "CALENDAR_UPDATE_FAILED"
	CodeCalendarDeleteFailed Code = "CALENDAR_DELETE_FAILED"

	// External mirror errors
	CodeExternalSyncFailed   Code = "EXTERNAL_SYNC_FAILED"
	CodeExternalDeleteFailed Code = "EXTERNAL_DELETE_FAILED"

	// Target ingestion errors
	CodeTargetIngestFailed Code = "TARGET_INGEST_FAILED"

	// Invitation errors
	CodeInviteDeliveryFailed Code = "INVITE_DELIVERY_FAILED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMissingParameters,
		CodeInvalidFormat,
		CodeInvalidUser:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeCalendarCreateFailed,
		CodeCalendarUpdateFailed,
		CodeCalendarDeleteFailed,
		CodeExternalSyncFailed,
		CodeExternalDeleteFailed,
		CodeTargetIngestFailed,
		CodeInviteDeliveryFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
