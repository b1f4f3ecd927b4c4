package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeDatabaseError      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeExternalService    ErrorCode = "COMMON_010"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_012"

	ErrCodeUnknown ErrorCode = "UNKNOWN"
	ErrCodeOK      ErrorCode = "OK"
)

// Audit module error codes
const (
	ErrCodeAuditNotFound      ErrorCode = "AUD_001"
	ErrCodeAuditAlreadyExists ErrorCode = "AUD_002"
	ErrCodeAuditMalformed     ErrorCode = "AUD_003"
	ErrCodeNormalizationBug   ErrorCode = "AUD_004"
)

// Analysis module error codes
const (
	ErrCodeAnalyzerContract   ErrorCode = "ANA_001"
	ErrCodeAggregatorContract ErrorCode = "ANA_002"
	ErrCodeAnalysisFailed     ErrorCode = "ANA_003"
)

// Recommendation module error codes
const (
	ErrCodeEstimateFailed        ErrorCode = "REC_001"
	ErrCodeRecommendationInvalid ErrorCode = "REC_002"
)

// Report module error codes
const (
	ErrCodeReportNotFound     ErrorCode = "RPT_001"
	ErrCodeReportExportFailed ErrorCode = "RPT_002"
	ErrCodeReportArchiveError ErrorCode = "RPT_003"
)

// Catalog module error codes
const (
	ErrCodeCatalogUnavailable ErrorCode = "CAT_001"
)

// Messaging error codes
const (
	ErrCodeMessagePublishFailed ErrorCode = "MSG_001"
	ErrCodeMessageConsumeFailed ErrorCode = "MSG_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeAuditNotFound:      http.StatusNotFound,
	ErrCodeAuditAlreadyExists: http.StatusConflict,
	ErrCodeAuditMalformed:     http.StatusBadRequest,
	ErrCodeNormalizationBug:   http.StatusInternalServerError,

	ErrCodeAnalyzerContract:   http.StatusInternalServerError,
	ErrCodeAggregatorContract: http.StatusInternalServerError,
	ErrCodeAnalysisFailed:     http.StatusInternalServerError,

	ErrCodeEstimateFailed:        http.StatusInternalServerError,
	ErrCodeRecommendationInvalid: http.StatusInternalServerError,

	ErrCodeReportNotFound:     http.StatusNotFound,
	ErrCodeReportExportFailed: http.StatusInternalServerError,
	ErrCodeReportArchiveError: http.StatusInternalServerError,

	ErrCodeCatalogUnavailable: http.StatusServiceUnavailable,

	ErrCodeMessagePublishFailed: http.StatusInternalServerError,
	ErrCodeMessageConsumeFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeAuditNotFound:      "audit not found",
	ErrCodeAuditAlreadyExists: "audit already exists",
	ErrCodeAuditMalformed:     "audit record is not minimally structured",
	ErrCodeNormalizationBug:   "normalization produced an out-of-contract value",

	ErrCodeAnalyzerContract:   "analyzer returned an out-of-range score",
	ErrCodeAggregatorContract: "aggregator produced a non-finite score",
	ErrCodeAnalysisFailed:     "audit analysis failed",

	ErrCodeEstimateFailed:        "financial estimate failed",
	ErrCodeRecommendationInvalid: "recommendation failed completeness check",

	ErrCodeReportNotFound:     "report not found",
	ErrCodeReportExportFailed: "failed to export report",
	ErrCodeReportArchiveError: "failed to archive report",

	ErrCodeCatalogUnavailable: "product catalog unavailable",

	ErrCodeMessagePublishFailed: "failed to publish message",
	ErrCodeMessageConsumeFailed: "failed to consume message",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
