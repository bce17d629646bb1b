package document

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeNotFound            ErrorCode = "DOC_NOT_FOUND"
	CodeInvalidPage         ErrorCode = "DOC_INVALID_PAGE"
	CodePageLimitExceeded   ErrorCode = "DOC_PAGE_LIMIT_EXCEEDED"
	CodeExtractionFailed    ErrorCode = "DOC_EXTRACTION_FAILED"
	CodeRenderFailed        ErrorCode = "DOC_RENDER_FAILED"
	CodeOCRInspectionFailed ErrorCode = "DOC_OCR_INSPECTION_FAILED"
	CodeOCRFailed           ErrorCode = "DOC_OCR_FAILED"
	CodeOCRNoOutput         ErrorCode = "DOC_OCR_NO_OUTPUT"
	CodeUploadTooLarge      ErrorCode = "DOC_UPLOAD_TOO_LARGE"
	CodeInvalidUploadType   ErrorCode = "DOC_INVALID_UPLOAD_TYPE"
)

// DocumentError carries a stable error code across the domain boundary.
// External engine failures are wrapped into one of the codes above at the
// adapter seam; raw engine errors never cross into callers unmapped.
type DocumentError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DocumentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewError(code ErrorCode, message string, cause error) error {
	return &DocumentError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the error code of err, or "" for non-domain errors.
func CodeOf(err error) ErrorCode {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
