package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so the HTTP layer can map them.
type ErrorKind int

const (
	KindInput ErrorKind = iota + 1
	KindAnalysis
	KindRateLimit
	KindAuth
	KindValidation
	KindPersistence
	KindExport
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindAnalysis:
		return "analysis"
	case KindRateLimit:
		return "rate_limit"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	case KindExport:
		return "export"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// User facing messages.
const (
	MsgAnalysisFailed  = "Analisis nutrisi gagal dilakukan. unggah foto lain dan pastikan semua makanan dengan terlihat jelas dan batasan deteksi 50X request perhari."
	MsgProviderBusy    = "Layanan sedang sibuk karena terlalu banyak request. Mohon tunggu beberapa saat dan pastikan yang diupload adalah foto menu makanan."
	MsgChatBusy        = "Layanan sedang sibuk karena terlalu banyak permintaan. Silakan coba beberapa saat lagi."
	MsgChatFailed      = "Terjadi kesalahan saat memproses pesan."
	MsgCategoryMissing = "School category is required"
	MsgSaveFailed      = "Failed to save scan"
	MsgShareCardFailed = "Failed to generate share card"
	MsgExportFailed    = "Failed to export nutrition history"
)

// Error is a classified service error. Message is safe to show to users,
// Err carries the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// InputError reports a malformed request.
func InputError(msg string) *Error {
	return newError(KindInput, msg, nil)
}

// AnalysisFailure hides cause behind the fixed retry message.
func AnalysisFailure(cause error) *Error {
	return newError(KindAnalysis, MsgAnalysisFailed, cause)
}

// ChatFailure reports a chat reply that could not be produced.
func ChatFailure(cause error) *Error {
	return newError(KindAnalysis, MsgChatFailed, cause)
}

// RateLimitFailure reports upstream overload.
func RateLimitFailure(msg string, cause error) *Error {
	return newError(KindRateLimit, msg, cause)
}

// ValidationFailure reports a domain rule that blocks an operation.
func ValidationFailure(msg string) *Error {
	return newError(KindValidation, msg, nil)
}

// PersistenceFailure reports a store error. The caller may retry.
func PersistenceFailure(msg string, cause error) *Error {
	return newError(KindPersistence, msg, cause)
}

// ExportFailure reports a spreadsheet or image generation error.
func ExportFailure(msg string, cause error) *Error {
	return newError(KindExport, msg, cause)
}

// NotFound reports a missing or foreign resource.
func NotFound(msg string, cause error) *Error {
	return newError(KindNotFound, msg, cause)
}

// Conflict reports an operation already in flight.
func Conflict(msg string, cause error) *Error {
	return newError(KindConflict, msg, cause)
}

// Sentinel causes.
var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrScanNotFound      = errors.New("scan not found")
	ErrNothingToExport   = errors.New("nothing to export")
	ErrNoItemsDetected   = errors.New("no menu items detected")
	ErrNoJSONFound       = errors.New("no JSON found in model output")
	ErrProviderOverload  = errors.New("provider overloaded")
	ErrUnsupportedImage  = errors.New("unsupported image type")
	ErrSaveInProgress    = errors.New("save already in progress")
	ErrDraftAlreadySaved = errors.New("draft already saved")
)

// KindOf returns the kind of err, or 0 when err is not a classified error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
