package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Interview-specific ────────────────────────────────────────────
	ErrProfileIncomplete    ErrCode = "PROFILE_INCOMPLETE"
	ErrSessionActive        ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrNoActiveSession      ErrCode = "NO_ACTIVE_SESSION"
	ErrNoCompletedSession   ErrCode = "NO_COMPLETED_SESSION"
	ErrQuestionNotCurrent   ErrCode = "QUESTION_NOT_CURRENT"
	ErrInvalidTransition    ErrCode = "INVALID_TRANSITION"
	ErrSubmissionInProgress ErrCode = "SUBMISSION_IN_PROGRESS"
	ErrSessionPaused        ErrCode = "SESSION_PAUSED"

	// ─── Files & delivery ──────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrCorruptFile     ErrCode = "CORRUPT_FILE"
	ErrEmailFailed     ErrCode = "EMAIL_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrPersistFailed ErrCode = "PERSIST_FAILED"
	ErrInternal      ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have access to this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Interview-specific ────────────────────────────────────────────
	case ErrProfileIncomplete:
		return "Name, email and phone are required before starting an interview."
	case ErrSessionActive:
		return "This candidate already has an interview in progress."
	case ErrNoActiveSession:
		return "This candidate has no interview in progress."
	case ErrNoCompletedSession:
		return "This candidate has not completed an interview yet."
	case ErrQuestionNotCurrent:
		return "The question is no longer the current one."
	case ErrInvalidTransition:
		return "The interview cannot change to that state right now."
	case ErrSubmissionInProgress:
		return "An answer is already being processed."
	case ErrSessionPaused:
		return "The interview is paused."

	// ─── Files & delivery ──────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file format. Please upload a PDF or DOCX file."
	case ErrFileTooLarge:
		return "File exceeds the size limit."
	case ErrCorruptFile:
		return "Failed to parse resume. Please ensure the file is not corrupted."
	case ErrEmailFailed:
		return "Failed to send email."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrPersistFailed:
		return "The change was applied but could not be saved."
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
