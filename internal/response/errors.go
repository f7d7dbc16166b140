package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrCandidateAccessOnly ErrCode = "CANDIDATE_ACCESS_ONLY"
	ErrAdminAccessOnly     ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Attempt engine ────────────────────────────────────────────────
	ErrInvalidState        ErrCode = "INVALID_STATE"
	ErrSectionMismatch     ErrCode = "SECTION_MISMATCH"
	ErrSectionExpired      ErrCode = "SECTION_EXPIRED"
	ErrAlreadyCompleted    ErrCode = "ALREADY_COMPLETED"
	ErrTestUnavailable     ErrCode = "TEST_UNAVAILABLE"
	ErrInsufficientContent ErrCode = "INSUFFICIENT_CONTENT"
	ErrUnknownPattern      ErrCode = "UNKNOWN_PATTERN"
	ErrTestNotDraft        ErrCode = "TEST_NOT_DRAFT"
	ErrRankingDisabled     ErrCode = "RANKING_DISABLED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrCandidateAccessOnly:
		return "This resource is restricted to candidates."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Attempt engine ────────────────────────────────────────────────
	case ErrInvalidState:
		return "This action is not allowed in the attempt's current state."
	case ErrSectionMismatch:
		return "This question does not belong to the section you are in."
	case ErrSectionExpired:
		return "Time for this section has run out. It has been submitted."
	case ErrAlreadyCompleted:
		return "This test has already been submitted."
	case ErrTestUnavailable:
		return "This test is not available right now."
	case ErrInsufficientContent:
		return "The test does not have enough questions for its pattern."
	case ErrUnknownPattern:
		return "The requested exam pattern does not exist."
	case ErrTestNotDraft:
		return "This test is not in DRAFT status."
	case ErrRankingDisabled:
		return "Rankings are not enabled for this test."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
