package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrRegisterFailed     = fmt.Errorf("registration failed")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrAlreadySignedIn    = fmt.Errorf("already signed in")
	ErrNoCredential       = fmt.Errorf("no credential cookie")
	ErrConfirmationNeeded = fmt.Errorf("confirmation required")

	// API and service errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrGameNotFound   = fmt.Errorf("game not found")
	ErrResultNotFound = fmt.Errorf("search result not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// User-facing messages for authentication failures. The backend's error detail is never shown.
const (
	MsgLoginFailed    = "Login failed. Check your credentials."
	MsgRegisterFailed = "Account creation failed. The username may already be in use."
)
