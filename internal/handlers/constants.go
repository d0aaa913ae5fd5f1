package handlers

const (
	SessionCookieName = "session_id"

	MsgRegistered    = "User registered successfully"
	MsgLoginSuccess  = "Login successful"
	MsgResetSuccess  = "Password updated successfully"
	MsgContactThanks = "Thanks for your message"

	// MsgForgotGeneric is returned by /forgot-password regardless of
	// whether the email belongs to an account
	MsgForgotGeneric = "If an account exists for that email, a password reset link has been sent"

	ErrInvalidFormData     = "Invalid form data"
	ErrInternalServerError = "Internal server error"
	ErrInvalidCredentials  = "Invalid email or password"
	ErrInvalidOrExpired    = "Invalid or expired reset token"
	ErrRegisterConflict    = "Unable to register with the provided details"
	ErrTooManyRequests     = "Too many requests. Please try again later."
)
