package message

const (
	InvalidUser  = "Invalid email or password."
	InvalidInput = "Invalid input."
	Unexpected   = "An unexpected error occurred."
	EnvErrFmt    = "environment variable is not set: %s"
)
