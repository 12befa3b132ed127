package auth

const (
	MsgRegisterSuccess      = "Verification code sent to your email"
	MsgVerificationResent   = "Verification code sent to your email"
	MsgVerifySuccess        = "Email verified successfully"
	MsgLoggedIn             = "Login successful"
	MsgResetCodeSent        = "Reset code sent to your email"
	MsgPasswordResetSuccess = "Password updated successfully"
	MsgSessionActive        = "Session is active"

	MsgNotFound             = "User not found"
	MsgAlreadyRegistered    = "Email already registered"
	MsgAlreadyVerified      = "User already verified"
	MsgInvalidCode          = "Invalid verification code"
	MsgCodeExpired          = "Verification code expired"
	MsgInvalidOrExpiredCode = "Invalid or expired reset code"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgNotVerified          = "Email not verified"
	MsgDeliveryFailed       = "Failed to send email"
	MsgInvalidToken         = "Invalid token"
)
