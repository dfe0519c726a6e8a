package ledger

import "errors"

// Domain errors returned by ledger operations. The API layer maps these to
// the uniform {success:false, message} response shape.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrSenderNotFound      = errors.New("sender not found")
	ErrRecipientNotFound   = errors.New("recipient not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
