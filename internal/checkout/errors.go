package checkout

import "errors"

var (
	ErrIllegalTransition = errors.New("operation not allowed in the current checkout phase")
	ErrOrderNotPending   = errors.New("order is no longer pending payment")
	ErrNoCardDetails     = errors.New("card details have not been entered")
	ErrNoQR              = errors.New("no QR code has been generated")
)
