package ledger

import "fmt"

var (
	ErrUnauthorized           = fmt.Errorf("caller is not authorized")
	ErrSystemPaused           = fmt.Errorf("system is not operational")
	ErrInsufficientFunds      = fmt.Errorf("insufficient funds")
	ErrInsufficientFee        = fmt.Errorf("insufficient registration fee")
	ErrOverCap                = fmt.Errorf("premium exceeds the policy cap")
	ErrDuplicateVote          = fmt.Errorf("caller already voted for this candidate")
	ErrInvalidIndex           = fmt.Errorf("index not assigned to the caller")
	ErrUnknownAirline         = fmt.Errorf("airline is not registered")
	ErrNothingDue             = fmt.Errorf("no payable credit for this policy")
	ErrInsolvency             = fmt.Errorf("escrow cannot cover the credited amount")
	ErrAirlineAlreadyExists   = fmt.Errorf("airline already exists")
	ErrAirlineNotFound        = fmt.Errorf("airline not found")
	ErrOracleAlreadyExists    = fmt.Errorf("oracle already registered")
	ErrOracleNotFound         = fmt.Errorf("oracle not registered")
	ErrInvalidStatus          = fmt.Errorf("invalid flight status code")
)
