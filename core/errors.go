package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrProtocolPaused protocol paused
	ErrProtocolPaused ErrorCode = 100001
	// ErrReentrantCall mutating operation entered while another is running
	ErrReentrantCall ErrorCode = 100002
	// ErrOracleUnavailable price feed missing, stale or invalid
	ErrOracleUnavailable ErrorCode = 100003
	// ErrArithmeticOverflow value left the fixed-point representable range
	ErrArithmeticOverflow ErrorCode = 100004

	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrInsufficientBalance balance too low for the requested change
	ErrInsufficientBalance ErrorCode = 100102
	// ErrUndercollateralizedBorrow borrow would exceed max borrowable
	ErrUndercollateralizedBorrow ErrorCode = 100103
	// ErrWithdrawalWouldUnderwater collateral withdrawal would leave debt uncovered
	ErrWithdrawalWouldUnderwater ErrorCode = 100104
	// ErrPositionHealthy liquidation attempted on a safe position
	ErrPositionHealthy ErrorCode = 100105
)

var errMsgs = map[ErrorCode]string{
	ErrUnknown:                   "unknown",
	ErrProtocolPaused:            "protocol paused",
	ErrReentrantCall:             "reentrant call",
	ErrOracleUnavailable:         "oracle unavailable",
	ErrArithmeticOverflow:        "arithmetic overflow",
	ErrInvalidAmount:             "invalid amount",
	ErrInsufficientBalance:       "insufficient balance",
	ErrUndercollateralizedBorrow: "undercollateralized borrow",
	ErrWithdrawalWouldUnderwater: "withdrawal would leave position underwater",
	ErrPositionHealthy:           "position is healthy",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errMsgs[e]; ok {
		return msg
	}

	return e.String()
}
