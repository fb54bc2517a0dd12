package core

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000

	// ErrUnauthorized caller may not act for the account
	ErrUnauthorized ErrorCode = 100001
	// ErrReentrancy vault is locked by an operation in progress
	ErrReentrancy ErrorCode = 100002
	// ErrOperationDisabled operation disabled by hook config
	ErrOperationDisabled ErrorCode = 100003
	// ErrBadAddress malformed or unknown address
	ErrBadAddress ErrorCode = 100004
	// ErrControllerViolation account already has a different controller
	ErrControllerViolation ErrorCode = 100005

	// ErrAmountTooLarge amount exceeds the sane maximum
	ErrAmountTooLarge ErrorCode = 100100
	// ErrAmountTooLargeToEncode resulting total exceeds the sane maximum
	ErrAmountTooLargeToEncode ErrorCode = 100101
	// ErrDebtAmountTooLargeToEncode resulting debt exceeds the owed maximum
	ErrDebtAmountTooLargeToEncode ErrorCode = 100102
	// ErrConfigAmountTooLargeToEncode config value out of range
	ErrConfigAmountTooLargeToEncode ErrorCode = 100103
	// ErrZeroShares deposit would mint zero shares
	ErrZeroShares ErrorCode = 100104
	// ErrZeroAssets redeem would return zero assets
	ErrZeroAssets ErrorCode = 100105
	// ErrSelfTransfer transfer to self
	ErrSelfTransfer ErrorCode = 100106
	// ErrSelfApproval approve self
	ErrSelfApproval ErrorCode = 100107
	// ErrInsufficientBalance share balance too low
	ErrInsufficientBalance ErrorCode = 100108
	// ErrInsufficientAllowance allowance too low
	ErrInsufficientAllowance ErrorCode = 100109
	// ErrInsufficientCash vault cash too low
	ErrInsufficientCash ErrorCode = 100110
	// ErrInsufficientDebt pulled more debt than owed
	ErrInsufficientDebt ErrorCode = 100111
	// ErrRepayTooMuch repay exceeds debt
	ErrRepayTooMuch ErrorCode = 100112
	// ErrFlashLoanNotRepaid vault balance not restored after flash loan
	ErrFlashLoanNotRepaid ErrorCode = 100113
	// ErrTransferFromFailed asset transfer failed
	ErrTransferFromFailed ErrorCode = 100114
	// ErrBadFee fee out of range
	ErrBadFee ErrorCode = 100115

	// ErrAccountLiquidity liability exceeds risk adjusted collateral
	ErrAccountLiquidity ErrorCode = 100200
	// ErrNoLiability vault holds no liability of the account
	ErrNoLiability ErrorCode = 100201
	// ErrOutstandingDebt controller released with debt
	ErrOutstandingDebt ErrorCode = 100202
	// ErrControllerDisabled vault is not the account controller
	ErrControllerDisabled ErrorCode = 100203
	// ErrCollateralDisabled collateral not enabled by the account
	ErrCollateralDisabled ErrorCode = 100204
	// ErrNoPrice oracle has no price for the pair
	ErrNoPrice ErrorCode = 100205

	// ErrSelfLiquidation liquidator equals violator
	ErrSelfLiquidation ErrorCode = 100300
	// ErrBadCollateral collateral not recognized by the vault
	ErrBadCollateral ErrorCode = 100301
	// ErrExcessiveRepayAmount repay exceeds the liquidation maximum
	ErrExcessiveRepayAmount ErrorCode = 100302
	// ErrMinYield yield below the requested minimum
	ErrMinYield ErrorCode = 100303
	// ErrViolatorLiquidityDeferred violator check is deferred in the same call
	ErrViolatorLiquidityDeferred ErrorCode = 100304

	// ErrSupplyCapExceeded supply above cap and increased
	ErrSupplyCapExceeded ErrorCode = 100400
	// ErrBorrowCapExceeded borrows above cap and increased
	ErrBorrowCapExceeded ErrorCode = 100401
	// ErrInvalidLTVAsset vault cannot be its own collateral
	ErrInvalidLTVAsset ErrorCode = 100402
)

var errorNames = map[ErrorCode]string{
	ErrUnknown:                      "E_Unknown",
	ErrUnauthorized:                 "E_Unauthorized",
	ErrReentrancy:                   "E_Reentrancy",
	ErrOperationDisabled:            "E_OperationDisabled",
	ErrBadAddress:                   "E_BadAddress",
	ErrControllerViolation:          "E_ControllerViolation",
	ErrAmountTooLarge:               "E_AmountTooLarge",
	ErrAmountTooLargeToEncode:       "E_AmountTooLargeToEncode",
	ErrDebtAmountTooLargeToEncode:   "E_DebtAmountTooLargeToEncode",
	ErrConfigAmountTooLargeToEncode: "E_ConfigAmountTooLargeToEncode",
	ErrZeroShares:                   "E_ZeroShares",
	ErrZeroAssets:                   "E_ZeroAssets",
	ErrSelfTransfer:                 "E_SelfTransfer",
	ErrSelfApproval:                 "E_SelfApproval",
	ErrInsufficientBalance:          "E_InsufficientBalance",
	ErrInsufficientAllowance:        "E_InsufficientAllowance",
	ErrInsufficientCash:             "E_InsufficientCash",
	ErrInsufficientDebt:             "E_InsufficientDebt",
	ErrRepayTooMuch:                 "E_RepayTooMuch",
	ErrFlashLoanNotRepaid:           "E_FlashLoanNotRepaid",
	ErrTransferFromFailed:           "E_TransferFromFailed",
	ErrBadFee:                       "E_BadFee",
	ErrAccountLiquidity:             "E_AccountLiquidity",
	ErrNoLiability:                  "E_NoLiability",
	ErrOutstandingDebt:              "E_OutstandingDebt",
	ErrControllerDisabled:           "E_ControllerDisabled",
	ErrCollateralDisabled:           "E_CollateralDisabled",
	ErrNoPrice:                      "E_NoPrice",
	ErrSelfLiquidation:              "E_SelfLiquidation",
	ErrBadCollateral:                "E_BadCollateral",
	ErrExcessiveRepayAmount:         "E_ExcessiveRepayAmount",
	ErrMinYield:                     "E_MinYield",
	ErrViolatorLiquidityDeferred:    "E_ViolatorLiquidityDeferred",
	ErrSupplyCapExceeded:            "E_SupplyCapExceeded",
	ErrBorrowCapExceeded:            "E_BorrowCapExceeded",
	ErrInvalidLTVAsset:              "E_InvalidLTVAsset",
}

// Name symbolic error name, E_ prefixed
func (e ErrorCode) Name() string {
	if name, ok := errorNames[e]; ok {
		return name
	}

	return "E_" + strconv.Itoa(int(e))
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.Name()
}

// error categories
const (
	CategoryValidation = "validation"
	CategoryState      = "state"
	CategorySolvency   = "solvency"
	CategoryCapacity   = "capacity"
	CategoryOperation  = "operational"
	CategoryExternal   = "external"
)

// Category coarse class of the error, derived from the code range
func (e ErrorCode) Category() string {
	switch {
	case e == ErrTransferFromFailed || e == ErrNoPrice:
		return CategoryExternal
	case e == ErrReentrancy || e == ErrOperationDisabled || e == ErrFlashLoanNotRepaid:
		return CategoryOperation
	case e >= 100400:
		return CategoryCapacity
	case e >= 100200:
		return CategorySolvency
	case e >= 100100 || e == ErrBadAddress:
		return CategoryValidation
	case e > ErrUnknown:
		return CategoryState
	default:
		return CategoryOperation
	}
}

// ExternalError failure raised by an external collaborator (token, oracle, hook),
// matched by its Code and unwrapping to the original cause
type ExternalError struct {
	Code  ErrorCode
	Cause error
}

// WrapExternal wrap the cause of a failed external call with code
func WrapExternal(code ErrorCode, cause error) error {
	if cause == nil {
		return nil
	}

	return &ExternalError{Code: code, Cause: cause}
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code.Name(), e.Cause)
}

// Is match the wrapped code
func (e *ExternalError) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

func (e *ExternalError) Unwrap() error {
	return e.Cause
}

// CodeOf extract the outermost error code of err, ErrUnknown if none
func CodeOf(err error) ErrorCode {
	var ext *ExternalError
	if errors.As(err, &ext) {
		return ext.Code
	}

	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}

	return ErrUnknown
}
