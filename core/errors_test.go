package core

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "E_ZeroShares", ErrZeroShares.Error())
	assert.Equal(t, "100104", ErrZeroShares.String())
	assert.Equal(t, "E_1", ErrorCode(1).Name())
	assert.Equal(t, "E_TransferFromFailed", ErrTransferFromFailed.Name())
	assert.Equal(t, "100114", ErrTransferFromFailed.String())

	for code, category := range map[ErrorCode]string{
		ErrZeroShares:         CategoryValidation,
		ErrBadAddress:         CategoryValidation,
		ErrUnauthorized:       CategoryState,
		ErrAccountLiquidity:   CategorySolvency,
		ErrMinYield:           CategorySolvency,
		ErrSupplyCapExceeded:  CategoryCapacity,
		ErrReentrancy:         CategoryOperation,
		ErrTransferFromFailed: CategoryExternal,
		ErrNoPrice:            CategoryExternal,
	} {
		assert.Equal(t, category, code.Category(), code.Name())
	}
}

func TestCodeOf(t *testing.T) {
	cause := errors.New("token paused")
	err := pkgerrors.WithMessage(WrapExternal(ErrTransferFromFailed, cause), "deposit")

	assert.True(t, errors.Is(err, ErrTransferFromFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, ErrTransferFromFailed, CodeOf(err))
	assert.Contains(t, err.Error(), "token paused")

	assert.Equal(t, ErrMinYield, CodeOf(pkgerrors.WithMessage(ErrMinYield, "liquidate")))
	assert.Equal(t, ErrUnknown, CodeOf(cause))
	assert.Nil(t, WrapExternal(ErrNoPrice, nil))
}
