package core

import "strings"

// Operation hookable vault operation flag
type Operation uint32

const (
	OpDeposit Operation = 1 << iota
	OpMint
	OpWithdraw
	OpRedeem
	OpTransfer
	OpBorrow
	OpRepay
	OpLoop
	OpDeloop
	OpPullDebt
	OpConvertFees
	OpLiquidate
	OpFlashLoan
	OpTouch
)

var operationNames = []string{
	"deposit",
	"mint",
	"withdraw",
	"redeem",
	"transfer",
	"borrow",
	"repay",
	"loop",
	"deloop",
	"pull_debt",
	"convert_fees",
	"liquidate",
	"flash_loan",
	"touch",
}

func (op Operation) String() string {
	var names []string
	for i, name := range operationNames {
		if op&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}

	return strings.Join(names, "|")
}

// Has check if all bits of flag are set
func (op Operation) Has(flag Operation) bool {
	return op&flag == flag && flag != 0
}

// ParseOperation parse a single operation name
func ParseOperation(name string) (Operation, bool) {
	for i, n := range operationNames {
		if n == name {
			return Operation(1 << uint(i)), true
		}
	}

	return 0, false
}
