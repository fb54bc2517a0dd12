package core

import (
	"bytes"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum/common"
)

// SubAccount derive the id-th sub account of owner
func SubAccount(owner common.Address, id uint8) common.Address {
	account := owner
	account[common.AddressLength-1] ^= id
	return account
}

// HaveCommonOwner check if a and b are sub accounts of the same owner
func HaveCommonOwner(a, b common.Address) bool {
	return bytes.Equal(a[:common.AddressLength-1], b[:common.AddressLength-1])
}

// ParseAddress parse a 0x prefixed hex address
func ParseAddress(s string) (common.Address, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(hex) != 2*common.AddressLength || !govalidator.IsHexadecimal(hex) {
		return common.Address{}, ErrBadAddress
	}

	return common.HexToAddress(hex), nil
}

// MustParseAddress like ParseAddress but panics on malformed input
func MustParseAddress(s string) common.Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}

	return addr
}
