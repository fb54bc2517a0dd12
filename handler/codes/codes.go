package codes

import (
	"strconv"

	"evault/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"
	// NameKey symbolic error name key
	NameKey = "name"

	// InvalidArguments invalid arguments
	InvalidArguments = 400001
)

// With with specified error
func With(err error, code int) error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// From convert err into a twirp error, vault errors keep their code and name
func From(err error) twirp.Error {
	if twerr, ok := err.(twirp.Error); ok {
		return twerr
	}

	code := core.CodeOf(err)
	if code == core.ErrUnknown {
		return twirp.InternalErrorWith(err)
	}

	return twirp.NewError(twirpCode(code), err.Error()).
		WithMeta(CustomCodeKey, code.String()).
		WithMeta(NameKey, code.Name())
}

func twirpCode(code core.ErrorCode) twirp.ErrorCode {
	if code == core.ErrUnauthorized {
		return twirp.PermissionDenied
	}

	switch code.Category() {
	case core.CategoryValidation:
		return twirp.InvalidArgument
	case core.CategoryCapacity:
		return twirp.ResourceExhausted
	case core.CategoryExternal:
		return twirp.Unavailable
	default:
		return twirp.FailedPrecondition
	}
}

// Get get error code
func Get(twerr twirp.Error) int {
	if v := twerr.Meta(CustomCodeKey); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			return code
		}
	}

	switch twerr.Code() {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(twerr.Code())
	}
}
