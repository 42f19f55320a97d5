package widestream

import "errors"

var (
	// ErrInvalidKey is returned for a key length outside the legal set, or a truncated or
	// malformed serialized state.
	ErrInvalidKey = errors.New("widestream: invalid key or serialized state")

	// ErrInvalidNonce is returned when the nonce length does not equal the cipher block size.
	ErrInvalidNonce = errors.New("widestream: nonce length must equal the block size")

	// ErrInvalidSize is returned when a buffer is too small for the requested operation or the
	// parallel block size is out of bounds.
	ErrInvalidSize = errors.New("widestream: buffer or parallel block size out of bounds")

	// ErrInvalidParam is returned when a parameter violates an alignment constraint, or when the
	// info string exceeds the cipher's info size bound.
	ErrInvalidParam = errors.New("widestream: parameter violates alignment constraints")

	// ErrNotInitialized is returned by operations that require a prior Initialize call.
	ErrNotInitialized = errors.New("widestream: the cipher has not been initialized")

	// ErrIllegalOperation is returned when an operation is not valid for the instance
	// configuration, such as setting associated data on a non-authenticated cipher.
	ErrIllegalOperation = errors.New("widestream: operation not valid for this configuration")

	// ErrNotSupported is returned for an unsupported parallel degree.
	ErrNotSupported = errors.New("widestream: setting is not supported")

	// ErrAuthenticationFailure is returned when the authentication tag does not match. No
	// plaintext is produced.
	ErrAuthenticationFailure = errors.New("widestream: the authentication tag does not match")
)
