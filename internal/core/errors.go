package core

import "errors"

var (
	// ErrInvalidInput indicates malformed caller input; no oracle call is made
	ErrInvalidInput = errors.New("invalid input")

	// ErrPayloadTooLarge indicates the request body exceeded the configured ceiling
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrRateLimited indicates the per-client request ceiling was reached
	ErrRateLimited = errors.New("rate limit reached")

	// ErrOriginRejected indicates the request origin is not in the allow-list
	ErrOriginRejected = errors.New("origin not allowed")

	// ErrOracleUnavailable indicates a network or service failure reaching the oracle
	ErrOracleUnavailable = errors.New("classification service unavailable")

	// ErrOracleContract indicates the oracle's reply did not match the expected shape
	ErrOracleContract = errors.New("oracle response violates output contract")

	// ErrOracleRefusal indicates the oracle explicitly declined to answer
	ErrOracleRefusal = errors.New("oracle declined to classify")

	// ErrDecode indicates the image normalizer could not decode the input
	ErrDecode = errors.New("unable to decode image")
)
