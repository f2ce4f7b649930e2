package wire

import "errors"

var (
	errTooManyWitnessItems = errors.New("wire: witness stack exceeds item limit")
	errTooManyTxIn         = errors.New("wire: transaction input count exceeds limit")
	errTooManyTxOut        = errors.New("wire: transaction output count exceeds limit")
	errTooManyTx           = errors.New("wire: block transaction count exceeds limit")
	errWitnessFlagZero     = errors.New("wire: witness flag byte must be non-zero")
	errNonWitnessMarker    = errors.New("wire: unexpected witness marker in non-witness decode")
)
