// Package blockchain implements the check/accept/connect validation
// pipeline for a decoded block: structural self-consistency, context
// against chain state, and input-spend verification.
package blockchain

import "fmt"

// RuleErrorKind identifies the category of a validation failure.
type RuleErrorKind string

const (
	ErrDeserialization      RuleErrorKind = "ERR_DESERIALIZATION"
	ErrSize                 RuleErrorKind = "ERR_SIZE"
	ErrProofOfWork          RuleErrorKind = "ERR_PROOF_OF_WORK"
	ErrTimestamp            RuleErrorKind = "ERR_TIMESTAMP"
	ErrMerkle               RuleErrorKind = "ERR_MERKLE"
	ErrCoinbaseStructure    RuleErrorKind = "ERR_COINBASE_STRUCTURE"
	ErrCoinbaseClaim        RuleErrorKind = "ERR_COINBASE_CLAIM"
	ErrTransactionStructure RuleErrorKind = "ERR_TRANSACTION_STRUCTURE"
	ErrDoubleSpendInternal  RuleErrorKind = "ERR_DOUBLE_SPEND_INTERNAL"
	ErrForwardReference     RuleErrorKind = "ERR_FORWARD_REFERENCE"
	ErrNonFinal             RuleErrorKind = "ERR_NON_FINAL"
	ErrScript               RuleErrorKind = "ERR_SCRIPT"
	ErrConfiguration        RuleErrorKind = "ERR_CONFIGURATION"
	ErrWitnessCommitment    RuleErrorKind = "ERR_WITNESS_COMMITMENT"
)

// RuleError is the single error type returned by Check, Accept and Connect.
// Every failure path in the pipeline constructs one via ruleError so
// callers can switch on Kind without parsing message text.
type RuleError struct {
	Kind RuleErrorKind
	Msg  string
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func ruleError(kind RuleErrorKind, msg string) error {
	return &RuleError{Kind: kind, Msg: msg}
}

func ruleErrorf(kind RuleErrorKind, format string, args ...any) error {
	return &RuleError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
