package blockchain

import "github.com/coreledger/blockvalidate/wire"

// ForkBitset reports which consensus-activated rule changes (BIP16, BIP141,
// BIP113, BIP34, ...) are in force at the point a block is being evaluated.
// It is a plain bitset rather than an enum so a chain can activate an
// arbitrary combination without the validation package needing to know
// about every fork that has ever existed.
type ForkBitset uint32

const (
	ForkBIP16 ForkBitset = 1 << iota
	ForkBIP34
	ForkBIP113
	ForkBIP141
)

// Has reports whether every bit set in want is also set in f.
func (f ForkBitset) Has(want ForkBitset) bool {
	return f&want == want
}

// ChainState is the external view of the chain a block is being validated
// against: its height, which forks are active, the median time past used
// for locktime finality, and lookups into the confirmed UTXO set. It is
// never implemented by this package — the caller supplies one backed by
// its own chain index and UTXO store.
type ChainState interface {
	// Height returns the height of the chain tip this block extends.
	Height() uint64
	// EnabledForks returns the forks active for the block being validated.
	EnabledForks() ForkBitset
	// MedianTimePast returns BIP 113's median-time-past of the 11 blocks
	// preceding the one being validated.
	MedianTimePast() uint32
	// OutputOf returns the referenced output if it is present and unspent
	// in the confirmed UTXO set.
	OutputOf(op wire.OutPoint) (*wire.TxOut, bool)
	// WorkRequired returns the proof-of-work target (compact bits) the
	// block being validated must satisfy.
	WorkRequired() uint32
}

// Settings carries the chain parameters Check, Accept and Connect consult.
// It has no behavior of its own; callers construct one from their network's
// configuration (mainnet, testnet, a private altchain, ...).
type Settings struct {
	// MaxMoney is the maximum number of satoshi that may ever exist,
	// bounding individual output values and their sum.
	MaxMoney int64
	// SubsidyInterval is the number of blocks between subsidy halvings.
	SubsidyInterval uint64
	// InitialBlockSubsidySatoshi is the coinbase subsidy at height 1,
	// before any halving.
	InitialBlockSubsidySatoshi uint64
	// TimestampLimitSeconds bounds how far into the future (relative to
	// the validator's clock) a header's timestamp may be. Zero selects
	// MaxFutureTimestamp.
	TimestampLimitSeconds uint32
	// ProofOfWorkLimit is the easiest allowed compact-bits target.
	ProofOfWorkLimit uint32
	// UseScrypt selects the scrypt proof-of-work hash instead of the
	// default SHA256d for altchain compatibility.
	UseScrypt bool
}

// ScriptFlags selects which script-verification rules are enforced for a
// given input, mirroring the forks active in ChainState.
type ScriptFlags struct {
	BIP16  bool
	BIP141 bool
}

// ScriptVerifier is the external script-evaluation collaborator: given a
// transaction, the index of one of its inputs, and the output it spends,
// it reports whether the input's unlocking data satisfies that output's
// locking script. This package never implements one; Connect requires a
// caller-supplied verifier before it will check a block's inputs.
type ScriptVerifier interface {
	VerifyInput(tx *wire.MsgTx, inputIndex int, prevOut *wire.TxOut, flags ScriptFlags) error
}
