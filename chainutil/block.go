// Package chainutil provides Block, a wrapper around wire.MsgBlock that
// lazily computes and caches the derived quantities (sizes, weight, input
// counts, segregation) repeatedly needed during validation, guarded by an
// UpgradeLock so concurrent readers never block on the same recomputation.
package chainutil

import (
	"github.com/coreledger/blockvalidate/merkle"
	"github.com/coreledger/blockvalidate/wire"
)

// Block wraps a decoded wire.MsgBlock together with a lazily-populated
// cache of quantities that are expensive to recompute (total size, weight,
// input counts) or simply convenient to not recompute on every call
// (segregation flag, hash). A Block is move-only in spirit: callers should
// treat a *Block as uniquely owned and call Clone when an independent copy
// is genuinely needed, rather than taking a shallow copy of the struct,
// which would share (and could stall on) the embedded lock.
type Block struct {
	msg *wire.MsgBlock

	lock  UpgradeLock
	cache blockCache
}

type blockCache struct {
	hashValid bool
	hash      wire.Hash

	sizeValid           bool
	baseSize, totalSize int

	weightValid bool
	weight      int64

	inputsValid        bool
	totalInputs        int
	nonCoinbaseInputs  int

	segregatedValid bool
	segregated      bool
}

// NewBlock wraps msg in a Block with an empty cache.
func NewBlock(msg *wire.MsgBlock) *Block {
	return &Block{msg: msg}
}

// NewBlockFromBytes decodes buf as a witness-tolerant block and wraps it.
func NewBlockFromBytes(buf []byte) (*Block, error) {
	msg, err := wire.DecodeBlock(buf, true)
	if err != nil {
		return nil, err
	}
	return NewBlock(msg), nil
}

// MsgBlock returns the underlying wire representation. Callers must not
// mutate the transactions or header reachable from it without first
// invalidating b's cache (there is no supported way to do so; construct a
// new Block instead).
func (b *Block) MsgBlock() *wire.MsgBlock {
	return b.msg
}

// Clone returns an independent Block wrapping a deep copy of the
// transaction slice headers (not the underlying script/witness byte
// slices, which are treated as immutable once parsed) with its own empty
// cache.
func (b *Block) Clone() *Block {
	msg := &wire.MsgBlock{
		Header:       b.msg.Header,
		Transactions: append([]*wire.MsgTx(nil), b.msg.Transactions...),
	}
	return NewBlock(msg)
}

// cachedOr runs the shared-lock fast path to read *dst if valid, else
// upgrades, recomputes via compute, stores, and downgrades back to shared
// before returning. It is the single access pattern every derived-quantity
// accessor below follows.
func cachedOr[T any](l *UpgradeLock, valid *bool, dst *T, compute func() T) T {
	l.Lock()
	if *valid {
		v := *dst
		l.Unlock()
		return v
	}
	l.Unlock()

	l.LockUpgradeable()
	defer l.UnlockUpgradeable()

	if *valid {
		return *dst
	}

	l.Upgrade()
	if !*valid { // re-check: another goroutine may have raced us to Upgrade
		*dst = compute()
		*valid = true
	}
	l.Downgrade()
	return *dst
}

// Hash returns the block header's double-SHA256 identifier.
func (b *Block) Hash() wire.Hash {
	return cachedOr(&b.lock, &b.cache.hashValid, &b.cache.hash, func() wire.Hash {
		return b.msg.Header.Hash()
	})
}

// BaseSize returns the serialized size excluding witness data.
func (b *Block) BaseSize() int {
	b.ensureSize()
	return b.cache.baseSize
}

// TotalSize returns the serialized size including witness data.
func (b *Block) TotalSize() int {
	b.ensureSize()
	return b.cache.totalSize
}

func (b *Block) ensureSize() {
	b.lock.Lock()
	valid := b.cache.sizeValid
	b.lock.Unlock()
	if valid {
		return
	}
	b.lock.LockUpgradeable()
	defer b.lock.UnlockUpgradeable()
	if b.cache.sizeValid {
		return
	}
	b.lock.Upgrade()
	if !b.cache.sizeValid {
		log.Tracef("computing size cache for block")
		b.cache.baseSize = len(b.msg.Bytes(false))
		b.cache.totalSize = len(b.msg.Bytes(true))
		b.cache.sizeValid = true
	}
	b.lock.Downgrade()
}

// Weight returns the BIP 141 block weight: 3*BaseSize + TotalSize.
func (b *Block) Weight() int64 {
	b.ensureSize()
	return cachedOr(&b.lock, &b.cache.weightValid, &b.cache.weight, func() int64 {
		return 3*int64(b.cache.baseSize) + int64(b.cache.totalSize)
	})
}

// TotalInputs returns the number of inputs across every transaction in the
// block, including the coinbase.
func (b *Block) TotalInputs() int {
	b.ensureInputCounts()
	return b.cache.totalInputs
}

// NonCoinbaseInputs returns the number of inputs across every
// non-coinbase transaction in the block.
func (b *Block) NonCoinbaseInputs() int {
	b.ensureInputCounts()
	return b.cache.nonCoinbaseInputs
}

func (b *Block) ensureInputCounts() {
	b.lock.Lock()
	valid := b.cache.inputsValid
	b.lock.Unlock()
	if valid {
		return
	}
	b.lock.LockUpgradeable()
	defer b.lock.UnlockUpgradeable()
	if b.cache.inputsValid {
		return
	}
	b.lock.Upgrade()
	if !b.cache.inputsValid {
		total, nonCoinbase := 0, 0
		for i, tx := range b.msg.Transactions {
			total += len(tx.TxIn)
			if i > 0 {
				nonCoinbase += len(tx.TxIn)
			}
		}
		b.cache.totalInputs = total
		b.cache.nonCoinbaseInputs = nonCoinbase
		b.cache.inputsValid = true
	}
	b.lock.Downgrade()
}

// IsSegregated reports whether any transaction in the block carries
// witness data.
func (b *Block) IsSegregated() bool {
	return cachedOr(&b.lock, &b.cache.segregatedValid, &b.cache.segregated, func() bool {
		for _, tx := range b.msg.Transactions {
			if tx.HasWitness() {
				return true
			}
		}
		return false
	})
}

// ToHashes returns the txid (witness=false) or wtxid (witness=true) of
// every transaction in order. This is never cached: callers that need the
// merkle root should call merkle.Root directly over this slice, and the
// merkle root itself is not part of the derived-quantity cache because it
// is only ever computed once, at Check time.
func (b *Block) ToHashes(witness bool) []wire.Hash {
	if witness {
		return merkle.WitnessTxHashes(b.msg.Transactions)
	}
	return merkle.TxHashes(b.msg.Transactions)
}

// StripWitness returns a new Block whose transactions carry no witness
// data. Its Hash, merkle root over ToHashes(false), and TxHash of each
// transaction are unchanged from b's.
func (b *Block) StripWitness() *Block {
	stripped := &wire.MsgBlock{Header: b.msg.Header}
	stripped.Transactions = make([]*wire.MsgTx, len(b.msg.Transactions))
	for i, tx := range b.msg.Transactions {
		stripped.Transactions[i] = tx.StripWitness()
	}
	return NewBlock(stripped)
}
