// Command blockvalidate-cli is a line-oriented JSON request/response demo
// binary exercising the check/accept/connect validation pipeline without
// requiring a running node: each request carries its own chain-state
// snapshot and settings, decoded from JSON convenience fields.
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/coreledger/blockvalidate/blockchain"
	"github.com/coreledger/blockvalidate/chainutil"
	"github.com/coreledger/blockvalidate/dispatch"
	"github.com/coreledger/blockvalidate/flushlock"
	"github.com/coreledger/blockvalidate/internal/config"
	"github.com/coreledger/blockvalidate/wire"
)

// Request is one line of stdin input.
type Request struct {
	Op       string `json:"op"`
	BlockHex string `json:"block_hex"`
	Height   uint64 `json:"height,omitempty"`
	Bits     uint32 `json:"bits,omitempty"`
	MTP      uint32 `json:"median_time_past,omitempty"`
}

// Response is one line of stdout output.
type Response struct {
	Ok        bool   `json:"ok"`
	Err       string `json:"err,omitempty"`
	BlockHash string `json:"block_hash,omitempty"`
	Weight    int64  `json:"weight,omitempty"`
}

// staticChainState is the minimal ChainState a one-shot CLI invocation can
// construct on the spot, with no UTXO set: it is sufficient to exercise
// Check and Accept, not Connect.
type staticChainState struct {
	height uint64
	forks  blockchain.ForkBitset
	mtp    uint32
	bits   uint32
}

func (s staticChainState) Height() uint64                     { return s.height }
func (s staticChainState) EnabledForks() blockchain.ForkBitset { return s.forks }
func (s staticChainState) MedianTimePast() uint32              { return s.mtp }
func (s staticChainState) WorkRequired() uint32                 { return s.bits }
func (s staticChainState) OutputOf(wire.OutPoint) (*wire.TxOut, bool) {
	return nil, false
}

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	settings, err := config.NetworkSettings(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	lock := flushlock.New(filepath.Join(cfg.DataDir, "blockvalidate.lock"))
	if err := lock.LockShared(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer lock.UnlockShared()

	pool := dispatch.NewWorkerPool(4)
	defer pool.Abort()

	runRequestLoop(os.Stdin, os.Stdout, settings, pool)
}

func runRequestLoop(in io.Reader, out io.Writer, settings blockchain.Settings, pool dispatch.OrderedDispatcher) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)

	results := make(chan Response, 256)
	pending := 0

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			results <- Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)}
			pending++
			continue
		}
		pending++
		pool.Ordered("cli", func() {
			results <- handleRequest(req, settings)
		})
	}

	for i := 0; i < pending; i++ {
		resp := <-results
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(resp)
	}
}

func handleRequest(req Request, settings blockchain.Settings) Response {
	switch req.Op {
	case "check_block":
		return checkBlock(req, settings)
	default:
		return Response{Ok: false, Err: fmt.Sprintf("unknown op %q", req.Op)}
	}
}

func checkBlock(req Request, settings blockchain.Settings) Response {
	raw, err := hex.DecodeString(req.BlockHex)
	if err != nil {
		return Response{Ok: false, Err: "bad block_hex"}
	}

	b, err := chainutil.NewBlockFromBytes(raw)
	if err != nil {
		return Response{Ok: false, Err: err.Error()}
	}

	if err := blockchain.Check(b, blockchain.CheckParams{Settings: settings, Now: time.Now()}); err != nil {
		return Response{Ok: false, Err: err.Error()}
	}

	state := staticChainState{height: req.Height, mtp: req.MTP, bits: req.Bits}
	if err := blockchain.Accept(b, state, settings, true, req.Bits != 0); err != nil {
		return Response{Ok: false, Err: err.Error()}
	}

	return Response{Ok: true, BlockHash: b.Hash().String(), Weight: b.Weight()}
}
