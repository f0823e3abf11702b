package headertest

import (
	"crypto/rand"
	mrand "math/rand"
	"testing"
	"time"

	"github.com/cometbft/cometbft/crypto/tmhash"
	cmtrand "github.com/cometbft/cometbft/libs/rand"
	"github.com/cometbft/cometbft/proto/tendermint/version"
	"github.com/cometbft/cometbft/types"
	cmtversion "github.com/cometbft/cometbft/version"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/head-relay/header"
)

// Chain produces a sequence of linked Headers.
// If not, please don't hesitate to extend it for your case.
type Chain struct {
	t *testing.T

	chainID string
	head    *header.Header
}

// NewChain creates a new Chain generator for the given chain ID.
func NewChain(t *testing.T, chainID string) *Chain {
	return &Chain{t: t, chainID: chainID}
}

// Next generates the next Header, linked to the previous one.
func (c *Chain) Next() *header.Header {
	var raw *header.RawHeader
	if c.head == nil {
		raw = RandRawHeaderAt(c.t, 1)
	} else {
		raw = RandRawHeaderAt(c.t, c.head.RawHeader.Height+1)
		raw.LastBlockID = types.BlockID{
			Hash:          c.head.RawHeader.Hash(),
			PartSetHeader: RandBlockID(c.t).PartSetHeader,
		}
		raw.Time = c.head.RawHeader.Time.Add(time.Second)
	}
	raw.ChainID = c.chainID

	c.head = header.New(raw)
	return c.head
}

// NextN generates amount of next Headers.
func (c *Chain) NextN(amount int) []*header.Header {
	hs := make([]*header.Header, amount)
	for i := range hs {
		hs[i] = c.Next()
	}
	return hs
}

// Head returns the last generated Header or nil.
func (c *Chain) Head() *header.Header {
	return c.head
}

// RandHeader provides a random Header fixture.
func RandHeader(t *testing.T) *header.Header {
	return header.New(RandRawHeader(t))
}

// RandRawHeader provides a RawHeader fixture with a random positive height.
func RandRawHeader(t *testing.T) *header.RawHeader {
	return RandRawHeaderAt(t, mrand.Int63n(1<<40)+1) //nolint:gosec
}

// RandRawHeaderAt provides a RawHeader fixture at the given height.
func RandRawHeaderAt(t *testing.T, height int64) *header.RawHeader {
	return &header.RawHeader{
		Version:            version.Consensus{Block: cmtversion.BlockProtocol, App: 1},
		ChainID:            "test",
		Height:             height,
		Time:               time.Now().UTC().Round(time.Millisecond),
		LastBlockID:        RandBlockID(t),
		LastCommitHash:     cmtrand.Bytes(32),
		DataHash:           cmtrand.Bytes(32),
		ValidatorsHash:     cmtrand.Bytes(32),
		NextValidatorsHash: cmtrand.Bytes(32),
		ConsensusHash:      cmtrand.Bytes(32),
		AppHash:            cmtrand.Bytes(32),
		LastResultsHash:    cmtrand.Bytes(32),
		EvidenceHash:       tmhash.Sum([]byte{}),
		ProposerAddress:    cmtrand.Bytes(20),
	}
}

// RandBlockID provides a BlockID fixture.
func RandBlockID(*testing.T) types.BlockID {
	bid := types.BlockID{
		Hash: make([]byte, 32),
		PartSetHeader: types.PartSetHeader{
			Total: 123,
			Hash:  make([]byte, 32),
		},
	}
	_, _ = rand.Read(bid.Hash)
	_, _ = rand.Read(bid.PartSetHeader.Hash)
	return bid
}

// Encode returns the head data for the given Header.
func Encode(t *testing.T, h *header.Header) []byte {
	data, err := h.MarshalBinary()
	require.NoError(t, err)
	return data
}
