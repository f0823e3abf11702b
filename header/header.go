package header

import (
	"bytes"
	"fmt"
	"time"

	core "github.com/cometbft/cometbft/types"

	libhead "github.com/celestiaorg/go-header"
)

// RawHeader is an alias to core.Header. It is the header of the dependent chain
// exactly as the authority chain reports it in head data.
type RawHeader = core.Header

// Header wraps a RawHeader decoded from head data and gives it the identity
// used by the local chain.
type Header struct {
	RawHeader `json:"header"`
}

// New wraps the given RawHeader.
func New(raw *RawHeader) *Header {
	return &Header{RawHeader: *raw}
}

func (h *Header) ChainID() string {
	return h.RawHeader.ChainID
}

func (h *Header) Height() uint64 {
	return uint64(h.RawHeader.Height)
}

func (h *Header) Time() time.Time {
	return h.RawHeader.Time
}

// Hash returns Hash of the wrapped RawHeader.
// NOTE: It purposely overrides Hash method of RawHeader to return libhead.Hash.
func (h *Header) Hash() libhead.Hash {
	return libhead.Hash(h.RawHeader.Hash())
}

// LastHeader returns the Hash of the parent of the wrapped RawHeader.
func (h *Header) LastHeader() libhead.Hash {
	return libhead.Hash(h.RawHeader.LastBlockID.Hash)
}

// Equals returns whether the hash and height of the given header match.
func (h *Header) Equals(other *Header) bool {
	return h.Height() == other.Height() && bytes.Equal(h.Hash(), other.Hash())
}

// String implements fmt.Stringer.
func (h *Header) String() string {
	return fmt.Sprintf("%s:%d", h.Hash().String(), h.Height())
}

// MarshalBinary marshals Header to binary.
func (h *Header) MarshalBinary() ([]byte, error) {
	return MarshalHeader(h)
}

// UnmarshalBinary unmarshals Header from binary.
func (h *Header) UnmarshalBinary(data []byte) error {
	if h == nil {
		return fmt.Errorf("header: cannot UnmarshalBinary - nil Header")
	}

	out, err := UnmarshalHeader(data)
	if err != nil {
		return err
	}

	*h = *out
	return nil
}
