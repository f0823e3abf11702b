package header

import (
	"errors"
	"fmt"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	core "github.com/cometbft/cometbft/types"
)

// ErrNoIdentity is returned for head data that decodes to a header without a hash.
var ErrNoIdentity = errors.New("header: header has no identity")

// MarshalHeader serializes given Header to bytes using protobuf.
// Paired with UnmarshalHeader.
func MarshalHeader(in *Header) ([]byte, error) {
	return in.RawHeader.ToProto().Marshal()
}

// UnmarshalHeader deserializes given data into a new Header using protobuf.
// Paired with MarshalHeader.
func UnmarshalHeader(data []byte) (*Header, error) {
	in := &cmtproto.Header{}
	err := in.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("header: unmarshalling proto: %w", err)
	}

	raw, err := core.HeaderFromProto(in)
	if err != nil {
		return nil, fmt.Errorf("header: malformed header: %w", err)
	}

	return &Header{RawHeader: raw}, nil
}

// Decode turns head data relayed by the authority chain into a Header.
// It is deterministic: the same bytes always yield the same Header or always fail.
// No chain validation happens here beyond what is needed to give the Header an identity.
func Decode(data []byte) (*Header, error) {
	h, err := UnmarshalHeader(data)
	if err != nil {
		return nil, err
	}
	// RawHeader.Hash is nil for headers without validators hash
	if len(h.Hash()) == 0 {
		return nil, ErrNoIdentity
	}
	return h, nil
}
