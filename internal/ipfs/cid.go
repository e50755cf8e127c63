package ipfs

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ValidateCID parses a content-identifier string, accepting both CIDv0
// (Qm...) and CIDv1 forms.
func ValidateCID(value string) error {
	if _, err := cid.Decode(value); err != nil {
		return fmt.Errorf("invalid cid %q: %v", value, err)
	}
	return nil
}

// SumRaw computes the CIDv1 (raw codec, sha2-256) of data. Used to
// cross-check pinning-service acknowledgements for raw uploads.
func SumRaw(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// matchesRaw reports whether acknowledged equals the locally computed raw CID
// of data. Only raw-codec CIDs are comparable; chunked dag-pb CIDs from the
// pinning service are accepted as-is.
func matchesRaw(acknowledged cid.Cid, data []byte) bool {
	if acknowledged.Prefix().Codec != cid.Raw {
		return true
	}
	local, err := SumRaw(data)
	if err != nil {
		return false
	}
	return acknowledged.Equals(local)
}
