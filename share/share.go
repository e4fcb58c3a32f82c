// Package share encodes a selection as a compact copy-pasteable code. The
// code carries corpus indices, so it is only meaningful against the same
// corpus it was produced from; Decode therefore validates every index
// against the corpus size it is given.
package share

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	// Prefix marks a versemix share code; the trailing digit is the format
	// version, repeated as the payload's first byte.
	Prefix = "vmx1-"

	formatVersion = 0x01

	// BaseURL is where a share code can be opened by the web collaborator.
	BaseURL = "https://versemix.app/#"
)

var (
	ErrBadCode     = errors.New("invalid share code")
	ErrBadIndex    = errors.New("share code index out of corpus range")
	ErrEmptyShares = errors.New("nothing to share")
)

// Encode turns a selection into a share code: a version byte followed by
// each corpus index as a uvarint, base64url without padding.
func Encode(selection []int) (string, error) {
	if len(selection) == 0 {
		return "", ErrEmptyShares
	}
	payload := []byte{formatVersion}
	for _, idx := range selection {
		if idx < 0 {
			return "", fmt.Errorf("%w: %d", ErrBadIndex, idx)
		}
		payload = binary.AppendUvarint(payload, uint64(idx))
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(payload), nil
}

// Decode parses a share code back into a selection, validating every index
// against the given corpus size.
func Decode(code string, corpusLen int) ([]int, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(code), Prefix)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrBadCode, Prefix)
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCode, err)
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("%w: empty payload", ErrBadCode)
	}
	if payload[0] != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadCode, payload[0])
	}
	payload = payload[1:]

	var selection []int
	for len(payload) > 0 {
		v, n := binary.Uvarint(payload)
		if n <= 0 {
			return nil, fmt.Errorf("%w: truncated index", ErrBadCode)
		}
		payload = payload[n:]
		idx := int(v)
		if idx < 0 || idx >= corpusLen {
			return nil, fmt.Errorf("%w: %d (corpus has %d tokens)", ErrBadIndex, idx, corpusLen)
		}
		selection = append(selection, idx)
	}
	return selection, nil
}

// URL returns the shareable link for a selection.
func URL(selection []int) (string, error) {
	code, err := Encode(selection)
	if err != nil {
		return "", err
	}
	return BaseURL + code, nil
}
