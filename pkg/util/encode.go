package util

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// WordLength is the width of one EVM word, and of every digest and proof element.
const WordLength = 32

var (
	ErrEncodingOverflow     = errors.New("amount does not fit in uint256")
	ErrNegativeAmount       = errors.New("amount is negative")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidAddress       = errors.New("invalid address")
	ErrInvalidProofEncoding = errors.New("invalid proof encoding")
)

// EncodeAddress returns the 20 byte representation of an address, as
// abi.encodePacked lays out an `address`.
func EncodeAddress(addr common.Address) []byte {
	out := make([]byte, common.AddressLength)
	copy(out, addr[:])
	return out
}

// AmountToUint256 converts an amount into the verifier's uint256 domain.
// Negative values and values wider than 256 bits are rejected, never truncated.
func AmountToUint256(amount *big.Int) (*uint256.Int, error) {
	if amount == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidAmount)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeAmount, amount.String())
	}
	u, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, fmt.Errorf("%w: %s", ErrEncodingOverflow, amount.String())
	}
	return u, nil
}

// AmountToWord encodes an amount as a 32 byte big-endian word.
func AmountToWord(amount *big.Int) ([WordLength]byte, error) {
	u, err := AmountToUint256(amount)
	if err != nil {
		return [WordLength]byte{}, err
	}
	return u.Bytes32(), nil
}

// EncodeAmount is AmountToWord as a slice.
func EncodeAmount(amount *big.Int) ([]byte, error) {
	word, err := AmountToWord(amount)
	if err != nil {
		return nil, err
	}
	return word[:], nil
}

// Uint64ToWord left pads v to a 32 byte big-endian word.
func Uint64ToWord(v uint64) [WordLength]byte {
	return uint256.NewInt(v).Bytes32()
}

// PackLeaf produces the 52 byte preimage of a payment leaf:
// abi.encodePacked(address payee, uint256 amount).
func PackLeaf(payee common.Address, amount *big.Int) ([]byte, error) {
	amountBytes, err := EncodeAmount(amount)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, common.AddressLength+WordLength)
	data = append(data, EncodeAddress(payee)...)
	data = append(data, amountBytes...)
	return data, nil
}

// ParseAddress parses a hex address. Case is irrelevant: the result is the
// raw 20 bytes, so "0xABC.." and "0xabc.." name the same payee.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// ParseAmount parses a decimal or 0x-prefixed hex amount and checks that it
// lies in the uint256 domain.
func ParseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	amount := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = amount.SetString(s[2:], 16)
	} else {
		_, ok = amount.SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if _, err := AmountToUint256(amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// BytesToHex renders a digest the way roots are handed to the contract.
func BytesToHex(word [WordLength]byte) string {
	return hexutil.Encode(word[:])
}

// EncodeProofHex flattens a proof into one 0x-prefixed hex string of
// concatenated 32 byte words.
func EncodeProofHex(proof [][WordLength]byte) string {
	var sb strings.Builder
	sb.Grow(2 + len(proof)*WordLength*2)
	sb.WriteString("0x")
	for _, word := range proof {
		sb.WriteString(common.Bytes2Hex(word[:]))
	}
	return sb.String()
}

// DecodeProofHex is the inverse of EncodeProofHex.
func DecodeProofHex(s string) ([][WordLength]byte, error) {
	raw, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProofEncoding, err)
	}
	if len(raw)%WordLength != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrInvalidProofEncoding, len(raw), WordLength)
	}

	proof := make([][WordLength]byte, len(raw)/WordLength)
	for i := range proof {
		copy(proof[i][:], raw[i*WordLength:(i+1)*WordLength])
	}
	return proof, nil
}

// EncodeClaimProofHex prepends the claim words to a sibling path:
// cycle (word 0) || cumulative amount (word 1) || siblings...
// Producer and consumer must agree on this layout since the verifier has no
// other source for the claimed amount.
func EncodeClaimProofHex(cycle uint64, amount *big.Int, proof [][WordLength]byte) (string, error) {
	amountWord, err := AmountToWord(amount)
	if err != nil {
		return "", err
	}
	words := make([][WordLength]byte, 0, len(proof)+2)
	words = append(words, Uint64ToWord(cycle), amountWord)
	words = append(words, proof...)
	return EncodeProofHex(words), nil
}

// DecodeClaimProofHex splits a claim-prefixed proof back into its parts.
func DecodeClaimProofHex(s string) (uint64, *big.Int, [][WordLength]byte, error) {
	words, err := DecodeProofHex(s)
	if err != nil {
		return 0, nil, nil, err
	}
	if len(words) < 2 {
		return 0, nil, nil, fmt.Errorf("%w: claim proof needs at least 2 words, got %d", ErrInvalidProofEncoding, len(words))
	}

	cycle := new(uint256.Int).SetBytes32(words[0][:])
	if !cycle.IsUint64() {
		return 0, nil, nil, fmt.Errorf("%w: cycle word exceeds uint64", ErrInvalidProofEncoding)
	}
	amount := new(uint256.Int).SetBytes32(words[1][:]).ToBig()

	return cycle.Uint64(), amount, words[2:], nil
}
