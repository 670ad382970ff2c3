package crypto

import (
	"hash"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

const (
	// CREATE2 input layout: 0xff (1) + deployer (20) + salt (32) + codeHash (32) = 85
	Create2PrefixLen = 1 + common.AddressLength
	Create2SaltLen   = 32
	Create2SuffixLen = common.HashLength
	Create2InputLen  = Create2PrefixLen + Create2SaltLen + Create2SuffixLen

	// Offset of the salt window within the input buffer.
	Create2SaltOffset = Create2PrefixLen
)

// NewKeccak256 returns a keccak256 hasher for reuse across many inputs.
// Workers hold one each so the hot loop never allocates a hasher.
func NewKeccak256() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

// Keccak256 calculates the keccak256 hash of the input bytes.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

// Create2InputBuffer builds the 85-byte CREATE2 input with the constant
// prefix (0xff + deployer) and suffix (code hash) filled in. The caller
// rewrites only the salt window each iteration.
func Create2InputBuffer(deployer common.Address, codeHash common.Hash) []byte {
	buf := make([]byte, Create2InputLen)
	buf[0] = 0xff
	copy(buf[1:Create2PrefixLen], deployer[:])
	copy(buf[Create2PrefixLen+Create2SaltLen:], codeHash[:])
	return buf
}

// Create2AddressInto hashes the CREATE2 input and writes the 20-byte address
// into addrBuf. Reuses the provided hasher to avoid allocations. inputBuf must
// be Create2InputLen (85), hashBuf must be at least 32 bytes, addrBuf 20 bytes.
func Create2AddressInto(hasher hash.Hash, inputBuf, hashBuf, addrBuf []byte) {
	hasher.Reset()
	hasher.Write(inputBuf)
	sum := hasher.Sum(hashBuf[:0])
	copy(addrBuf, sum[12:32])
}

// Create2Address derives the address a contract deployed through CREATE2 will
// occupy: the low 20 bytes of keccak256(0xff + deployer + salt + codeHash).
func Create2Address(deployer common.Address, salt [32]byte, codeHash common.Hash) common.Address {
	buf := Create2InputBuffer(deployer, codeHash)
	copy(buf[Create2SaltOffset:Create2SaltOffset+Create2SaltLen], salt[:])

	var addr common.Address
	Create2AddressInto(sha3.NewLegacyKeccak256(), buf, make([]byte, 0, 32), addr[:])
	return addr
}
