package codec

import (
	"math/big"

	"golang.org/x/crypto/sha3"
)

// selectorMask keeps the low 250 bits of the keccak digest, per the chain's
// entrypoint selector convention.
var selectorMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))

// SelectorFromName computes the entrypoint selector for a function name:
// legacy keccak256 of the ASCII name, masked to 250 bits.
func SelectorFromName(name string) *big.Int {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(name))
	sel := new(big.Int).SetBytes(h.Sum(nil))
	return sel.And(sel, selectorMask)
}

// SelectorHex renders a selector in the 0x form the JSON-RPC gateway expects.
func SelectorHex(name string) string {
	return "0x" + SelectorFromName(name).Text(16)
}
