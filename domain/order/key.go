package order

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Key is the content-derived fingerprint of an order instance.
type Key = common.Hash

// ComputeKey hashes the immutable order tuple plus the creation nonce.
// The packing mirrors tightly-packed ABI encoding: addresses as 20 bytes,
// token ids and the settlement amount as 32-byte big-endian words, then
// the order type, expiry and nonce.
func ComputeKey(
	maker common.Address,
	taker common.Address,
	token common.Address,
	tokenIDs []uint64,
	settlementAmount *big.Int,
	orderType OrderType,
	expiry int64,
	nonce uint64,
) Key {
	buf := make([]byte, 0, 60+32*len(tokenIDs)+32+1+8+8)
	buf = append(buf, maker.Bytes()...)
	buf = append(buf, taker.Bytes()...)
	buf = append(buf, token.Bytes()...)
	for _, id := range tokenIDs {
		buf = append(buf, common.BigToHash(new(big.Int).SetUint64(id)).Bytes()...)
	}
	buf = append(buf, common.BigToHash(settlementAmount).Bytes()...)
	buf = append(buf, byte(orderType))
	buf = binary.BigEndian.AppendUint64(buf, uint64(expiry))
	buf = binary.BigEndian.AppendUint64(buf, nonce)
	return crypto.Keccak256Hash(buf)
}
