package order

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	testOperator = common.HexToAddress("0x00000000000000000000000000000000004e4958")
	testMaker    = common.HexToAddress("0x0000000000000000000000000000000000000001")
	testTaker    = common.HexToAddress("0x0000000000000000000000000000000000000002")
	testToken    = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

// wei shifts n by exp decimal places, so wei(123456, 14) is 12.3456 units
// at 18 decimals.
func wei(n int64, exp int64) *big.Int {
	shift := new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)
	return new(big.Int).Mul(big.NewInt(n), shift)
}

func TestComputeKeyDeterministic(t *testing.T) {
	a := ComputeKey(testMaker, testTaker, testToken, []uint64{1, 2}, wei(3, 18), SellAny, 0, 7)
	b := ComputeKey(testMaker, testTaker, testToken, []uint64{1, 2}, wei(3, 18), SellAny, 0, 7)
	if a != b {
		t.Error("same tuple must produce the same key")
	}
}

func TestComputeKeyNonceDifferentiates(t *testing.T) {
	a := ComputeKey(testMaker, testTaker, testToken, []uint64{1}, wei(1, 18), SellAny, 0, 0)
	b := ComputeKey(testMaker, testTaker, testToken, []uint64{1}, wei(1, 18), SellAny, 0, 1)
	if a == b {
		t.Error("orders with identical fields must differ by nonce")
	}
}

func TestComputeKeySensitiveToFields(t *testing.T) {
	base := ComputeKey(testMaker, testTaker, testToken, []uint64{1}, wei(1, 18), SellAny, 0, 0)
	variants := []Key{
		ComputeKey(testTaker, testTaker, testToken, []uint64{1}, wei(1, 18), SellAny, 0, 0),
		ComputeKey(testMaker, testTaker, testToken, []uint64{2}, wei(1, 18), SellAny, 0, 0),
		ComputeKey(testMaker, testTaker, testToken, []uint64{1}, wei(2, 18), SellAny, 0, 0),
		ComputeKey(testMaker, testTaker, testToken, []uint64{1}, wei(1, 18), SellAll, 0, 0),
		ComputeKey(testMaker, testTaker, testToken, []uint64{1}, wei(1, 18), SellAny, 99, 0),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d should change the key", i)
		}
	}
}

func TestUnitPrice(t *testing.T) {
	listed := &Order{TokenIDs: []uint64{1, 2, 3}, SettlementAmount: wei(3, 18)}
	if listed.UnitPrice().Cmp(wei(1, 18)) != 0 {
		t.Errorf("expected unit price 1e18, got %s", listed.UnitPrice())
	}

	open := &Order{SettlementAmount: wei(5, 18)}
	if open.UnitPrice().Cmp(wei(5, 18)) != 0 {
		t.Error("open order unit price is the settlement amount itself")
	}
}

func TestFillable(t *testing.T) {
	now := int64(1_700_000_000)

	o := &Order{Status: Active, TokenIDs: []uint64{1}, Remaining: []uint64{1}}
	if !o.Fillable(now) {
		t.Error("active order with remaining ids should be fillable")
	}

	o.Status = Cancelled
	if o.Fillable(now) {
		t.Error("cancelled order must not be fillable")
	}

	o = &Order{Status: Active, Expiry: now - 1, TokenIDs: []uint64{1}, Remaining: []uint64{1}}
	if o.Fillable(now) {
		t.Error("expired order must not be fillable")
	}

	o = &Order{Status: Active, TokenIDs: []uint64{1}, Remaining: nil}
	if o.Fillable(now) {
		t.Error("listed order with no remaining ids must not be fillable")
	}

	open := &Order{Status: Active, Type: SellAny}
	if !open.Fillable(now) {
		t.Error("open order stays fillable while active")
	}
}

func TestEnumStrings(t *testing.T) {
	types := map[OrderType]string{BuyAny: "BuyAny", SellAny: "SellAny", BuyAll: "BuyAll", SellAll: "SellAll"}
	for v, want := range types {
		if v.String() != want {
			t.Errorf("OrderType %d: got %s, want %s", v, v, want)
		}
	}
	statuses := map[Status]string{Active: "Active", Cancelled: "Cancelled", Executed: "Executed", NotExecutable: "NotExecutable"}
	for v, want := range statuses {
		if v.String() != want {
			t.Errorf("Status %d: got %s, want %s", v, v, want)
		}
	}
}
