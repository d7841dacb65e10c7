package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"nix/domain/order"
	"nix/infra/kafka"
	"nix/infra/outbox"
	"nix/infra/sequence"
	"nix/infra/wal"
)

// Clock returns the ledger's current time in unix seconds.
type Clock func() int64

/*
LedgerService is the ONLY write entry point into the system.

All coordination between:
- domain (order store, lifecycle, engine)
- infra (wal, outbox, kafka)
happens here. Commands run under one mutex: the ledger is a single
serialized state machine and the WAL sequence is its total order.
*/
type LedgerService struct {
	mu sync.Mutex

	store  *order.Store
	life   *order.Lifecycle
	engine *order.Engine

	journal *wal.WAL
	codec   wal.Serializer
	outbox  *outbox.Outbox
	feed    *kafka.Producer // optional
	seq     *sequence.Sequencer
	clock   Clock
	logger  *zap.Logger
}

// NewLedgerService wires all dependencies.
// No globals. No magic.
func NewLedgerService(
	store *order.Store,
	life *order.Lifecycle,
	engine *order.Engine,
	journal *wal.WAL,
	ob *outbox.Outbox,
	feed *kafka.Producer,
	seq *sequence.Sequencer,
	clock Clock,
	logger *zap.Logger,
) *LedgerService {
	if clock == nil {
		clock = func() int64 { return time.Now().Unix() }
	}
	return &LedgerService{
		store:   store,
		life:    life,
		engine:  engine,
		journal: journal,
		codec:   wal.JSONSerializer{},
		outbox:  ob,
		feed:    feed,
		seq:     seq,
		clock:   clock,
		logger:  logger,
	}
}

//
// ──────────────────────────────────────────────────────────
// Commands
// ──────────────────────────────────────────────────────────
//

// MakerAddOrder creates a new order and returns its index and key.
func (s *LedgerService) MakerAddOrder(
	maker common.Address,
	taker common.Address,
	token common.Address,
	tokenIDs []uint64,
	settlementAmount *big.Int,
	orderType order.OrderType,
	expiry int64,
) (int, order.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	idx, o, err := s.life.Create(maker, taker, token, tokenIDs, settlementAmount, orderType, expiry, now)
	if err != nil {
		return 0, order.Key{}, err
	}

	s.append(wal.RecordOrderAdded, now, orderAddedRecord{
		Maker:            maker,
		Taker:            taker,
		Token:            token,
		TokenIDs:         tokenIDs,
		SettlementAmount: settlementAmount,
		OrderType:        uint8(orderType),
		Expiry:           expiry,
	})

	s.emit(order.EventOrderCreated, order.OrderCreated{
		Index:            idx,
		Key:              o.Key,
		Maker:            o.Maker,
		Taker:            o.Taker,
		Token:            o.Token,
		TokenIDs:         o.TokenIDs,
		SettlementAmount: o.SettlementAmount,
		OrderType:        o.Type,
		Expiry:           o.Expiry,
	})

	s.logger.Info("order created",
		zap.Int("index", idx),
		zap.Stringer("key", o.Key),
		zap.Stringer("maker", maker),
		zap.Stringer("type", orderType),
	)
	return idx, o.Key, nil
}

// TakerExecuteOrder fills an order. Any validation failure aborts the call
// with no state change, except an expiry discovered here: the order is
// marked NotExecutable, the mark is journaled, and the call still fails.
func (s *LedgerService) TakerExecuteOrder(
	index int,
	tokenIDs []uint64,
	settlementAmount *big.Int,
	caller common.Address,
) (*order.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	rcpt, err := s.engine.Execute(index, tokenIDs, settlementAmount, caller, now)
	if err != nil {
		if errors.Is(err, order.ErrExpiredOrder) {
			s.append(wal.RecordOrderNotExecutable, now, notExecutableRecord{Index: index})
			s.logger.Info("order marked not executable", zap.Int("index", index))
		}
		return nil, err
	}

	s.append(wal.RecordOrderExecuted, now, orderExecutedRecord{
		Index:    index,
		TokenIDs: tokenIDs,
		Amount:   settlementAmount,
		Caller:   caller,
	})

	evt := order.OrderExecuted{
		Index:    rcpt.Index,
		Key:      rcpt.Key,
		Filler:   rcpt.Filler,
		TokenIDs: rcpt.TokenIDs,
		Amount:   rcpt.Amount,
		Receipt:  ulid.Make().String(),
	}
	s.emit(order.EventOrderExecuted, evt)
	s.publishFill(rcpt.Key, evt)

	s.logger.Info("order executed",
		zap.Int("index", index),
		zap.Stringer("filler", caller),
		zap.Uint64s("tokenIds", tokenIDs),
		zap.Stringer("status", rcpt.Order.Status),
	)
	return rcpt, nil
}

// CancelOrder cancels an Active order. Maker only.
func (s *LedgerService) CancelOrder(index int, caller common.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	o, err := s.life.Cancel(index, caller)
	if err != nil {
		return err
	}

	s.append(wal.RecordOrderCancelled, now, orderCancelledRecord{Index: index, Caller: caller})
	s.emit(order.EventOrderCancelled, order.OrderCancelled{Index: index, Key: o.Key})

	s.logger.Info("order cancelled", zap.Int("index", index))
	return nil
}

//
// ──────────────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────────────
//

func (s *LedgerService) GetOrderByIndex(index int) (*order.Order, order.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.store.ByIndex(index)
	if err != nil {
		return nil, order.Key{}, err
	}
	return o, o.Key, nil
}

func (s *LedgerService) OrdersLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

//
// ──────────────────────────────────────────────────────────
// Journal + events
// ──────────────────────────────────────────────────────────
//

func (s *LedgerService) append(t wal.RecordType, now int64, payload any) {
	seq := s.seq.Next()
	if s.journal == nil {
		return
	}
	data, err := s.codec.Encode(payload)
	if err != nil {
		s.logger.Error("journal encode failed", zap.Error(err))
		return
	}
	if err := s.journal.Append(wal.NewRecord(t, seq, now, data)); err != nil {
		s.logger.Error("journal append failed", zap.Error(err))
	}
}

func (s *LedgerService) emit(eventType string, data any) {
	if s.outbox == nil {
		return
	}
	payload, err := s.codec.Encode(eventEnvelope{Type: eventType, Data: data})
	if err != nil {
		s.logger.Error("event encode failed", zap.Error(err))
		return
	}
	if err := s.outbox.Put(s.seq.Current(), payload); err != nil {
		s.logger.Error("outbox put failed", zap.Error(err))
	}
}

func (s *LedgerService) publishFill(key order.Key, evt order.OrderExecuted) {
	if s.feed == nil {
		return
	}
	payload, err := s.codec.Encode(eventEnvelope{Type: order.EventOrderExecuted, Data: evt})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.feed.Send(ctx, key.Bytes(), payload); err != nil {
		s.logger.Warn("fill feed publish failed", zap.Error(err))
	}
}
