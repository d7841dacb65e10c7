package wal

// RecordType enumerates the ledger facts the journal carries. Records are
// written after a command has been applied, so replay never re-validates
// against external token state.
type RecordType uint8

const (
	RecordOrderAdded RecordType = iota
	RecordOrderCancelled
	RecordOrderExecuted
	RecordOrderNotExecutable
)

type Record struct {
	Type RecordType
	Seq  uint64
	Time int64 // ledger timestamp at which the command was applied
	Data []byte
}

func NewRecord(t RecordType, seq uint64, time int64, data []byte) *Record {
	return &Record{
		Type: t,
		Seq:  seq,
		Time: time,
		Data: data,
	}
}
