package order

import "fmt"

// Store is the authoritative append-only order sequence plus a key→index
// map. Orders are never physically deleted; terminal orders stay for audit.
// Single-writer, mutated only through Lifecycle and Engine.
type Store struct {
	orders []*Order
	byKey  map[Key]int
}

func NewStore() *Store {
	return &Store{
		byKey: make(map[Key]int),
	}
}

// Append assigns the next sequential index, inserts, and returns it.
func (s *Store) Append(o *Order) (int, error) {
	if _, ok := s.byKey[o.Key]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateOrder, o.Key)
	}
	idx := len(s.orders)
	s.orders = append(s.orders, o)
	s.byKey[o.Key] = idx
	return idx, nil
}

func (s *Store) ByIndex(i int) (*Order, error) {
	if i < 0 || i >= len(s.orders) {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	return s.orders[i], nil
}

func (s *Store) Len() int {
	return len(s.orders)
}

// IndexByKey resolves a key in a single lookup, never a scan.
func (s *Store) IndexByKey(k Key) (int, error) {
	idx, ok := s.byKey[k]
	if !ok {
		return 0, fmt.Errorf("%w: key %s", ErrNotFound, k)
	}
	return idx, nil
}
