package storage

import "fmt"

// PrefixDB scopes a DB to the keys that start with a fixed namespace.
// Callers read and write logical keys; the namespace is added on the way in
// and stripped on the way out.
type PrefixDB struct {
	inner DB
	ns    []byte
}

// NewPrefixDB returns a view of inner limited to the namespace ns.
func NewPrefixDB(inner DB, ns []byte) *PrefixDB {
	return &PrefixDB{inner: inner, ns: append([]byte(nil), ns...)}
}

// join returns ns+key in a fresh slice.
func join(ns, key []byte) []byte {
	out := make([]byte, 0, len(ns)+len(key))
	return append(append(out, ns...), key...)
}

func (p *PrefixDB) Get(key []byte) ([]byte, error) { return p.inner.Get(join(p.ns, key)) }
func (p *PrefixDB) Put(key, value []byte) error { return p.inner.Put(join(p.ns, key), value) }
func (p *PrefixDB) Delete(key []byte) error { return p.inner.Delete(join(p.ns, key)) }
func (p *PrefixDB) Has(key []byte) (bool, error) { return p.inner.Has(join(p.ns, key)) }

// ForEach visits the logical keys starting with prefix.
func (p *PrefixDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	n := len(p.ns)
	return p.inner.ForEach(join(p.ns, prefix), func(key, value []byte) error {
		return fn(key[n:], value)
	})
}

// DeleteAll removes every key in the namespace and reports how many were
// removed. The removal is atomic when the inner DB supports batches.
func (p *PrefixDB) DeleteAll() (int, error) {
	var keys [][]byte
	err := p.ForEach(nil, func(key, _ []byte) error {
		keys = append(keys, append([]byte(nil), key...))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan namespace %q: %w", p.ns, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	b := p.NewBatch()
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			b.Discard()
			return 0, err
		}
	}
	if err := b.Commit(); err != nil {
		return 0, fmt.Errorf("delete namespace %q: %w", p.ns, err)
	}
	return len(keys), nil
}

// Close is a no-op; the inner DB is owned by whoever opened it.
func (p *PrefixDB) Close() error {
	return nil
}

// NewBatch returns a namespaced batch. Writes are atomic only when the
// inner DB is a Batcher; otherwise they are replayed one by one on Commit.
func (p *PrefixDB) NewBatch() Batch {
	if b, ok := p.inner.(Batcher); ok {
		return &prefixBatch{inner: b.NewBatch(), ns: p.ns}
	}
	return &prefixFallbackBatch{db: p}
}

type prefixBatch struct {
	inner Batch
	ns    []byte
}

func (b *prefixBatch) Put(key, value []byte) error { return b.inner.Put(join(b.ns, key), value) }
func (b *prefixBatch) Delete(key []byte) error { return b.inner.Delete(join(b.ns, key)) }
func (b *prefixBatch) Commit() error { return b.inner.Commit() }
func (b *prefixBatch) Discard() { b.inner.Discard() }

// prefixFallbackBatch buffers logical writes in the same form as memoryBatch.
type prefixFallbackBatch struct {
	db  *PrefixDB
	ops []memoryOp
}

func (b *prefixFallbackBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, memoryOp{string(key), append([]byte{}, value...)})
	return nil
}

func (b *prefixFallbackBatch) Delete(key []byte) error {
	b.ops = append(b.ops, memoryOp{key: string(key)})
	return nil
}

func (b *prefixFallbackBatch) Discard() {
	b.ops = nil
}

func (b *prefixFallbackBatch) Commit() error {
	ops := b.ops
	b.ops = nil
	for _, op := range ops {
		var err error
		if op.value == nil {
			err = b.db.Delete([]byte(op.key))
		} else {
			err = b.db.Put([]byte(op.key), op.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
