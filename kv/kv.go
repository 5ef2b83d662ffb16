// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

type Getter interface {
	// Get fails when key is absent, IsNotFound identifies that error.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes until Write applies them in one batch.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Store is the persistent backend of the ledger state.
type Store interface {
	Getter
	Putter

	Bulk() Bulk
	Close() error
}

// GetOrNil reads the value of key, treating a missing key as a nil value.
func GetOrNil(g Getter, key []byte) ([]byte, error) {
	val, err := g.Get(key)
	if err != nil {
		if g.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}
