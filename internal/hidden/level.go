package hidden

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// keyPrefix namespaces hidden-key entries inside the LevelDB file.
const keyPrefix = "hidden/"

// LevelStore persists hidden claim keys in a local LevelDB directory. This
// is the default store for single-operator deployments.
type LevelStore struct {
	db *leveldb.DB
}

// OpenLevel opens (or creates) the LevelDB directory at path.
func OpenLevel(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelStore{db: db}, nil
}

// Add implements Store.
func (s *LevelStore) Add(key string) error {
	return s.db.Put([]byte(keyPrefix+key), []byte{1}, nil)
}

// Has implements Store.
func (s *LevelStore) Has(key string) (bool, error) {
	ok, err := s.db.Has([]byte(keyPrefix+key), nil)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Clear implements Store. It deletes every entry under the hidden prefix in
// one batch.
func (s *LevelStore) Clear() error {
	batch := new(leveldb.Batch)
	iter := s.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	for iter.Next() {
		k := make([]byte, len(iter.Key()))
		copy(k, iter.Key())
		batch.Delete(k)
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return err
	}
	return s.db.Write(batch, nil)
}

// Close implements Store.
func (s *LevelStore) Close() error {
	return s.db.Close()
}
