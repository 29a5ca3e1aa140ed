package pbf

import (
	"os"
	"path"

	"github.com/omniscale/go-osm"
	"github.com/rubenv/landmass/landmass"
	"github.com/tecbot/gorocksdb"
)

type rocksStore struct {
	path string
	db   *gorocksdb.DB

	wo *gorocksdb.WriteOptions
	ro *gorocksdb.ReadOptions
}

// NewRocksStore caches nodes and ways in a RocksDB database under
// folder, for extracts too large to hold in memory. The database is
// removed on Close.
func NewRocksStore(folder string) (Store, error) {
	storePath := path.Join(folder, "ldb")
	err := os.MkdirAll(storePath, 0755)
	if err != nil {
		return nil, err
	}

	opts := gorocksdb.NewDefaultOptions()
	bb := gorocksdb.NewDefaultBlockBasedTableOptions()
	bb.SetBlockCache(gorocksdb.NewLRUCache(1 << 30))
	bb.SetFilterPolicy(gorocksdb.NewBloomFilter(10))
	opts.SetCreateIfMissing(true)
	opts.SetBlockBasedTableFactory(bb)
	db, err := gorocksdb.OpenDb(opts, storePath)
	if err != nil {
		return nil, err
	}

	s := &rocksStore{
		path: storePath,
		db:   db,
		wo:   gorocksdb.NewDefaultWriteOptions(),
		ro:   gorocksdb.NewDefaultReadOptions(),
	}
	s.wo.DisableWAL(true)
	s.ro.SetFillCache(false)
	return s, nil
}

func (s *rocksStore) AddNodes(nodes []osm.Node) error {
	wb := gorocksdb.NewWriteBatch()
	defer wb.Destroy()

	for _, n := range nodes {
		wb.Put(nodeKey(n.ID), marshalCoord(encodeCoord(n.Long, n.Lat)))
	}
	return s.db.Write(s.wo, wb)
}

func (s *rocksStore) AddWays(ways []osm.Way) error {
	wb := gorocksdb.NewWriteBatch()
	defer wb.Destroy()

	for _, w := range ways {
		wb.Put(wayKey(w.ID), marshalRefs(w.Refs))
	}
	return s.db.Write(s.wo, wb)
}

func (s *rocksStore) GetCoord(id int64) (landmass.Point, bool, error) {
	n, err := s.db.Get(s.ro, nodeKey(id))
	if err != nil {
		return landmass.Point{}, false, err
	}
	defer n.Free()

	if n.Size() == 0 {
		return landmass.Point{}, false, nil
	}
	c, ok := unmarshalCoord(n.Data())
	if !ok {
		return landmass.Point{}, false, nil
	}
	return decodeCoord(c), true, nil
}

func (s *rocksStore) GetRefs(id int64) ([]int64, bool, error) {
	w, err := s.db.Get(s.ro, wayKey(id))
	if err != nil {
		return nil, false, err
	}
	defer w.Free()

	if w.Size() == 0 {
		return nil, false, nil
	}
	return unmarshalRefs(w.Data()), true, nil
}

func (s *rocksStore) Close() error {
	s.db.Close()
	return os.RemoveAll(s.path)
}
