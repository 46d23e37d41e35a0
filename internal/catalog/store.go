package catalog

import (
	"sync/atomic"

	"orderbot/internal/domain/model"
)

type index struct {
	items []model.CatalogItem
	byID  map[int64]model.CatalogItem
}

func newIndex(items []model.CatalogItem) *index {
	idx := &index{
		items: make([]model.CatalogItem, len(items)),
		byID:  make(map[int64]model.CatalogItem, len(items)),
	}
	copy(idx.items, items)
	for _, it := range items {
		idx.byID[it.ID] = it
	}
	return idx
}

// Store はメモリ上のカタログ。
// 読み取りはロック無し、差し替えは index ごとアトミックに入れ替える。
type Store struct {
	source string
	idx    atomic.Pointer[index]
}

func NewStore(items []model.CatalogItem) *Store {
	s := &Store{}
	s.idx.Store(newIndex(items))
	return s
}

// Open はファイルから一度だけ読み込む。
func Open(path string) (*Store, error) {
	items, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	s := NewStore(items)
	s.source = path
	return s, nil
}

// 表示順（ファイル順）の一覧。呼び出し側で変更してもよいコピーを返す
func (s *Store) All() []model.CatalogItem {
	items := s.idx.Load().items
	out := make([]model.CatalogItem, len(items))
	copy(out, items)
	return out
}

func (s *Store) ByID(id int64) (model.CatalogItem, bool) {
	it, ok := s.idx.Load().byID[id]
	return it, ok
}

func (s *Store) Len() int {
	return len(s.idx.Load().items)
}

// Replace は索引全体を入れ替える。
func (s *Store) Replace(items []model.CatalogItem) {
	s.idx.Store(newIndex(items))
}

// Reload は元ファイルを読み直す。失敗したら今の索引をそのまま残す。
func (s *Store) Reload() ([]model.CatalogItem, error) {
	if s.source == "" {
		return s.All(), nil
	}
	items, err := LoadFile(s.source)
	if err != nil {
		return nil, err
	}
	s.Replace(items)
	return s.All(), nil
}
