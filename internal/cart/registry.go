package cart

import "sync"

// Registry はユーザーごとのカート（商品IDの列、重複＝数量）。
// 永続化しない。プロセス再起動で空になる。
// ロックはユーザー単位で、全体ロックは持たない。
type Registry struct {
	carts sync.Map // int64 -> *userCart
}

type userCart struct {
	mu    sync.Mutex
	items []int64
	//Clear済み。mapから外れたエントリへの追加を防ぐ
	dead bool
}

// Checkpoint は注文確定のために取ったカートの中身。
// 確定後 ClearThrough で、取った分だけを消す。
type Checkpoint struct {
	UserID int64
	Items  []int64
	cart   *userCart
}

func NewRegistry() *Registry {
	return &Registry{}
}

// lockLive は生きているエントリをロックして返す（無ければ作る）
func (r *Registry) lockLive(userID int64) *userCart {
	for {
		v, _ := r.carts.LoadOrStore(userID, &userCart{})
		c := v.(*userCart)
		c.mu.Lock()
		if !c.dead {
			return c
		}
		c.mu.Unlock()
	}
}

// lockExisting はエントリがあればロックして返す
func (r *Registry) lockExisting(userID int64) (*userCart, bool) {
	v, ok := r.carts.Load(userID)
	if !ok {
		return nil, false
	}
	c := v.(*userCart)
	c.mu.Lock()
	if c.dead {
		c.mu.Unlock()
		return nil, false
	}
	return c, true
}

// Add はカタログに無いIDでもそのまま追加する（表示・確定時に除外）
func (r *Registry) Add(userID, itemID int64) {
	c := r.lockLive(userID)
	c.items = append(c.items, itemID)
	c.mu.Unlock()
}

// Clear はカートを空にしてレジストリから外す
func (r *Registry) Clear(userID int64) {
	c, ok := r.lockExisting(userID)
	if !ok {
		return
	}
	r.dropLocked(userID, c)
	c.mu.Unlock()
}

func (r *Registry) dropLocked(userID int64, c *userCart) {
	c.items = nil
	c.dead = true
	r.carts.CompareAndDelete(userID, c)
}

// 追加順のコピー
func (r *Registry) Snapshot(userID int64) []int64 {
	c, ok := r.lockExisting(userID)
	if !ok {
		return []int64{}
	}
	defer c.mu.Unlock()

	out := make([]int64, len(c.items))
	copy(out, c.items)
	return out
}

func (r *Registry) IsEmpty(userID int64) bool {
	c, ok := r.lockExisting(userID)
	if !ok {
		return true
	}
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Has はレジストリにエントリが残っているか
func (r *Registry) Has(userID int64) bool {
	_, ok := r.carts.Load(userID)
	return ok
}

func (r *Registry) Checkpoint(userID int64) Checkpoint {
	cp := Checkpoint{UserID: userID, Items: []int64{}}

	c, ok := r.lockExisting(userID)
	if !ok {
		return cp
	}
	defer c.mu.Unlock()

	cp.Items = make([]int64, len(c.items))
	copy(cp.Items, c.items)
	cp.cart = c
	return cp
}

// ClearThrough は Checkpoint で取った先頭部分だけを消す。
// その間に追加された分は残る。間にClearされていれば何もしない。
func (r *Registry) ClearThrough(cp Checkpoint) {
	c := cp.cart
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead {
		return
	}

	n := len(cp.Items)
	if n > len(c.items) {
		n = len(c.items)
	}
	rest := make([]int64, len(c.items)-n)
	copy(rest, c.items[n:])
	c.items = rest

	if len(c.items) == 0 {
		r.dropLocked(cp.UserID, c)
	}
}
