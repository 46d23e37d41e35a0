package cart_test

import (
	"strings"
	"sync"
	"testing"

	"orderbot/internal/cart"
	"orderbot/internal/domain/model"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var menu = map[int64]model.CatalogItem{
	1: {ID: 1, Name: "Margherita", Price: decimal.RequireFromString("9.99")},
	2: {ID: 2, Name: "Pepperoni", Price: decimal.RequireFromString("12.50")},
	3: {ID: 3, Name: "Water", Price: decimal.Zero},
}

func lookup(id int64) (model.CatalogItem, bool) {
	it, ok := menu[id]
	return it, ok
}

// =====================
// Registry
// =====================

func TestRegistry_AddKeepsOrderAndDuplicates(t *testing.T) {
	r := cart.NewRegistry()
	r.Add(1, 2)
	r.Add(1, 1)
	r.Add(1, 2)

	assert.Equal(t, []int64{2, 1, 2}, r.Snapshot(1))
	assert.False(t, r.IsEmpty(1))
}

func TestRegistry_AddAcceptsUnknownIDs(t *testing.T) {
	r := cart.NewRegistry()
	r.Add(1, 999)
	assert.Equal(t, []int64{999}, r.Snapshot(1))
}

func TestRegistry_ClearRemovesEntry(t *testing.T) {
	r := cart.NewRegistry()
	r.Add(1, 1)
	require.True(t, r.Has(1))

	r.Clear(1)
	assert.True(t, r.IsEmpty(1))
	assert.False(t, r.Has(1))
	assert.Empty(t, r.Snapshot(1))

	// 空のカートを消しても問題ない
	r.Clear(42)
	assert.False(t, r.Has(42))
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	r := cart.NewRegistry()
	r.Add(1, 1)
	snap := r.Snapshot(1)
	snap[0] = 100
	assert.Equal(t, []int64{1}, r.Snapshot(1))
}

func TestRegistry_ClearThroughKeepsLaterAdds(t *testing.T) {
	r := cart.NewRegistry()
	r.Add(1, 1)
	r.Add(1, 2)

	cp := r.Checkpoint(1)
	r.Add(1, 3)

	r.ClearThrough(cp)
	assert.Equal(t, []int64{3}, r.Snapshot(1))
}

func TestRegistry_ClearThroughRemovesEntryWhenDrained(t *testing.T) {
	r := cart.NewRegistry()
	r.Add(1, 1)

	cp := r.Checkpoint(1)
	r.ClearThrough(cp)

	assert.True(t, r.IsEmpty(1))
	assert.False(t, r.Has(1))
}

func TestRegistry_ClearThroughAfterClearIsNoop(t *testing.T) {
	r := cart.NewRegistry()
	r.Add(1, 1)
	cp := r.Checkpoint(1)

	r.Clear(1)
	r.Add(1, 2)

	r.ClearThrough(cp)
	assert.Equal(t, []int64{2}, r.Snapshot(1))
}

func TestRegistry_CheckpointOfEmptyCart(t *testing.T) {
	r := cart.NewRegistry()
	cp := r.Checkpoint(7)
	assert.Empty(t, cp.Items)
	r.ClearThrough(cp)
	assert.False(t, r.Has(7))
}

func TestRegistry_ConcurrentAddsSameUser(t *testing.T) {
	r := cart.NewRegistry()

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Add(1, 1)
		}()
	}
	wg.Wait()

	assert.Len(t, r.Snapshot(1), n)
}

func TestRegistry_ConcurrentAddsAndClears(t *testing.T) {
	r := cart.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Add(1, 1)
		}()
		go func() {
			defer wg.Done()
			r.Clear(1)
		}()
	}
	wg.Wait()

	// Clear後の追加は失われない: 最後のClear以降の件数だけ残る
	r.Add(1, 2)
	snap := r.Snapshot(1)
	require.NotEmpty(t, snap)
	assert.Equal(t, int64(2), snap[len(snap)-1])
}

func TestRegistry_ConcurrentUsersDoNotMix(t *testing.T) {
	r := cart.NewRegistry()

	var wg sync.WaitGroup
	for u := int64(1); u <= 10; u++ {
		wg.Add(1)
		go func(u int64) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r.Add(u, u*100)
			}
		}(u)
	}
	wg.Wait()

	for u := int64(1); u <= 10; u++ {
		snap := r.Snapshot(u)
		require.Len(t, snap, 50)
		for _, id := range snap {
			assert.Equal(t, u*100, id)
		}
	}
}

func TestRegistry_UsersIsolatedProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("each user sees exactly their own adds in order", prop.ForAll(
		func(users []int64, items []int64) bool {
			r := cart.NewRegistry()

			n := len(users)
			if len(items) < n {
				n = len(items)
			}

			var wg sync.WaitGroup
			perUser := map[int64][]int64{}
			for i := 0; i < n; i++ {
				perUser[users[i]] = append(perUser[users[i]], items[i])
			}
			for u, ids := range perUser {
				wg.Add(1)
				go func(u int64, ids []int64) {
					defer wg.Done()
					for _, id := range ids {
						r.Add(u, id)
					}
				}(u, ids)
			}
			wg.Wait()

			for u, ids := range perUser {
				got := r.Snapshot(u)
				if len(got) != len(ids) {
					return false
				}
				for i := range ids {
					if got[i] != ids[i] {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 4)),
		gen.SliceOf(gen.Int64Range(0, 10)),
	))

	properties.TestingRun(t)
}

// =====================
// Text / Group
// =====================

func TestText_Empty(t *testing.T) {
	text, total := cart.Text(nil, lookup)
	assert.Equal(t, cart.EmptyText, text)
	assert.NotEmpty(t, text)
	assert.True(t, total.IsZero())
}

func TestText_GroupedWithTotal(t *testing.T) {
	text, total := cart.Text([]int64{1, 1, 2}, lookup)

	assert.True(t, decimal.RequireFromString("32.48").Equal(total))
	assert.Contains(t, text, "Margherita × 2 — 19.98$")
	assert.Contains(t, text, "Pepperoni × 1 — 12.50$")
	assert.True(t, strings.HasSuffix(text, "Total: 32.48$"))

	// 最初に出てきた順
	assert.Less(t, strings.Index(text, "Margherita"), strings.Index(text, "Pepperoni"))
}

func TestText_SkipsUnknownIDs(t *testing.T) {
	text, total := cart.Text([]int64{2, 404, 2}, lookup)
	assert.True(t, decimal.RequireFromString("25").Equal(total))
	assert.NotContains(t, text, "404")
}

func TestText_OnlyUnknownIDsIsStillNonEmpty(t *testing.T) {
	text, total := cart.Text([]int64{404, 405}, lookup)
	assert.NotEmpty(t, text)
	assert.Contains(t, text, "Total: 0.00$")
	assert.True(t, total.IsZero())
}

func TestGroup_Quantities(t *testing.T) {
	lines := cart.Group([]int64{2, 1, 2, 2, 7}, lookup)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), lines[0].Item.ID)
	assert.Equal(t, int64(3), lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("37.50").Equal(lines[0].Subtotal))
	assert.Equal(t, int64(1), lines[1].Item.ID)
	assert.Equal(t, int64(1), lines[1].Quantity)
}

func TestText_TotalEqualsWeightedSumProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 300
	properties := gopter.NewProperties(params)

	properties.Property("total is the sum of valid prices by multiplicity", prop.ForAll(
		func(ids []int64) bool {
			want := decimal.Zero
			for _, id := range ids {
				if it, ok := menu[id]; ok {
					want = want.Add(it.Price)
				}
			}

			text, total := cart.Text(ids, lookup)
			return text != "" && total.Equal(want)
		},
		gen.SliceOf(gen.Int64Range(0, 5)),
	))

	properties.TestingRun(t)
}
