package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

type widget struct {
	ID      string
	Code    string
	Label   string
	Qty     int
	Cap     int
	Price   float64
	Active  bool
	Shipped *time.Time
	Tags    []string
}

var widgetSchema = store.Schema[widget]{
	Name:  "widget",
	ID:    func(w widget) string { return w.ID },
	SetID: func(w *widget, id string) { w.ID = id },
	Field: func(w widget, name string) (any, bool) {
		switch name {
		case "id":
			return w.ID, true
		case "code":
			return w.Code, true
		case "label":
			return w.Label, true
		case "qty":
			return w.Qty, true
		case "cap":
			return w.Cap, true
		case "price":
			return w.Price, true
		case "active":
			return w.Active, true
		case "shipped":
			return w.Shipped, true
		}
		return nil, false
	},
	Set: func(w *widget, name string, value any) error {
		var ok bool
		switch name {
		case "label":
			w.Label, ok = value.(string)
		case "qty":
			w.Qty, ok = value.(int)
		case "active":
			w.Active, ok = value.(bool)
		case "shipped":
			w.Shipped, ok = value.(*time.Time)
		default:
			return store.UnknownField("widget", name)
		}
		if !ok {
			return store.WrongType("widget", name, value)
		}
		return nil
	},
	Unique: []string{"code"},
}

func cloneWidget(w widget) widget {
	w.Tags = append([]string(nil), w.Tags...)
	return w
}

func seedWidgets(t *testing.T) (*Store, *Collection[widget]) {
	t.Helper()
	st := New()
	c := NewCollection(st, widgetSchema, cloneWidget)
	ctx := context.Background()
	for _, w := range []widget{
		{Code: "A", Label: "Alpha Pump", Qty: 5, Cap: 10, Price: 2.5, Active: true},
		{Code: "B", Label: "beta valve", Qty: 12, Cap: 10, Price: 4, Active: true},
		{Code: "C", Label: "Gamma", Qty: 0, Cap: 3, Price: 1.25, Active: false},
	} {
		_, err := c.Insert(ctx, w)
		require.NoError(t, err)
	}
	return st, c
}

func TestInsertAssignsIDAndEnforcesUnique(t *testing.T) {
	_, c := seedWidgets(t)
	ctx := context.Background()

	created, err := c.Insert(ctx, widget{Code: "D", Tags: []string{"x"}})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Tags[0] = "mutated"
	stored, err := c.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, stored.Tags)

	_, err = c.Insert(ctx, widget{Code: "A"})
	require.ErrorIs(t, err, shared.ErrConflict)

	_, err = c.FindByID(ctx, "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestFindFiltersSortsAndPages(t *testing.T) {
	_, c := seedWidgets(t)
	ctx := context.Background()

	got, err := c.Find(ctx, store.Query{
		Filter: store.And(store.Eq("active", true), store.Contains("label", "ALPHA")),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "A", got[0].Code)

	got, err = c.Find(ctx, store.Query{Sort: []store.SortField{{Field: "price", Desc: true}}})
	require.NoError(t, err)
	require.Equal(t, []string{"B", "A", "C"}, codes(got))

	got, err = c.Find(ctx, store.Query{
		Sort:   []store.SortField{{Field: "code"}},
		Limit:  1,
		Offset: 1,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"B"}, codes(got))

	got, err = c.Find(ctx, store.Query{Offset: 10})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = c.Find(ctx, store.Query{Filter: store.FieldGt("qty", "cap")})
	require.NoError(t, err)
	require.Equal(t, []string{"B"}, codes(got))

	got, err = c.Find(ctx, store.Query{Filter: store.Or()})
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = c.Find(ctx, store.Query{Filter: store.Not(store.FieldLte("qty", "cap"))})
	require.NoError(t, err)
	require.Equal(t, []string{"B"}, codes(got))

	_, err = c.Find(ctx, store.Query{Filter: store.Eq("colour", "red")})
	require.Error(t, err)
}

func TestNilPointerFields(t *testing.T) {
	_, c := seedWidgets(t)
	ctx := context.Background()

	n, err := c.Count(ctx, store.Eq("shipped", nil))
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	all, err := c.Find(ctx, store.Query{Filter: store.Eq("code", "A")})
	require.NoError(t, err)
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err = c.Update(ctx, all[0].ID, store.Patch{Set: map[string]any{"shipped": &now}})
	require.NoError(t, err)

	n, err = c.Count(ctx, store.Ne("shipped", nil))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = c.Count(ctx, store.Lt("shipped", now.Add(time.Hour)))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestUpdateGuardAndIncrement(t *testing.T) {
	_, c := seedWidgets(t)
	ctx := context.Background()
	all, err := c.Find(ctx, store.Query{Filter: store.Eq("code", "A")})
	require.NoError(t, err)
	id := all[0].ID

	updated, err := c.Update(ctx, id, store.Patch{
		Inc:   map[string]int64{"qty": -5},
		Guard: store.Gte("qty", 5),
	})
	require.NoError(t, err)
	require.Equal(t, 0, updated.Qty)

	_, err = c.Update(ctx, id, store.Patch{
		Inc:   map[string]int64{"qty": -1},
		Guard: store.Gte("qty", 1),
	})
	require.ErrorIs(t, err, store.ErrGuardRejected)

	_, err = c.Update(ctx, "missing", store.Patch{Set: map[string]any{"label": "x"}})
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = c.Update(ctx, id, store.Patch{Set: map[string]any{"qty": "ten"}})
	require.Error(t, err)

	stored, err := c.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 0, stored.Qty)
}

func TestCountAndSum(t *testing.T) {
	_, c := seedWidgets(t)
	ctx := context.Background()

	n, err := c.Count(ctx, store.Eq("active", true))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	total, err := c.Sum(ctx, "price", store.All())
	require.NoError(t, err)
	require.InDelta(t, 7.75, total, 1e-9)

	_, err = c.Sum(ctx, "label", nil)
	require.Error(t, err)
}

func TestReadSnapshotAllowsNestedReads(t *testing.T) {
	st, c := seedWidgets(t)
	err := st.ReadSnapshot(context.Background(), func(ctx context.Context) error {
		n, err := c.Count(ctx, nil)
		if err != nil {
			return err
		}
		require.EqualValues(t, 3, n)
		_, err = c.Find(ctx, store.Query{})
		return err
	})
	require.NoError(t, err)
}

func TestSequencesAreGaplessUnderContention(t *testing.T) {
	st := New()
	key := store.SequenceKey{Name: "order", Day: "20240115"}
	seed := func(context.Context) (int, error) { return 3, nil }

	var (
		mu   sync.Mutex
		seen = map[int]bool{}
		wg   sync.WaitGroup
		errs = make(chan error, 20)
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- st.Next(context.Background(), key, seed, func(_ context.Context, seq int) error {
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, seen, 20)
	for seq := 4; seq <= 23; seq++ {
		require.True(t, seen[seq], "missing %d", seq)
	}
}

func TestSequenceFailureDoesNotAdvance(t *testing.T) {
	st := New()
	ctx := context.Background()
	key := store.SequenceKey{Name: "order", Day: "20240115"}
	boom := errors.New("boom")

	err := st.Next(ctx, key, nil, func(context.Context, int) error { return boom })
	require.ErrorIs(t, err, boom)

	var got int
	require.NoError(t, st.Next(ctx, key, nil, func(_ context.Context, seq int) error {
		got = seq
		return nil
	}))
	require.Equal(t, 1, got)

	require.NoError(t, st.Claim(ctx, key, 7, nil, func(context.Context) error { return nil }))
	require.NoError(t, st.Next(ctx, key, nil, func(_ context.Context, seq int) error {
		got = seq
		return nil
	}))
	require.Equal(t, 8, got)

	require.NoError(t, st.Claim(ctx, key, 2, nil, func(context.Context) error { return nil }))
	require.NoError(t, st.Next(ctx, key, nil, func(_ context.Context, seq int) error {
		got = seq
		return nil
	}))
	require.Equal(t, 9, got)
}

func codes(ws []widget) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Code
	}
	return out
}
