package playlist

import "testing"

func tracks(ids ...string) []Track {
	out := make([]Track, len(ids))
	for i, id := range ids {
		out[i] = Track{ID: id, Link: "https://example.com/" + id + ".mp3"}
	}
	return out
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Current() != nil {
		t.Error("Current() should be nil for empty queue")
	}
	if !q.IsEmpty() {
		t.Error("IsEmpty() should be true")
	}
}

func TestQueue_SetPlaylist(t *testing.T) {
	q := NewQueue()

	tr := q.SetPlaylist(tracks("a", "b", "c"), 1)

	if tr == nil || tr.ID != "b" {
		t.Errorf("SetPlaylist returned %v, want b", tr)
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", q.CurrentIndex())
	}
}

func TestQueue_SetPlaylist_ClampsOutOfRange(t *testing.T) {
	for _, start := range []int{-1, 3, 100} {
		q := NewQueue()
		q.SetPlaylist(tracks("a", "b", "c"), start)

		if q.CurrentIndex() != 0 {
			t.Errorf("start %d: CurrentIndex() = %d, want 0", start, q.CurrentIndex())
		}
	}
}

func TestQueue_SetPlaylist_Empty(t *testing.T) {
	q := NewQueue()
	q.SetPlaylist(tracks("a"), 0)

	if tr := q.SetPlaylist(nil, 0); tr != nil {
		t.Errorf("SetPlaylist(nil) = %v, want nil", tr)
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
}

func TestQueue_SetPlaylist_CopiesInput(t *testing.T) {
	in := tracks("a", "b")
	q := NewQueue()
	q.SetPlaylist(in, 0)

	in[0].ID = "changed"

	if q.Current().ID != "a" {
		t.Error("queue should not alias the caller's slice")
	}
}

func TestQueue_NextWraps(t *testing.T) {
	// [T1,T2,T3] at index 2: next goes to index 0.
	q := NewQueue()
	q.SetPlaylist(tracks("T1", "T2", "T3"), 2)

	tr := q.Next()

	if tr == nil || tr.ID != "T1" {
		t.Errorf("Next() = %v, want T1", tr)
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
}

func TestQueue_PreviousWraps(t *testing.T) {
	q := NewQueue()
	q.SetPlaylist(tracks("T1", "T2", "T3"), 0)

	tr := q.Previous()

	if tr == nil || tr.ID != "T3" {
		t.Errorf("Previous() = %v, want T3", tr)
	}
}

func TestQueue_NextPreviousEmpty(t *testing.T) {
	q := NewQueue()

	if q.Next() != nil || q.Previous() != nil {
		t.Error("Next/Previous on empty queue should return nil")
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
}

func TestQueue_WraparoundClosure(t *testing.T) {
	for n := 1; n <= 7; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		for start := 0; start < n; start++ {
			q := NewQueue()
			q.SetPlaylist(tracks(ids...), start)

			for range n {
				q.Next()
			}
			if q.CurrentIndex() != start {
				t.Errorf("n=%d start=%d: after n Next() index = %d", n, start, q.CurrentIndex())
			}

			for range n {
				q.Previous()
			}
			if q.CurrentIndex() != start {
				t.Errorf("n=%d start=%d: after n Previous() index = %d", n, start, q.CurrentIndex())
			}
		}
	}
}

func TestQueue_JumpTo(t *testing.T) {
	q := NewQueue()
	q.SetPlaylist(tracks("a", "b", "c"), 0)

	if tr := q.JumpTo(2); tr == nil || tr.ID != "c" {
		t.Errorf("JumpTo(2) = %v, want c", tr)
	}
	if tr := q.JumpTo(5); tr != nil {
		t.Errorf("JumpTo(5) = %v, want nil", tr)
	}
	if q.CurrentIndex() != 2 {
		t.Errorf("invalid JumpTo should not move cursor, got %d", q.CurrentIndex())
	}
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	q.SetPlaylist(tracks("a", "b"), 1)

	q.Clear()

	if !q.IsEmpty() || q.CurrentIndex() != -1 || q.Current() != nil {
		t.Error("Clear should empty the queue and reset the cursor")
	}
}
