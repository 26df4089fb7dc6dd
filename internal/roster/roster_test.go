package roster_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"vibe-brain/internal/domain"
	"vibe-brain/internal/roster"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func identities(entries []domain.RosterEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Identity)
	}
	return out
}

func TestRoster(t *testing.T) {
	Convey("Given a fresh roster", t, func() {
		clock := &stepClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		r := roster.New(roster.WithClock(clock))

		Convey("When taking a snapshot", func() {
			snap := r.Snapshot()

			Convey("Then exactly the two placeholders are returned", func() {
				So(identities(snap), ShouldResemble, []string{"ghost_coder", "system_admin"})
				So(snap[0].LastSeen.IsZero(), ShouldBeTrue)
				So(r.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a profile is upserted", func() {
			entry := r.Upsert(domain.Profile{Identity: "alice", Soul: "Calm chaos."})
			snap := r.Snapshot()

			Convey("Then placeholders no longer appear", func() {
				So(identities(snap), ShouldResemble, []string{"alice"})
				So(snap[0].Soul, ShouldEqual, "Calm chaos.")
				So(snap[0].LastSeen, ShouldEqual, entry.LastSeen)
			})
		})

		Convey("When the same identity is upserted several times", func() {
			r.Upsert(domain.Profile{Identity: "alice", Soul: "v1"})
			r.Upsert(domain.Profile{Identity: "bob", Soul: "b"})
			r.Upsert(domain.Profile{Identity: "alice", Soul: "v2"})
			last := r.Upsert(domain.Profile{Identity: "alice", Soul: "v3"})
			snap := r.Snapshot()

			Convey("Then one entry remains, re-appended with the latest timestamp", func() {
				So(identities(snap), ShouldResemble, []string{"bob", "alice"})
				So(snap[1].Soul, ShouldEqual, "v3")
				So(snap[1].LastSeen, ShouldEqual, last.LastSeen)
				So(snap[1].LastSeen.After(snap[0].LastSeen), ShouldBeTrue)
			})
		})

		Convey("When a caller mutates a snapshot", func() {
			r.Upsert(domain.Profile{Identity: "alice", Soul: "v1"})
			snap := r.Snapshot()
			snap[0].Identity = "mallory"

			Convey("Then the roster is unaffected", func() {
				So(identities(r.Snapshot()), ShouldResemble, []string{"alice"})
			})
		})
	})

	Convey("Given a bounded roster", t, func() {
		r := roster.New(roster.WithMaxEntries(2))

		Convey("When more identities than the bound are upserted", func() {
			r.Upsert(domain.Profile{Identity: "a"})
			r.Upsert(domain.Profile{Identity: "b"})
			r.Upsert(domain.Profile{Identity: "c"})

			Convey("Then the oldest entry is dropped", func() {
				So(identities(r.Snapshot()), ShouldResemble, []string{"b", "c"})
			})
		})
	})

	Convey("Given custom placeholders", t, func() {
		r := roster.New(roster.WithPlaceholders([]domain.RosterEntry{{Identity: "nobody"}}))

		Convey("Then an empty snapshot returns them", func() {
			So(identities(r.Snapshot()), ShouldResemble, []string{"nobody"})
		})
	})

	Convey("Given concurrent upserts", t, func() {
		r := roster.New()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				r.Upsert(domain.Profile{Identity: "same", Soul: fmt.Sprintf("v%d", i)})
				r.Upsert(domain.Profile{Identity: fmt.Sprintf("user-%d", i%5)})
				_ = r.Snapshot()
			}(i)
		}
		wg.Wait()

		Convey("Then every identity appears exactly once", func() {
			seen := map[string]int{}
			for _, e := range r.Snapshot() {
				seen[e.Identity]++
			}
			So(len(seen), ShouldEqual, 6)
			for _, n := range seen {
				So(n, ShouldEqual, 1)
			}
		})
	})
}
