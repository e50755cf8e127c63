package screens

import (
	"context"
	"errors"
	"testing"
	"time"

	"collablearn/internal/chain"
)

func TestDashboardInitialLoad(t *testing.T) {
	owner := testOwner()
	reader := &fakeReader{}
	reader.put(chain.Project{ID: 1, Title: "alpha", Owner: owner})

	d := NewDashboard(reader, nil, owner, time.Hour)
	d.Start(context.Background())
	defer d.Stop()

	projects, status, err := d.Snapshot()
	if status != StatusReady || err != nil {
		t.Fatalf("status = %v, err = %v, want ready", status, err)
	}
	if len(projects) != 1 || projects[0].Title != "alpha" {
		t.Fatalf("projects = %+v", projects)
	}
}

func TestDashboardEventRefresh(t *testing.T) {
	owner := testOwner()
	reader := &fakeReader{}
	reader.put(chain.Project{ID: 1, Owner: owner})
	watcher := &fakeWatcher{}

	d := NewDashboard(reader, watcher, owner, time.Hour)
	d.Start(context.Background())
	defer d.Stop()

	reader.put(chain.Project{ID: 2, Owner: owner})
	watcher.emit(chain.ProjectCreated{ID: 2, Owner: owner})

	eventually(t, time.Second, func() bool {
		projects, _, _ := d.Snapshot()
		return len(projects) == 2
	})
}

func TestDashboardIgnoresOtherOwnersEvents(t *testing.T) {
	owner := testOwner()
	reader := &fakeReader{}
	reader.put(chain.Project{ID: 1, Owner: owner})
	watcher := &fakeWatcher{}

	d := NewDashboard(reader, watcher, owner, time.Hour)
	d.Start(context.Background())
	defer d.Stop()

	before := reader.calls()
	watcher.emit(chain.ProjectCreated{ID: 9})
	time.Sleep(30 * time.Millisecond)
	if reader.calls() != before {
		t.Fatal("refreshed for a foreign owner's event")
	}
}

func TestDashboardPollFallback(t *testing.T) {
	owner := testOwner()
	reader := &fakeReader{}
	reader.put(chain.Project{ID: 1, Owner: owner})
	watcher := &fakeWatcher{subscribeErr: errors.New("notifications not supported")}

	d := NewDashboard(reader, watcher, owner, 10*time.Millisecond)
	d.Start(context.Background())
	defer d.Stop()

	reader.put(chain.Project{ID: 2, Owner: owner})
	eventually(t, time.Second, func() bool {
		projects, _, _ := d.Snapshot()
		return len(projects) == 2
	})
}

func TestDashboardKeepsLastGoodOnRefreshFailure(t *testing.T) {
	owner := testOwner()
	reader := &fakeReader{}
	reader.put(chain.Project{ID: 1, Owner: owner})
	watcher := &fakeWatcher{subscribeErr: errors.New("no subscriptions")}

	d := NewDashboard(reader, watcher, owner, 10*time.Millisecond)
	d.Start(context.Background())
	defer d.Stop()

	before := reader.calls()
	reader.setListErr(errors.New("rpc down"))
	eventually(t, time.Second, func() bool { return reader.calls() > before })

	projects, status, err := d.Snapshot()
	if status != StatusReady || err != nil {
		t.Fatalf("status = %v, err = %v, want last good state kept", status, err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects = %+v, want the last good list", projects)
	}
}

func TestDashboardStopHaltsUpdates(t *testing.T) {
	owner := testOwner()
	reader := &fakeReader{}
	reader.put(chain.Project{ID: 1, Owner: owner})
	watcher := &fakeWatcher{subscribeErr: errors.New("no subscriptions")}

	d := NewDashboard(reader, watcher, owner, 5*time.Millisecond)
	d.Start(context.Background())
	d.Stop()

	after := reader.calls()
	time.Sleep(40 * time.Millisecond)
	if reader.calls() != after {
		t.Fatal("list calls continued after Stop")
	}
}
