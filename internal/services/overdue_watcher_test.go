package services

import (
	"context"
	"time"

	"github.com/yukikurage/officedesk/internal/notify"
)

func (suite *ServiceTestSuite) TestOverdueWatcher_ScanOnce() {
	task := suite.createTask("Slipping")
	watcher := NewOverdueWatcher(suite.store, time.Minute, quietLogger())

	suite.Equal(0, watcher.scan())

	suite.now = suite.now.Add(72 * time.Hour)
	suite.Equal(1, watcher.scan())
	suite.Equal(0, watcher.scan())

	var overdue int
	for _, n := range suite.store.Notifications(suite.bob.ID) {
		if n.Title == notify.TitleTaskOverdue && n.TaskID == task.ID {
			overdue++
		}
	}
	suite.Equal(1, overdue)
}

func (suite *ServiceTestSuite) TestOverdueWatcher_StopsOnCancel() {
	watcher := NewOverdueWatcher(suite.store, time.Hour, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		suite.Fail("watcher did not stop")
	}
}
