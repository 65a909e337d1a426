package preview

import (
	"image"
	"sync"
	"testing"
	"time"

	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/internal/domain/presenter"
	"github.com/RedBear961/qrcreator/pkg/logger"
	"github.com/RedBear961/qrcreator/pkg/queue"
	"github.com/RedBear961/qrcreator/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSaver struct {
	mu     sync.Mutex
	copied int
}

func (c *countingSaver) Save(image.Image) error {
	return nil
}

func (c *countingSaver) Copy(image.Image) {
	c.mu.Lock()
	c.copied++
	c.mu.Unlock()
}

func (c *countingSaver) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

func newTestSession(t *testing.T) (*session, *countingSaver) {
	t.Helper()

	view, _ := newTestView()
	s := &session{
		ui:    queue.NewSerial(uiBacklog),
		view:  view,
		prefs: preferences.New(preferences.NewMemoryStorage(), logger.Nop()),
	}
	saver := &countingSaver{}
	pool := worker.NewPool(1)
	s.presenter = presenter.New(s.view, s.prefs, saver, pool, s, logger.Nop())

	t.Cleanup(func() {
		pool.Close()
		s.close()
	})
	return s, saver
}

func TestCopyWithoutTextReportsNothing(t *testing.T) {
	s, saver := newTestSession(t)

	assert.Equal(t, "Nothing to copy yet.", s.copy())
	s.ui.Sync(func() {})
	assert.Zero(t, saver.count())
}

func TestCopyWithTextStartsExport(t *testing.T) {
	s, saver := newTestSession(t)
	require.NoError(t, s.prefs.SetLiveGeneration(false))

	s.do(func(p *presenter.Presenter) {
		s.view.text = "copy me"
		p.TextDidChange("copy me")
	})

	reply := s.copy()
	assert.Contains(t, reply, "Copying")
	assert.NotContains(t, reply, "Copied")

	require.Eventually(t, func() bool {
		return saver.count() == 1
	}, 2*time.Second, time.Millisecond)
}
