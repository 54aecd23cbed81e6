package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

func TestDetailMountLooksUpOnce(t *testing.T) {
	cat := newFakeCatalog()
	cat.details["tt0111161"] = domain.MovieDetail{
		ID: "tt0111161", Title: "The Shawshank Redemption", Year: "1994",
		Plot: "Two imprisoned men bond.", Director: "Frank Darabont",
	}

	d := NewDetail(context.Background(), cat, "tt0111161", logger.Nop())
	defer d.Unmount()

	assert.Equal(t, domain.MovieDetail{}, d.Snapshot())

	waitDone(t, d.Mount())
	waitDone(t, d.Mount())

	assert.Equal(t, []string{"tt0111161"}, cat.lookupCalls())
	got := d.Snapshot()
	assert.Equal(t, "The Shawshank Redemption", got.Title)
	assert.Equal(t, "1994", got.Year)
	assert.Equal(t, "Two imprisoned men bond.", got.Plot)
}

func TestDetailErrorObjectReplacesRecord(t *testing.T) {
	cat := newFakeCatalog()
	cat.details["bogus"] = domain.MovieDetail{Raw: []byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`)}

	d := NewDetail(context.Background(), cat, "bogus", logger.Nop())
	defer d.Unmount()
	waitDone(t, d.Mount())

	got := d.Snapshot()
	assert.Empty(t, got.Title)
	assert.Contains(t, string(got.Raw), "Incorrect IMDb ID.")
}

func TestDetailEmptyIDIsSent(t *testing.T) {
	cat := newFakeCatalog()
	d := NewDetail(context.Background(), cat, "", logger.Nop())
	defer d.Unmount()
	waitDone(t, d.Mount())

	assert.Equal(t, []string{""}, cat.lookupCalls())
}

func TestDetailFailureKeepsEmptyRecord(t *testing.T) {
	cat := newFakeCatalog()
	cat.fail = true
	d := NewDetail(context.Background(), cat, "tt0111161", logger.Nop())
	defer d.Unmount()
	waitDone(t, d.Mount())

	assert.Equal(t, domain.MovieDetail{}, d.Snapshot())
}

func TestDetailResponseAfterUnmountIsNoop(t *testing.T) {
	cat := newFakeCatalog()
	cat.details["tt0111161"] = domain.MovieDetail{Title: "The Shawshank Redemption"}
	release := cat.gate("tt0111161")

	d := NewDetail(context.Background(), cat, "tt0111161", logger.Nop())
	notified := false
	d.Subscribe(func(domain.MovieDetail) { notified = true })

	done := d.Mount()
	d.Unmount()
	close(release)
	waitDone(t, done)

	assert.Empty(t, d.Snapshot().Title)
	assert.False(t, notified)
}

func TestDetailSubscriber(t *testing.T) {
	cat := newFakeCatalog()
	cat.details["tt0111161"] = domain.MovieDetail{Title: "The Shawshank Redemption"}

	d := NewDetail(context.Background(), cat, "tt0111161", logger.Nop())
	defer d.Unmount()
	got := make(chan domain.MovieDetail, 1)
	d.Subscribe(func(m domain.MovieDetail) { got <- m })

	waitDone(t, d.Mount())
	assert.Equal(t, "The Shawshank Redemption", (<-got).Title)
}
