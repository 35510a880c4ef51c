package page

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reverig/internal/adapter"
	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/workflow"
	"github.com/mmcdole/reverig/internal/workflow/workflowtest"
)

const storePage = `<!DOCTYPE html>
<html><head><title>Half-Life</title>
<link rel="canonical" href="https://store.steampowered.com/app/440/Team_Fortress_2/">
</head><body>
<div class="apphub_OtherSiteInfo">
<a class="btnv6_blue_hoverfade btn_medium" href="https://steamcommunity.com/app/440"><span>Community Hub</span></a>
</div>
</body></html>`

func parse(t *testing.T, src, url string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src), url, adapter.NullLogger())
	require.NoError(t, err)
	return doc
}

func TestButtonRowSelectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "steamdb class", body: `<div class="x steamdb-buttons"></div>`, want: true},
		{name: "steamdb attribute", body: `<div data-steamdb-buttons="1"></div>`, want: true},
		{name: "other site info", body: `<div class="apphub_OtherSiteInfo"></div>`, want: true},
		{name: "similar class", body: `<div class="steamdb-buttons-extra"></div>`, want: false},
		{name: "none", body: `<div class="game_area"></div>`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := parse(t, "<html><body>"+tt.body+"</body></html>", "")
			assert.Equal(t, tt.want, doc.HasButtonRow())
			if !tt.want {
				assert.ErrorIs(t, doc.InsertToolButton(domain.ModeAdd), ErrNoButtonRow)
				assert.ErrorIs(t, doc.InsertRestartButton(), ErrNoButtonRow)
			}
		})
	}
}

func TestAppID(t *testing.T) {
	t.Parallel()

	doc := parse(t, storePage, "")
	id, err := doc.AppID()
	require.NoError(t, err)
	assert.Equal(t, domain.AppID(440), id)

	doc = parse(t, storePage, "https://steamcommunity.com/app/570")
	id, err = doc.AppID()
	require.NoError(t, err)
	assert.Equal(t, domain.AppID(570), id)

	doc = parse(t, "<html><body></body></html>", "")
	_, err = doc.AppID()
	assert.ErrorIs(t, err, domain.ErrInvalidAppID)
}

func TestTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Half-Life", parse(t, storePage, "").Title())
	assert.Equal(t, "Portal 2", parse(t,
		`<html><head><title>Save 75% on Portal 2</title></head><body><div id="appHubAppName"> Portal 2 </div></body></html>`, "").Title())
	assert.Equal(t, "Dota 2", parse(t,
		`<html><head><meta property="og:title" content="Dota 2"></head><body></body></html>`, "").Title())
	assert.Empty(t, parse(t, "<html><body></body></html>", "").Title())
}

func TestSetupInsertsButtons(t *testing.T) {
	t.Parallel()

	doc := parse(t, storePage, "")
	backend := workflowtest.NewBackend()
	backend.Presence = domain.PresenceResult{Success: true, Exists: true}
	setup := workflow.NewSetup(backend, adapter.NullLogger())

	for i := 0; i < 3; i++ {
		require.NoError(t, setup.Run(context.Background(), doc, 440))
	}

	root, err := htmlquery.Parse(strings.NewReader(doc.String()))
	require.NoError(t, err)

	links := htmlquery.Find(root, `//div[@class="apphub_OtherSiteInfo"]/a`)
	require.Len(t, links, 3)
	assert.Equal(t, "Community Hub", htmlquery.InnerText(links[0]))
	assert.Equal(t, RestartLabel, htmlquery.InnerText(links[1]))
	assert.Equal(t, "Remove via reverig-tool", htmlquery.InnerText(links[2]))

	assert.Equal(t, "btnv6_blue_hoverfade btn_medium "+ClassRestartButton, htmlquery.SelectAttr(links[1], "class"))
	assert.Equal(t, "remove", htmlquery.SelectAttr(links[2], ModeAttr))
	assert.Len(t, htmlquery.Find(root, `//head/style[@id="reverig-tool-styles"]`), 1)

	assert.Equal(t, domain.ModeRemove, doc.ButtonMode())
	doc.SetButtonMode(domain.ModeAdd)
	assert.Equal(t, domain.ModeAdd, doc.ButtonMode())
	assert.Contains(t, doc.String(), `title="Add via reverig-tool"`)
}

func TestToolButtonWithoutReference(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body><div class="steamdb-buttons"></div></body></html>`, "")
	require.NoError(t, doc.InsertToolButton(domain.ModeAdd))
	require.NoError(t, doc.InsertToolButton(domain.ModeRemove))

	out := doc.String()
	assert.Equal(t, 1, strings.Count(out, `class="btnv6_blue_hoverfade btn_medium reverig-tool-button"`))
	assert.Equal(t, domain.ModeAdd, doc.ButtonMode())
}

func TestOverlay(t *testing.T) {
	t.Parallel()

	doc := parse(t, storePage, "")
	assert.False(t, doc.OverlayOpen())
	assert.False(t, doc.RenderOverlay(workflow.NewModal()))

	require.True(t, doc.OpenOverlay(workflow.NewModal()))
	assert.False(t, doc.OpenOverlay(workflow.NewModal()), "second overlay is refused")
	assert.Equal(t, 1, strings.Count(doc.String(), `class="`+ClassOverlay+`"`))

	m, ok := doc.Overlay()
	require.True(t, ok)
	assert.Equal(t, workflow.NewModal(), m)

	want := workflow.Modal{
		Title:           workflow.TitleFor("mirror-1"),
		Status:          domain.LabelDownloading,
		ProgressVisible: true,
		Percent:         50,
		Action:          workflow.ActionClose,
	}
	require.True(t, doc.RenderOverlay(want))
	m, _ = doc.Overlay()
	assert.Equal(t, want, m)
	assert.Contains(t, doc.String(), `style="width:50%;"`)

	doc.CloseOverlay()
	assert.False(t, doc.OverlayOpen())
	_, ok = doc.Overlay()
	assert.False(t, ok)
}

func TestControllerOnDocument(t *testing.T) {
	t.Parallel()

	doc := parse(t, storePage, "")
	backend := workflowtest.NewBackend()
	backend.SetStatuses(workflowtest.Script(
		domain.StatusState{Status: domain.StatusChecking},
		domain.StatusState{Status: domain.StatusDownloading, BytesRead: 50, TotalBytes: 100},
		domain.StatusState{Status: domain.StatusDone},
	))

	ctx := context.Background()
	id, err := doc.AppID()
	require.NoError(t, err)
	require.NoError(t, workflow.NewSetup(backend, adapter.NullLogger()).Run(ctx, doc, id))

	ctrl := workflow.NewController(backend, doc,
		workflow.WithLogger(adapter.NullLogger()),
		workflow.WithPollInterval(5*time.Millisecond),
		workflow.WithHideDelay(time.Millisecond),
	)
	t.Cleanup(ctrl.Close)

	require.NoError(t, ctrl.Click(ctx, id))
	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, ctrl.Wait(waitCtx))

	m, ok := doc.Overlay()
	require.True(t, ok)
	assert.Equal(t, domain.LabelAdded, m.Status)
	assert.Equal(t, workflow.ActionDone, m.Action)
	assert.Equal(t, 100, m.Percent)
	assert.Equal(t, domain.ModeRemove, doc.ButtonMode())

	require.NoError(t, ctrl.Click(ctx, id))
	assert.Equal(t, domain.ModeAdd, doc.ButtonMode())
	assert.False(t, doc.OverlayOpen())
}

func TestWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte(storePage), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, "", adapter.NullLogger(), func(_ context.Context, doc *Document) error {
			if doc.HasButtonRow() {
				seen.Add(1)
			}
			return nil
		})
	}()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(storePage), 0644)
		return seen.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
