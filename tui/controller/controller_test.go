package controller

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"stockbrief/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	c := New(model.AllSections())
	c.SetTicker("NVDA")
	return c
}

func success(report string, fromCache bool) *model.AnalyzeResponse {
	return &model.AnalyzeResponse{Success: true, Report: report, FromCache: fromCache}
}

func failure(msg string) *model.AnalyzeResponse {
	return &model.AnalyzeResponse{Success: false, Error: msg}
}

func TestRequestSectionLoadsSynchronously(t *testing.T) {
	c := newController(t)

	for _, section := range c.Sections() {
		req, err := c.RequestSection(section, false)
		require.NoError(t, err)
		assert.Equal(t, "NVDA", req.Ticker)
		assert.Equal(t, StatusLoading, c.View(section).Status)
	}
}

func TestRequestSectionWithoutTicker(t *testing.T) {
	c := New(model.AllSections())

	_, err := c.RequestSection(model.SectionFinance, false)
	assert.ErrorIs(t, err, ErrMissingTicker)
	assert.Equal(t, StatusIdle, c.View(model.SectionFinance).Status)
}

func TestRequestSectionUnknown(t *testing.T) {
	c := newController(t)

	_, err := c.RequestSection(model.Section("magic"), false)
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestRequestSectionWhileInFlight(t *testing.T) {
	c := newController(t)

	_, err := c.RequestSection(model.SectionFinance, false)
	require.NoError(t, err)

	_, err = c.RequestSection(model.SectionFinance, true)
	assert.ErrorIs(t, err, ErrRequestInFlight)
}

// Mirrors the full lifecycle: fresh fetch, confirmed refresh, remote failure,
// transport failure. The cache must only ever move on success.
func TestFetchLifecycle(t *testing.T) {
	c := newController(t)
	finance := model.SectionFinance

	// First fetch returns a fresh report.
	req, err := c.RequestSection(finance, false)
	require.NoError(t, err)
	c.Apply(req, success("<p>Solid margins</p>", false), nil)

	view := c.View(finance)
	assert.Equal(t, StatusReady, view.Status)
	assert.True(t, view.Fresh)
	assert.False(t, view.FromCache)
	assert.Equal(t, "<p>Solid margins</p>", c.DisplayReport(finance))

	// Confirmed refresh overwrites the cache.
	req, err = c.ForceRefresh(finance, true)
	require.NoError(t, err)
	assert.True(t, req.Force)
	c.Apply(req, success("<p>Updated</p>", false), nil)
	assert.Equal(t, "<p>Updated</p>", c.DisplayReport(finance))

	// A remote failure surfaces verbatim and leaves the cache alone.
	req, err = c.RequestSection(finance, false)
	require.NoError(t, err)
	c.Apply(req, failure("rate limited"), nil)

	view = c.View(finance)
	assert.Equal(t, StatusFailed, view.Status)
	assert.Equal(t, "rate limited", view.Err)
	assert.Equal(t, "<p>Updated</p>", c.DisplayReport(finance))

	// A transport failure shows the generic message, cache still untouched.
	req, err = c.RequestSection(finance, false)
	require.NoError(t, err)
	c.Apply(req, nil, errors.New("connection refused"))

	view = c.View(finance)
	assert.Equal(t, StatusFailed, view.Status)
	assert.Equal(t, ConnectivityMessage, view.Err)
	assert.Equal(t, "<p>Updated</p>", c.DisplayReport(finance))
}

func TestFailureBeforeAnySuccessLeavesCacheAbsent(t *testing.T) {
	c := newController(t)

	req, err := c.RequestSection(model.SectionBusiness, false)
	require.NoError(t, err)
	c.Apply(req, failure("ticker not found"), nil)

	view := c.View(model.SectionBusiness)
	assert.Equal(t, StatusFailed, view.Status)
	assert.False(t, view.HasReport)
	assert.Equal(t, ReportPlaceholder, c.DisplayReport(model.SectionBusiness))
}

func TestForceRefreshRequiresConfirmation(t *testing.T) {
	c := newController(t)

	_, err := c.ForceRefresh(model.SectionFinance, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	// No request was issued: the section never left Idle.
	assert.Equal(t, StatusIdle, c.View(model.SectionFinance).Status)
}

func TestPreviewBounded(t *testing.T) {
	c := newController(t)
	finance := model.SectionFinance

	req, _ := c.RequestSection(finance, false)
	c.Apply(req, success("<p>Short report</p>", false), nil)
	view := c.View(finance)
	assert.Equal(t, "Short report", view.Preview)
	assert.False(t, strings.HasSuffix(view.Preview, "…"))

	long := "<p>" + strings.Repeat("margin pressure ", 40) + "</p>"
	req, _ = c.RequestSection(finance, false)
	c.Apply(req, success(long, false), nil)
	view = c.View(finance)
	assert.LessOrEqual(t, utf8.RuneCountInString(view.Preview), 81)
	assert.True(t, strings.HasSuffix(view.Preview, "…"))
}

func TestStaleResponseDiscarded(t *testing.T) {
	c := newController(t)
	finance := model.SectionFinance

	first, err := c.RequestSection(finance, false)
	require.NoError(t, err)

	// The first request never settled; a forced refresh supersedes it.
	c.Apply(first, nil, errors.New("simulated timeout"))
	assert.Equal(t, StatusFailed, c.View(finance).Status)

	second, err := c.RequestSection(finance, true)
	require.NoError(t, err)
	assert.True(t, c.Apply(second, success("<p>Current</p>", false), nil))

	// The late answer to the first request must not override the second.
	assert.False(t, c.Apply(first, success("<p>Stale</p>", false), nil))

	assert.Equal(t, "<p>Current</p>", c.DisplayReport(finance))
	assert.Equal(t, StatusReady, c.View(finance).Status)
}

func TestResponseForPreviousTickerDiscarded(t *testing.T) {
	c := newController(t)
	finance := model.SectionFinance

	old, err := c.RequestSection(finance, false)
	require.NoError(t, err)

	// Switching tickers resets sequence numbers; the new request can collide
	// with the old one's Seq, so the ticker itself must also be checked.
	c.SetTicker("0700.HK")
	fresh, err := c.RequestSection(finance, false)
	require.NoError(t, err)
	require.Equal(t, old.Seq, fresh.Seq)

	assert.False(t, c.Apply(old, success("<p>NVDA report</p>", false), nil))
	assert.False(t, c.View(finance).HasReport)
	assert.Equal(t, StatusLoading, c.View(finance).Status)

	assert.True(t, c.Apply(fresh, success("<p>Tencent report</p>", false), nil))
	assert.Equal(t, "<p>Tencent report</p>", c.DisplayReport(finance))
}

func TestSetTickerDropsCache(t *testing.T) {
	c := newController(t)
	finance := model.SectionFinance

	req, _ := c.RequestSection(finance, false)
	c.Apply(req, success("<p>Solid margins</p>", false), nil)
	require.True(t, c.View(finance).HasReport)

	c.SetTicker("0700.HK")
	assert.False(t, c.View(finance).HasReport)
	assert.Equal(t, StatusIdle, c.View(finance).Status)

	// Re-setting the same ticker must not wipe anything.
	req, _ = c.RequestSection(finance, false)
	c.Apply(req, success("<p>Tencent</p>", false), nil)
	c.SetTicker("0700.HK")
	assert.True(t, c.View(finance).HasReport)
}

func TestRequestAllSkipsInFlight(t *testing.T) {
	c := newController(t)

	_, err := c.RequestSection(model.SectionFinance, false)
	require.NoError(t, err)

	reqs, err := c.RequestAll()
	require.NoError(t, err)
	assert.Len(t, reqs, len(model.AllSections())-1)
	for _, req := range reqs {
		assert.NotEqual(t, model.SectionFinance, req.Section)
		assert.Equal(t, StatusLoading, c.View(req.Section).Status)
	}
}

func TestRequestAllWithoutTicker(t *testing.T) {
	c := New(model.AllSections())

	_, err := c.RequestAll()
	assert.ErrorIs(t, err, ErrMissingTicker)
}

func TestClearFreshGuardedBySeq(t *testing.T) {
	c := newController(t)
	finance := model.SectionFinance

	req, _ := c.RequestSection(finance, false)
	c.Apply(req, success("<p>First</p>", false), nil)
	require.True(t, c.View(finance).Fresh)

	// A newer request lands before the first one's expiry timer fires.
	second, _ := c.RequestSection(finance, true)
	c.Apply(second, success("<p>Second</p>", false), nil)

	c.ClearFresh(finance, req.Seq)
	assert.True(t, c.View(finance).Fresh, "stale expiry must not clear the newer tag")

	c.ClearFresh(finance, second.Seq)
	assert.False(t, c.View(finance).Fresh)
	assert.Equal(t, StatusReady, c.View(finance).Status)
}

func TestCachedResponseNotMarkedFresh(t *testing.T) {
	c := newController(t)
	finance := model.SectionFinance

	req, _ := c.RequestSection(finance, false)
	c.Apply(req, success("<p>Solid margins</p>", true), nil)

	view := c.View(finance)
	assert.Equal(t, StatusReady, view.Status)
	assert.True(t, view.FromCache)
	assert.False(t, view.Fresh)
}

func TestSectionsIndependent(t *testing.T) {
	c := newController(t)

	reqs, err := c.RequestAll()
	require.NoError(t, err)
	require.Len(t, reqs, len(model.AllSections()))

	// One section fails; the others settle normally.
	for _, req := range reqs {
		if req.Section == model.SectionCall {
			c.Apply(req, failure("rate limited"), nil)
			continue
		}
		c.Apply(req, success("<p>ok</p>", false), nil)
	}

	for _, section := range c.Sections() {
		if section == model.SectionCall {
			assert.Equal(t, StatusFailed, c.View(section).Status)
			continue
		}
		assert.Equal(t, StatusReady, c.View(section).Status)
	}
}
