package controller

import (
	"errors"

	"stockbrief/model"
	"stockbrief/util"
)

// previewLimit bounds the plain-text preview in runes.
const previewLimit = 80

// ConnectivityMessage replaces raw network errors in the UI.
const ConnectivityMessage = "Could not reach the analysis server"

// ReportPlaceholder is what the report window shows before any fetch
// succeeded for a section.
const ReportPlaceholder = "No report yet. Press enter to fetch this section."

var (
	ErrMissingTicker        = errors.New("no ticker selected")
	ErrUnknownSection       = errors.New("unknown section")
	ErrRequestInFlight      = errors.New("request already in flight for this section")
	ErrConfirmationRequired = errors.New("refresh requires confirmation")
)

// Status is the lifecycle state of one section's report.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SectionView is the render-facing state of one section.
type SectionView struct {
	Status    Status
	Preview   string
	Err       string
	FromCache bool
	Fresh     bool
	HasReport bool
}

// Request identifies one issued fetch. Seq orders requests per section so a
// late response for a superseded request is discarded.
type Request struct {
	Ticker  string
	Section model.Section
	Force   bool
	Seq     uint64
}

type sectionState struct {
	status    Status
	preview   string
	err       string
	fromCache bool
	fresh     bool
	seq       uint64
	inFlight  bool
}

// Controller drives the fetch lifecycle for every section of one ticker's
// view. It performs no I/O: callers carry the Request from RequestSection to
// the server and settle it through Apply. All methods must be called from a
// single goroutine (the UI loop owns it).
type Controller struct {
	ticker   string
	sections []model.Section
	states   map[model.Section]*sectionState
	cache    map[model.Section]string
}

func New(sections []model.Section) *Controller {
	c := &Controller{sections: append([]model.Section(nil), sections...)}
	c.reset()
	return c
}

func (c *Controller) reset() {
	c.states = make(map[model.Section]*sectionState, len(c.sections))
	c.cache = make(map[model.Section]string, len(c.sections))
	for _, s := range c.sections {
		c.states[s] = &sectionState{}
	}
}

// SetTicker switches the controller to a new ticker. Cached reports belong
// to the previous ticker's view and are dropped with the section states.
func (c *Controller) SetTicker(ticker string) {
	if ticker == c.ticker {
		return
	}
	c.ticker = ticker
	c.reset()
}

func (c *Controller) Ticker() string {
	return c.ticker
}

func (c *Controller) Sections() []model.Section {
	out := make([]model.Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// RequestSection opens a fetch for one section. The status flips to Loading
// synchronously; the returned Request must be settled with Apply. Rejected
// while a request for the same section is still in flight.
func (c *Controller) RequestSection(section model.Section, force bool) (Request, error) {
	st, ok := c.states[section]
	if !ok {
		return Request{}, ErrUnknownSection
	}
	if c.ticker == "" {
		return Request{}, ErrMissingTicker
	}
	if st.inFlight {
		return Request{}, ErrRequestInFlight
	}

	st.seq++
	st.inFlight = true
	st.status = StatusLoading
	st.err = ""
	st.fresh = false

	return Request{
		Ticker:  c.ticker,
		Section: section,
		Force:   force,
		Seq:     st.seq,
	}, nil
}

// RequestAll opens a fetch for every section, used when a ticker view loads.
// Sections already in flight are skipped.
func (c *Controller) RequestAll() ([]Request, error) {
	if c.ticker == "" {
		return nil, ErrMissingTicker
	}

	reqs := make([]Request, 0, len(c.sections))
	for _, section := range c.sections {
		req, err := c.RequestSection(section, false)
		if err != nil {
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// ForceRefresh regenerates a section's report. confirmed must be true; the
// guard exists because a refresh spends a billable generation call.
func (c *Controller) ForceRefresh(section model.Section, confirmed bool) (Request, error) {
	if !confirmed {
		return Request{}, ErrConfirmationRequired
	}
	return c.RequestSection(section, true)
}

// Apply settles a request with the parsed server response or a transport
// error. A response whose request was superseded, or that belongs to a
// previous ticker view, is discarded whole; Apply reports whether the
// response took effect. The cache is only written on success; failures
// leave the previous report viewable.
func (c *Controller) Apply(req Request, resp *model.AnalyzeResponse, transportErr error) bool {
	st, ok := c.states[req.Section]
	if !ok || req.Seq != st.seq || req.Ticker != c.ticker {
		return false
	}

	st.inFlight = false

	if transportErr != nil || resp == nil {
		st.status = StatusFailed
		st.err = ConnectivityMessage
		return true
	}
	if !resp.Success {
		st.status = StatusFailed
		st.err = resp.Error
		return true
	}

	c.cache[req.Section] = resp.Report
	st.status = StatusReady
	st.err = ""
	st.fromCache = resp.FromCache
	st.fresh = !resp.FromCache
	st.preview = util.PlainPreview(resp.Report, previewLimit)
	return true
}

// ClearFresh drops the transient fresh tag once its display window passed.
// seq must be the Request.Seq that set the tag, so an expiry timer from an
// older request cannot clear a newer one.
func (c *Controller) ClearFresh(section model.Section, seq uint64) {
	st, ok := c.states[section]
	if !ok || st.seq != seq {
		return
	}
	st.fresh = false
}

// DisplayReport hands the cached body to the report window, or the
// placeholder when the section was never successfully fetched.
func (c *Controller) DisplayReport(section model.Section) string {
	if body, ok := c.cache[section]; ok {
		return body
	}
	return ReportPlaceholder
}

// View returns the render-facing snapshot of one section.
func (c *Controller) View(section model.Section) SectionView {
	st, ok := c.states[section]
	if !ok {
		return SectionView{}
	}
	_, cached := c.cache[section]
	return SectionView{
		Status:    st.status,
		Preview:   st.preview,
		Err:       st.err,
		FromCache: st.fromCache,
		Fresh:     st.fresh,
		HasReport: cached,
	}
}
