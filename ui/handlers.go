package ui

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"launchdash/domain/launch"
	"launchdash/internal/analysis"
	"launchdash/internal/charts"
	"launchdash/internal/controller"
	"launchdash/internal/errors"

	"github.com/gin-gonic/gin"
)

// Slider geometry of the payload control
const (
	SliderStep      = 1000
	SliderMarkEvery = 2000
)

// MaxImageSize caps either side of an exported PNG
const MaxImageSize = 4000

// PageTitle is the dashboard heading
const PageTitle = "SpaceX Launch Records Dashboard"

type siteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type sliderConfig struct {
	Min   int        `json:"min"`
	Max   int        `json:"max"`
	Step  int        `json:"step"`
	Marks []int      `json:"marks"`
	Value [2]float64 `json:"value"`
}

type layoutResponse struct {
	Title    string                 `json:"title"`
	Sites    []siteOption           `json:"sites"`
	Slider   sliderConfig           `json:"slider"`
	Controls []controller.ControlID `json:"controls"`
	Outputs  []controller.OutputID  `json:"outputs"`
}

type pageData struct {
	Title         string
	Sites         []siteOption
	Slider        sliderConfig
	Figures       map[controller.OutputID]charts.Figure
	About         template.HTML
	SiteControl   controller.ControlID
	SliderControl controller.ControlID
	PieOutput     controller.OutputID
	ScatterOutput controller.OutputID
}

type callbackRequest struct {
	Trigger controller.ControlID `json:"trigger" binding:"required"`
	Site    string               `json:"site"`
	Payload []float64            `json:"payload"`
}

type figuresResponse struct {
	Outputs map[controller.OutputID]charts.Figure `json:"outputs"`
}

func (s *Server) siteOptions() []siteOption {
	sites := s.app.Table.Sites()
	options := make([]siteOption, 0, len(sites)+1)
	options = append(options, siteOption{Label: launch.AllSitesLabel, Value: string(launch.AllSites)})
	for _, site := range sites {
		options = append(options, siteOption{Label: site, Value: site})
	}
	return options
}

func (s *Server) slider() sliderConfig {
	table := s.app.Table
	upper := table.SliderMax()
	var marks []int
	for m := 0; m <= upper; m += SliderMarkEvery {
		marks = append(marks, m)
	}
	full := table.FullRange()
	return sliderConfig{
		Min:   0,
		Max:   upper,
		Step:  SliderStep,
		Marks: marks,
		Value: [2]float64{full.Low, full.High},
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	updates, err := s.app.Controller.Initial(c.Request.Context(), s.app.Controller.DefaultState())
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.renderTemplate(c, "index.html", pageData{
		Title:         PageTitle,
		Sites:         s.siteOptions(),
		Slider:        s.slider(),
		Figures:       byOutput(updates),
		About:         s.about,
		SiteControl:   controller.SiteDropdown,
		SliderControl: controller.PayloadSlider,
		PieOutput:     controller.PieChart,
		ScatterOutput: controller.ScatterChart,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": s.app.Table.Len(),
	})
}

func (s *Server) handleLayout(c *gin.Context) {
	c.JSON(http.StatusOK, layoutResponse{
		Title:    PageTitle,
		Sites:    s.siteOptions(),
		Slider:   s.slider(),
		Controls: s.app.Controller.Controls(),
		Outputs:  s.app.Controller.Outputs(),
	})
}

func (s *Server) handleFigures(c *gin.Context) {
	state, err := s.stateFromQuery(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	updates, err := s.app.Controller.Initial(c.Request.Context(), state)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, figuresResponse{Outputs: byOutput(updates)})
}

func (s *Server) handleCallback(c *gin.Context) {
	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("invalid callback body: %v", err)))
		return
	}

	state := controller.State{Site: launch.SiteSelection(req.Site), Payload: s.app.Table.FullRange()}
	switch len(req.Payload) {
	case 0:
	case 2:
		state.Payload = launch.PayloadRange{Low: req.Payload[0], High: req.Payload[1]}
	default:
		s.respondError(c, errors.InvalidInput("payload must be a [low, high] pair"))
		return
	}

	updates, err := s.app.Loop.Submit(c.Request.Context(), controller.Event{Trigger: req.Trigger, State: state})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, figuresResponse{Outputs: byOutput(updates)})
}

func (s *Server) handleSummary(c *gin.Context) {
	state, err := s.stateFromQuery(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	state = s.app.Controller.Normalize(state)
	if err := s.app.Controller.Validate(state); err != nil {
		s.respondError(c, err)
		return
	}

	summary, err := analysis.Summarize(s.app.Table, state.Payload, state.Site)
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to summarize launches"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// handleChartPNG renders one output for the query selection as a PNG.
// ?width= and ?height= override the default size.
func (s *Server) handleChartPNG(c *gin.Context) {
	output := controller.OutputID(c.Param("output"))
	known := false
	for _, o := range s.app.Controller.Outputs() {
		known = known || o == output
	}
	if !known {
		s.respondError(c, errors.NotFound(fmt.Sprintf("chart %q", output)))
		return
	}

	state, err := s.stateFromQuery(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	width, err := imageSide(c, "width")
	if err != nil {
		s.respondError(c, err)
		return
	}
	height, err := imageSide(c, "height")
	if err != nil {
		s.respondError(c, err)
		return
	}

	updates, err := s.app.Controller.Initial(c.Request.Context(), state)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.renders.Acquire(c.Request.Context(), 1); err != nil {
		s.respondError(c, err)
		return
	}
	defer s.renders.Release(1)

	var buf bytes.Buffer
	if err := charts.RenderPNG(byOutput(updates)[output], &buf, width, height); err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", string(output)+".png"))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// imageSide reads an optional PNG dimension; empty means the default size
func imageSide(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > MaxImageSize {
		return 0, errors.InvalidInput(fmt.Sprintf("%s must be a whole number of pixels in 1..%d, got %q", key, MaxImageSize, raw))
	}
	return v, nil
}

// stateFromQuery reads ?site=&low=&high=; missing values take the defaults
func (s *Server) stateFromQuery(c *gin.Context) (controller.State, error) {
	state := s.app.Controller.DefaultState()
	if site := c.Query("site"); site != "" {
		state.Site = launch.SiteSelection(site)
	}

	for _, p := range []struct {
		key string
		dst *float64
	}{
		{"low", &state.Payload.Low},
		{"high", &state.Payload.High},
	} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return state, errors.InvalidInput(fmt.Sprintf("%s must be a finite number, got %q", p.key, raw))
		}
		*p.dst = v
	}
	return state, nil
}

func byOutput(updates []controller.Update) map[controller.OutputID]charts.Figure {
	out := make(map[controller.OutputID]charts.Figure, len(updates))
	for _, u := range updates {
		out[u.Output] = u.Figure
	}
	return out
}

// respondError maps an error code to an HTTP status and a JSON body
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch {
	case code == errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case code == errors.CodeNotFound:
		status = http.StatusNotFound
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}

// renderTemplate executes into a buffer so a failed render never sends a
// half-written page
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.respondError(c, errors.Wrapf(err, "template %s failed", templateName))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " kg"
}
