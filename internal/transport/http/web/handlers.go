package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"loanpredict/internal/config"
	"loanpredict/internal/features"
	"loanpredict/internal/logger"
	"loanpredict/internal/model"
	"loanpredict/internal/predict"
	"loanpredict/internal/registry"
	"loanpredict/internal/render"

	"github.com/gin-gonic/gin"
)

type handler struct {
	ui     config.UIConfig
	models []string
	svc    *predict.Service
}

// applicantForm is the posted form. Numeric bounds are checked here, closed
// sets by features.ApplicantInput.Validate.
type applicantForm struct {
	Model             string  `form:"model" binding:"required"`
	ApplicantIncome   float64 `form:"applicant_income" binding:"gte=0"`
	CoapplicantIncome float64 `form:"coapplicant_income" binding:"gte=0"`
	LoanAmount        float64 `form:"loan_amount" binding:"gte=0"`
	LoanAmountTerm    int     `form:"loan_amount_term" binding:"required"`
	CreditHistory     string  `form:"credit_history" binding:"required"`
	Gender            string  `form:"gender" binding:"required"`
	Married           string  `form:"married" binding:"required"`
	Dependents        string  `form:"dependents" binding:"required"`
	Education         string  `form:"education" binding:"required"`
	SelfEmployed      string  `form:"self_employed" binding:"required"`
	PropertyArea      string  `form:"property_area" binding:"required"`
}

func (f applicantForm) input() (features.ApplicantInput, error) {
	credit, err := strconv.ParseFloat(strings.TrimSpace(f.CreditHistory), 64)
	if err != nil {
		return features.ApplicantInput{}, features.ErrInvalidInput
	}
	return features.ApplicantInput{
		ApplicantIncome:   f.ApplicantIncome,
		CoapplicantIncome: f.CoapplicantIncome,
		LoanAmount:        f.LoanAmount,
		LoanAmountTerm:    f.LoanAmountTerm,
		CreditHistory:     credit,
		Gender:            f.Gender,
		Married:           f.Married,
		Dependents:        f.Dependents,
		Education:         f.Education,
		SelfEmployed:      f.SelfEmployed,
		PropertyArea:      f.PropertyArea,
	}, nil
}

// pageView feeds index.html.
type pageView struct {
	UI         config.UIConfig
	About      []string
	Models     []string
	Selected   string
	LoadError  string
	ShowForm   bool
	Columns    [2][]features.Field
	Values     map[string]string
	InputError string
	Panel      *render.Panel
}

func (h *handler) newPage(selected string) *pageView {
	v := &pageView{
		UI:       h.ui,
		About:    h.ui.AboutLines(),
		Models:   h.models,
		Selected: selected,
		Values:   features.FormValues(features.DefaultInput()),
	}
	for _, f := range features.Fields() {
		v.Columns[f.Column] = append(v.Columns[f.Column], f)
	}
	return v
}

func (h *handler) index(c *gin.Context) {
	name := strings.TrimSpace(c.Query("model"))
	if name == "" {
		name = h.models[0]
	}
	page := h.newPage(name)
	if _, _, err := h.svc.Load(c.Request.Context(), name); err != nil {
		h.renderLoadError(c, page, err)
		return
	}
	page.ShowForm = true
	c.HTML(http.StatusOK, "index.html", page)
}

func (h *handler) predict(c *gin.Context) {
	var form applicantForm
	if err := c.ShouldBind(&form); err != nil {
		page := h.newPage(strings.TrimSpace(c.PostForm("model")))
		if page.Selected == "" {
			page.Selected = h.models[0]
		}
		page.ShowForm = true
		page.InputError = "Some applicant fields are missing or out of range."
		logger.Warnf("[web] form rejected ip=%s err=%v", c.ClientIP(), err)
		c.HTML(http.StatusBadRequest, "index.html", page)
		return
	}
	page := h.newPage(form.Model)
	in, err := form.input()
	if err == nil {
		page.Values = features.FormValues(in)
		var res predict.Result
		res, err = h.svc.Predict(c.Request.Context(), form.Model, in)
		if err == nil {
			page.ShowForm = true
			page.Panel = h.panel(res)
			c.HTML(http.StatusOK, "index.html", page)
			return
		}
	}
	switch {
	case errors.Is(err, model.ErrArtifactMissing), errors.Is(err, registry.ErrUnknownModel), errors.Is(err, model.ErrInvalidArtifact):
		h.renderLoadError(c, page, err)
	case errors.Is(err, features.ErrInvalidInput):
		page.ShowForm = true
		page.InputError = err.Error()
		c.HTML(http.StatusBadRequest, "index.html", page)
	default:
		logger.Errorf("[web] prediction failed model=%s ip=%s err=%v", form.Model, c.ClientIP(), err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"UI":      h.ui,
			"Title":   "Prediction failed",
			"Message": err.Error(),
			"Back":    "/?model=" + form.Model,
		})
	}
}

func (h *handler) panel(res predict.Result) *render.Panel {
	p := render.NewPanel(res)
	gauge, err := render.Gauge(p, res.ConfidencePercent)
	if err != nil {
		logger.Warnf("[web] %v", err)
	} else {
		p.Gauge = gauge
	}
	return &p
}

// renderLoadError halts the page after the selector: no form is shown.
func (h *handler) renderLoadError(c *gin.Context, page *pageView, err error) {
	page.ShowForm = false
	page.Panel = nil
	status := http.StatusInternalServerError
	var missing *model.MissingArtifactError
	switch {
	case errors.As(err, &missing):
		status = http.StatusServiceUnavailable
		page.LoadError = "Model file `" + missing.File() + "` not found. Please upload it."
		logger.Errorf("[web] model %q unavailable: %v", page.Selected, err)
	case errors.Is(err, registry.ErrUnknownModel):
		status = http.StatusNotFound
		page.LoadError = "Unknown model \"" + page.Selected + "\". Pick one from the list."
	default:
		page.LoadError = "Model \"" + page.Selected + "\" could not be loaded: " + err.Error()
		logger.Errorf("[web] model %q failed to load: %v", page.Selected, err)
	}
	c.HTML(status, "index.html", page)
}
