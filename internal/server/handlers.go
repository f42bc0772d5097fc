package server

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"carprice/internal/dataset"
	"carprice/internal/normalize"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// formColumns pairs each submitted form field with the normalized-schema
// column it populates. Order matters: the single-row frame must carry the
// exact column set the transformer was fitted on.
var formColumns = []struct {
	field   string
	column  string
	integer bool
}{
	{field: "Company", column: "Company Name"},
	{field: "CarName", column: normalize.ColCarName},
	{field: "Fuel Type", column: "Fuel Type"},
	{field: "Tyre Condition", column: "Tyre Condition"},
	{field: "Make Year", column: "Make Year", integer: true},
	{field: "Owner Type", column: "Owner Type"},
	{field: "Total_KM_Run", column: normalize.ColTotalKMRun, integer: true},
	{field: "Transmission Type", column: "Transmission Type"},
	{field: "Service Record", column: normalize.ColServiceRecord, integer: true},
	{field: "Insurance", column: normalize.ColInsurance, integer: true},
	{field: "Registration Certificate", column: normalize.ColCertificate, integer: true},
	{field: "Accessories", column: "Accessories"},
	{field: "State Name", column: normalize.ColStateName},
}

// Routes builds the daemon's HTTP handler.
func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /", a.instrument("/", a.handleHome))
	mux.Handle("POST /predict", a.instrument("/predict", a.handlePredict))
	mux.Handle("GET /metrics", a.metrics.Handler())
	return mux
}

// instrument wraps a handler with the request counter and latency histogram.
func (a *App) instrument(endpoint string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.metrics.RequestCount.WithLabelValues(r.Method, endpoint).Inc()
		started := time.Now()
		next(w, r)
		a.metrics.RequestLatency.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
	})
}

func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	a.render(w, "")
}

func (a *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	row, err := a.assembleRow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transformer, forest := a.artifacts()
	matrix, err := transformer.Transform(row)
	if err != nil {
		a.logger.Error("transform failed", slog.Any("error", err))
		http.Error(w, "prediction failed", http.StatusInternalServerError)
		return
	}
	price, err := forest.PredictRow(matrix[0])
	if err != nil {
		a.logger.Error("predict failed", slog.Any("error", err))
		http.Error(w, "prediction failed", http.StatusInternalServerError)
		return
	}

	a.metrics.ObservePrediction(price)
	a.render(w, a.formatPrice(price))
}

// assembleRow converts the submitted form into a single-row frame under the
// normalized column names. Multi-select accessories join into one
// comma-separated value.
func (a *App) assembleRow(r *http.Request) (*dataset.Frame, error) {
	columns := make([]string, len(formColumns))
	cells := make([]string, len(formColumns))
	for i, fc := range formColumns {
		columns[i] = fc.column

		value := strings.TrimSpace(r.PostFormValue(fc.field))
		if fc.field == "Accessories" {
			value = strings.Join(r.PostForm["Accessories"], ",")
		}
		if fc.integer {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("field %q must be an integer", fc.field)
			}
			value = strconv.Itoa(n)
		}
		cells[i] = value
	}

	row := dataset.New(columns...)
	if err := row.AppendRow(cells); err != nil {
		return nil, err
	}
	return row, nil
}

func (a *App) render(w http.ResponseWriter, result string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, map[string]any{"Result": result}); err != nil {
		a.logger.Error("template render failed", slog.Any("error", err))
	}
}
