// Package server exposes the simulation engine over HTTP together with the
// embedded web UI that collects inputs and charts the result.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/finsim/overpay-forecast/internal/config"
	"github.com/finsim/overpay-forecast/internal/simulation"
	"github.com/finsim/overpay-forecast/pkg/annuity"
	"github.com/finsim/overpay-forecast/pkg/constants"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the web UI and simulation API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Simulation API endpoint
	mux.HandleFunc("/api/simulate", h.handleSimulate)

	// Scenario serialization endpoint for config downloads
	mux.HandleFunc("/api/export", h.handleExport)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type simulateRequest struct {
	Principal      float64   `json:"principal"`
	TermMonths     int       `json:"termMonths"`
	MonthlyPayment float64   `json:"monthlyPayment"`
	Rates          []float64 `json:"rates"`
}

type simulateResponse struct {
	PaidOff           bool      `json:"paidOff"`
	PayoffMonths      int       `json:"payoffMonths"`
	PayoffYears       float64   `json:"payoffYears"`
	RemainingBalance  float64   `json:"remainingBalance,omitempty"`
	TotalInterest     float64   `json:"totalInterest"`
	TotalOverpayments float64   `json:"totalOverpayments"`
	BenchmarkPayment  float64   `json:"benchmarkPayment"`
	CapExceeded       bool      `json:"capExceeded"`
	Chart             chartData `json:"chart"`
	Warnings          []string  `json:"warnings,omitempty"`
	Duration          string    `json:"duration"`
}

// chartData carries one point per month: x values in elapsed years, interest
// and payment on one scale, remaining balance on a second scale.
type chartData struct {
	Years    []float64 `json:"years"`
	Interest []float64 `json:"interest"`
	Payment  []float64 `json:"payment"`
	Balance  []float64 `json:"balance"`
}

type errorResponse struct {
	Error            string  `json:"error"`
	Month            int     `json:"month,omitempty"`
	Shortfall        float64 `json:"shortfall,omitempty"`
	InterestDue      float64 `json:"interestDue,omitempty"`
	BenchmarkPayment float64 `json:"benchmarkPayment,omitempty"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req simulateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Debug("rejecting malformed simulate request",
			zap.String("op", "server.handleSimulate"),
			zap.Error(err),
		)
		writeJSONError(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})
		return
	}

	input := simulation.Input{
		Principal:      req.Principal,
		TermMonths:     req.TermMonths,
		MonthlyPayment: req.MonthlyPayment,
		RateSchedule:   annuity.RateSchedule(req.Rates),
	}

	result, err := simulation.Run(h.logger, input)
	if err != nil {
		var infeasible *simulation.InfeasibleError
		if errors.As(err, &infeasible) {
			writeJSONError(w, http.StatusUnprocessableEntity, errorResponse{
				Error:            infeasible.Error(),
				Month:            infeasible.Month,
				Shortfall:        infeasible.Shortfall(),
				InterestDue:      infeasible.Interest,
				BenchmarkPayment: infeasible.BenchmarkPayment,
			})
			return
		}
		writeJSONError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	conf := config.Configuration{Loan: config.Loan{
		Principal:      req.Principal,
		TermMonths:     req.TermMonths,
		MonthlyPayment: req.MonthlyPayment,
		Rates:          req.Rates,
	}}

	resp := simulateResponse{
		PaidOff:           result.PaidOff,
		PayoffMonths:      result.PayoffMonths,
		PayoffYears:       float64(result.PayoffMonths) / constants.MonthsPerYear,
		RemainingBalance:  result.RemainingBalance,
		TotalInterest:     result.TotalInterest,
		TotalOverpayments: result.TotalOverpayments,
		BenchmarkPayment:  result.BenchmarkPayment,
		CapExceeded:       result.CapExceeded,
		Chart:             buildChart(result),
		Warnings:          conf.ValidateConfiguration(),
		Duration:          time.Since(start).String(),
	}

	writeJSON(w, http.StatusOK, resp)
}

func buildChart(result *simulation.Result) chartData {
	chart := chartData{
		Years:    make([]float64, 0, len(result.Months)),
		Interest: make([]float64, 0, len(result.Months)),
		Payment:  make([]float64, 0, len(result.Months)),
		Balance:  make([]float64, 0, len(result.Months)),
	}
	for _, record := range result.Months {
		chart.Years = append(chart.Years, float64(record.Month)/constants.MonthsPerYear)
		chart.Interest = append(chart.Interest, record.Interest)
		chart.Payment = append(chart.Payment, record.Payment)
		chart.Balance = append(chart.Balance, record.Balance)
	}
	return chart
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var req simulateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})
		return
	}

	conf := config.Configuration{Loan: config.Loan{
		Principal:      req.Principal,
		TermMonths:     req.TermMonths,
		MonthlyPayment: req.MonthlyPayment,
		Rates:          req.Rates,
	}}

	data, err := yaml.Marshal(conf)
	if err != nil {
		h.logger.Error("failed to serialize scenario",
			zap.String("op", "server.handleExport"),
			zap.Error(err),
		)
		writeJSONError(w, http.StatusInternalServerError, errorResponse{Error: "failed to serialize scenario"})
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="config.yaml"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, payload errorResponse) {
	writeJSON(w, status, payload)
}
