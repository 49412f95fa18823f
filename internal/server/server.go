// Package server exposes the freelance calculator and the home comparison
// over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/frilans-calc/internal/config"
	"github.com/iwvelando/frilans-calc/internal/forecast"
	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/freelance"
	"github.com/iwvelando/frilans-calc/pkg/home"
	"github.com/iwvelando/frilans-calc/pkg/output"
	"github.com/iwvelando/frilans-calc/pkg/storage"
	"github.com/iwvelando/frilans-calc/pkg/taxtable"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	table         *taxtable.Table
	store         *storage.FileStore
	shareBaseURL  string
}

// NewHandler constructs the HTTP handler that serves the calculator API. A
// nil table uses the embedded tax table.
func NewHandler(logger *zap.Logger, cfg *Config, table *taxtable.Table, version string) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if table == nil {
		var err error
		if table, err = taxtable.Default(); err != nil {
			return nil, err
		}
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		table:         table,
		shareBaseURL:  cfg.ShareBaseURL,
	}
	if cfg.StorageDir != "" {
		h.store = storage.NewFileStore(cfg.StorageDir, logger)
	}

	mux := http.NewServeMux()

	// Report API endpoint (file upload)
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Report API endpoint for editor-driven updates
	mux.HandleFunc("/api/editor/forecast", h.handleForecastEditor)

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("/api/editor/export", h.handleConfigExport)

	mux.HandleFunc("/api/freelance", h.handleFreelance)
	mux.HandleFunc("/api/home", h.handleHome)
	mux.HandleFunc("/api/scenarios", h.handleScenarios)
	mux.HandleFunc("/api/share", h.handleShare)
	mux.HandleFunc("/api/taxtable", h.handleTaxTable)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux, nil
}

type forecastResponse struct {
	Report     *forecast.Report       `json:"report"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type homeRequest struct {
	Scenarios []home.Scenario `json:"scenarios"`
	Years     int             `json:"years"`
}

type shareResponse struct {
	Data string `json:"data"`
	URL  string `json:"url,omitempty"`
}

type taxResponse struct {
	Income   float64                   `json:"income"`
	Tax      *taxtable.IncomeTax       `json:"tax,omitempty"`
	Inverted *taxtable.ReferenceSalary `json:"reference,omitempty"`
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleForecast"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err))
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err))
		return
	}

	h.runForecast(w, configBytes, configMap, start, "server.handleForecast")
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleForecastEditor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	var payload map[string]interface{}
	if err := h.decodeBody(w, r, &payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleForecastEditor")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", "server.handleForecastEditor")
			return
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleForecastEditor")
		return
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err), "server.handleForecastEditor")
		return
	}

	h.runForecast(w, configBytes, configMap, start, "server.handleForecastEditor")
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := h.decodeBody(w, r, &payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// handleFreelance runs the freelance calculator. An empty body uses the
// default inputs.
func (h *handler) handleFreelance(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFreelance"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	inputs := freelance.DefaultInputs()
	if err := h.decodeBody(w, r, &inputs); err != nil && !errors.Is(err, io.EOF) {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode inputs: %v", err), op)
		return
	}

	summary, err := freelance.Calculate(h.table, inputs)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// handleHome compares the posted scenarios, or the stored ones when none
// are posted.
func (h *handler) handleHome(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHome"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req homeRequest
	if err := h.decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode scenarios: %v", err), op)
		return
	}
	if len(req.Scenarios) == 0 && h.store != nil {
		req.Scenarios = h.store.LoadScenarios()
	}
	if len(req.Scenarios) == 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "no scenarios to compare", op)
		return
	}

	results, err := home.NewCalculator(h.logger).CompareScenarios(req.Scenarios, req.Years)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}

func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarios"
	if h.store == nil {
		h.respondErrorWithOp(w, http.StatusNotFound, "scenario storage is not configured", op)
		return
	}

	switch r.Method {
	case http.MethodGet:
		scenarios := h.store.LoadScenarios()
		if scenarios == nil {
			scenarios = []home.Scenario{}
		}
		h.writeJSON(w, http.StatusOK, scenarios)
	case http.MethodPut:
		var scenarios []home.Scenario
		if err := h.decodeBody(w, r, &scenarios); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode scenarios: %v", err), op)
			return
		}
		if err := h.store.SaveScenarios(scenarios); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.store.ClearScenarios(); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// handleShare encodes posted scenarios into a share token (POST) or decodes
// the token in the data query parameter (GET).
func (h *handler) handleShare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleShare"
	switch r.Method {
	case http.MethodPost:
		var scenarios []home.Scenario
		if err := h.decodeBody(w, r, &scenarios); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode scenarios: %v", err), op)
			return
		}
		token, err := storage.EncodeScenarios(scenarios)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		resp := shareResponse{Data: token}
		if h.shareBaseURL != "" {
			if resp.URL, err = storage.ShareURL(h.shareBaseURL, scenarios); err != nil {
				h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
				return
			}
		}
		h.writeJSON(w, http.StatusOK, resp)
	case http.MethodGet:
		scenarios, err := storage.DecodeScenarios(r.URL.Query().Get(storage.ShareParam))
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid share data: %v", err), op)
			return
		}
		h.writeJSON(w, http.StatusOK, scenarios)
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// handleTaxTable resolves the tax for ?income= and inverts ?net= into a
// reference salary.
func (h *handler) handleTaxTable(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleTaxTable"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	if raw := query.Get("net"); raw != "" {
		net, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid net income %q", raw), op)
			return
		}
		reference := h.table.ReferenceSalary(net)
		h.writeJSON(w, http.StatusOK, taxResponse{Income: net, Inverted: &reference})
		return
	}

	income, err := strconv.ParseFloat(query.Get("income"), 64)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "income or net query parameter is required", op)
		return
	}
	tax, err := h.table.ResolveIncomeTax(income)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, taxResponse{Income: income, Tax: &tax})
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "taxTable", "freelance", "homeComparison"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runForecast(w http.ResponseWriter, configBytes []byte, configMap map[string]interface{}, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if cfg.TaxTable.Path != "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, "taxTable.path is not accepted by the server", op)
		return
	}

	// Uploaded configurations never read from or write to the server's disk.
	cfg.HomeComparison.StorageDir = ""
	if cfg.HomeComparison.ShareBaseURL == "" {
		cfg.HomeComparison.ShareBaseURL = h.shareBaseURL
	}

	report, err := forecast.GetForecast(h.logger, *cfg, h.table)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to compute report: %v", err), op)
		return
	}

	var csvBuf bytes.Buffer
	if err := output.CsvFormat(&csvBuf, report); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
		return
	}

	elapsed := time.Since(start)

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := forecastResponse{
		Report:     report,
		CSV:        csvBuf.String(),
		Warnings:   report.Warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("report computed",
		zap.String("op", op),
		zap.Int("scenarios", len(report.Scenarios)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

// decodeBody decodes a size-limited JSON request body into v. An empty body
// returns io.EOF.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	return json.NewDecoder(body).Decode(v)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondErrorWithOp(w, status, msg, "server.handleForecast")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
