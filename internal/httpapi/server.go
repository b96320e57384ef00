package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"genbridge/internal/adapter"
	"genbridge/internal/bridge"
	"genbridge/internal/bundle"
	"genbridge/internal/schema"
	"genbridge/pkg/types"
)

// DefaultMaxTokens is used by POST /v1/generate when max_tokens is omitted.
const DefaultMaxTokens = 100

// Service defines the methods required by the HTTP API layer.
// *adapter.Adapter implements it.
type Service interface {
	bridge.Service
	Generate(ctx context.Context, prompt string, maxTokens int) adapter.Result
	Status() adapter.Status
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: defaultIfEmpty(corsAllowedMethods, []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: defaultIfEmpty(corsAllowedHeaders, []string{"Content-Type", "X-Log-Level", "X-Request-Id"}),
			MaxAge:         300,
		}))
	}

	h := &handlers{svc: svc, ch: bridge.NewChannel(svc, zlog)}

	// API routes share the optional rate limit; probes and metrics do not.
	r.Group(func(r chi.Router) {
		if rateLimitRPS > 0 {
			r.Use(newRateLimiter(rateLimitRPS, rateLimitBurst).Middleware)
		}
		r.Post("/call", h.call)
		r.Route("/v1", func(r chi.Router) {
			r.Post("/load", h.load)
			r.Post("/generate", h.generate)
			r.Get("/status", h.status)
			r.Get("/schema", h.schema)
			r.Get("/models", h.models)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.IsModelLoaded() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(string(svc.Status().State)))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
	ch  *bridge.Channel
}

// requireJSON enforces the JSON content type and the body size limit.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return true
}

// call godoc
// @Summary      Invoke a host method
// @Description  Method-channel envelope: loadModel, generateText, isModelLoaded, getModelInfo.
// @Tags         bridge
// @Accept       json
// @Produce      json
// @Param        request  body      types.CallRequest  true  "Method call"
// @Success      200      {object}  types.CallResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      501      {object}  types.ErrorResponse
// @Router       /call [post]
func (h *handlers) call(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var req types.CallRequest
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	lvl := requestLogLevel(r)
	op := "call " + req.Method
	logStart(r, lvl, op)
	start := time.Now()

	ctx, cancel := requestContext(r)
	defer cancel()
	res, err := h.ch.Call(ctx, bridge.Call{Method: req.Method, Arguments: req.Arguments})
	if err != nil {
		status := writeCallError(w, err)
		logEnd(r, lvl, op, status, start, err)
		return
	}
	writeJSON(w, http.StatusOK, types.CallResponse{Result: callResult(res)})
	logEnd(r, lvl, op, http.StatusOK, start, nil)
}

// callResult converts adapter values into wire types.
func callResult(res any) any {
	if d, ok := res.(*adapter.Details); ok {
		if d == nil {
			return nil
		}
		return schemaResponse(*d)
	}
	return res
}

// load godoc
// @Summary      Load the model
// @Description  Loads (or reloads) the configured model and reports whether it succeeded.
// @Tags         model
// @Produce      json
// @Success      200  {object}  types.LoadResponse
// @Router       /v1/load [post]
func (h *handlers) load(w http.ResponseWriter, r *http.Request) {
	lvl := requestLogLevel(r)
	logStart(r, lvl, "load")
	start := time.Now()

	ctx, cancel := requestContext(r)
	defer cancel()
	if loadWaitTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, loadWaitTimeout)
		defer tcancel()
	}
	ok := h.svc.LoadModel(ctx)
	st := h.svc.Status()
	resp := types.LoadResponse{Loaded: ok, State: string(st.State)}
	var err error
	if !ok {
		resp.Error = st.LastError
		if ctx.Err() != nil {
			resp.Error = "load still in progress"
		}
		if resp.Error != "" {
			err = errors.New(resp.Error)
		}
	}
	writeJSON(w, http.StatusOK, resp)
	logEnd(r, lvl, "load", http.StatusOK, start, err)
}

// generate godoc
// @Summary      Generate text
// @Description  Produces one reply. Never fails for model reasons; fallbacks are tagged with a reason.
// @Tags         model
// @Accept       json
// @Produce      json
// @Param        request  body      types.GenerateRequest  true  "Generation request"
// @Success      200      {object}  types.GenerateResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Router       /v1/generate [post]
func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Prompt == nil {
		writeJSONError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	maxTokens := DefaultMaxTokens
	if req.MaxTokens != nil {
		if *req.MaxTokens < 0 {
			writeJSONError(w, http.StatusBadRequest, "max_tokens must be >= 0")
			return
		}
		maxTokens = *req.MaxTokens
	}
	lvl := requestLogLevel(r)
	logStart(r, lvl, "generate")
	start := time.Now()

	res := h.svc.Generate(r.Context(), *req.Prompt, maxTokens)
	writeJSON(w, http.StatusOK, types.GenerateResponse{
		Text:       res.Text,
		Outcome:    string(res.Outcome),
		Reason:     string(res.Reason),
		CallID:     res.CallID,
		DurationMS: res.Duration.Milliseconds(),
	})
	logDebug(r, lvl, "generate reply", map[string]any{"call_id": res.CallID, "text": res.Text, "reason": string(res.Reason)})
	logEnd(r, lvl, "generate", http.StatusOK, start, nil)
}

// status godoc
// @Summary      Adapter status
// @Tags         model
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /v1/status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Status()
	resp := types.StatusResponse{
		State:         string(st.State),
		Reloading:     st.Reloading,
		LastError:     st.LastError,
		Loads:         st.Loads,
		LoadFailures:  st.LoadFailures,
		Generations:   st.Generations,
		Fallbacks:     st.Fallbacks,
		Inflight:      st.Inflight,
		UptimeSeconds: st.UptimeSeconds,
	}
	if st.Model != nil {
		resp.Model = &types.ModelInfo{Backend: st.Model.Backend, Path: st.Model.Path, Summary: st.Model.Summary}
	}
	writeJSON(w, http.StatusOK, resp)
}

// schema godoc
// @Summary      Loaded model schema
// @Tags         model
// @Produce      json
// @Success      200  {object}  types.SchemaResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /v1/schema [get]
func (h *handlers) schema(w http.ResponseWriter, r *http.Request) {
	d, ok := h.svc.ModelInfo()
	if !ok {
		writeJSONError(w, http.StatusServiceUnavailable, "model not loaded")
		return
	}
	writeJSON(w, http.StatusOK, schemaResponse(d))
}

// models godoc
// @Summary      List bundle artifacts
// @Tags         model
// @Produce      json
// @Success      200  {object}  types.ArtifactsResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /v1/models [get]
func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	resp := types.ArtifactsResponse{Models: []types.Artifact{}}
	if bundleDir != "" {
		arts, err := bundle.List(bundleDir)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, a := range arts {
			resp.Models = append(resp.Models, types.Artifact{Name: a.Name, Path: a.Path, Backend: a.Backend})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func schemaResponse(d adapter.Details) types.SchemaResponse {
	return types.SchemaResponse{
		Model:   types.ModelInfo{Backend: d.Info.Backend, Path: d.Info.Path, Summary: d.Info.Summary},
		Inputs:  featureInfos(d.Schema.Inputs),
		Outputs: featureInfos(d.Schema.Outputs),
	}
}

func featureInfos(fs []schema.Feature) []types.FeatureInfo {
	out := make([]types.FeatureInfo, 0, len(fs))
	for _, f := range fs {
		out = append(out, types.FeatureInfo{Name: f.Name, Kind: f.Kind.String(), ElemType: f.ElemType, Shape: f.Shape})
	}
	return out
}

func defaultIfEmpty(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}
