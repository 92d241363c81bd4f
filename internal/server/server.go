package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/copyleftdev/ROUTR/internal/config"
	"github.com/copyleftdev/ROUTR/internal/logging"
	"github.com/copyleftdev/ROUTR/internal/solver"
)

// Logger defines the logging interface used by the server
// This allows us to be flexible with our logging implementation
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// JobState tracks one solve job from submission to a terminal state.
// It is stored in the server's registry and read concurrently by the
// status endpoints.
type JobState struct {
	ID          string
	Status      string // "pending", "running", "completed", "failed", "cancelled"
	StartTime   time.Time
	EndTime     *time.Time
	Nodes       int
	Config      solver.Config
	Solver      solver.Solver
	Result      *solver.Result
	FailReason  string
	CancelFunc  context.CancelFunc
	LastUpdated time.Time
}

// Server exposes the shotgun solver over HTTP and JSON-RPC. It manages
// solve jobs and provides endpoints to start, monitor, and cancel them.
type Server struct {
	cfg    *config.Config
	logger Logger

	// Job registry
	jobs   map[string]*JobState
	jobsMu sync.RWMutex // Protects the jobs map
}

// NewServer creates a new server instance with the given config and logger
func NewServer(cfg *config.Config, logger Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		jobs:   make(map[string]*JobState),
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/solve/{id}", s.handleCancel)
	})

	// JSON-RPC 2.0 endpoint
	r.Post("/rpc", s.handleJSONRPC)
}

// solveRequest is the submission payload shared by the HTTP and JSON-RPC
// surfaces. Iterations, restarts and workers fall back to the configured
// defaults when omitted.
type solveRequest struct {
	Matrix     [][]float64 `json:"matrix"`
	Iterations *int        `json:"iterations,omitempty"`
	Restarts   *int        `json:"restarts,omitempty"`
	Seed       uint64      `json:"seed"`
	Workers    *int        `json:"workers,omitempty"`
}

// handleJSONRPC handles JSON-RPC 2.0 requests
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var request struct {
		JSONRPC string            `json:"jsonrpc"`
		ID      interface{}       `json:"id"`
		Method  string            `json:"method"`
		Params  []json.RawMessage `json:"params,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.respondWithError(w, -32700, "Parse error", nil)
		return
	}

	// Validate JSON-RPC 2.0 request
	if request.JSONRPC != "2.0" {
		s.respondWithError(w, -32600, "Invalid Request", nil)
		return
	}

	// Route to appropriate handler
	var result interface{}
	var err error

	switch request.Method {
	case "solve.start":
		result, err = s.handleSolveStart(request.Params)
	case "solve.status":
		result, err = s.handleSolveStatus(request.Params)
	case "solve.cancel":
		err = s.handleSolveCancel(request.Params)
	default:
		s.respondWithError(w, -32601, "Method not found", request.ID)
		return
	}

	if err != nil {
		s.respondWithError(w, -32000, err.Error(), request.ID)
		return
	}

	// Send successful response
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.ID,
		"result":  result,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleSolveStart handles the solve.start JSON-RPC method.
// Expected parameters: {"matrix": [[0,1],[1,0]], "restarts": 8, "seed": 42}
// Returns: {"job_id": "job_123", "status": "pending"}
func (s *Server) handleSolveStart(params []json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing required parameters")
	}

	var req solveRequest
	if err := json.Unmarshal(params[0], &req); err != nil {
		return nil, fmt.Errorf("invalid parameter format, expected object: %v", err)
	}

	id, err := s.startJob(&req)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"job_id": id,
		"status": "pending",
	}, nil
}

// jobIDParams carries the single job identifier used by status and cancel.
type jobIDParams struct {
	JobID string `json:"job_id"`
}

// handleSolveStatus handles the solve.status JSON-RPC method.
// Expected parameters: {"job_id": "job_123"}
func (s *Server) handleSolveStatus(params []json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing required parameters")
	}

	var p jobIDParams
	if err := json.Unmarshal(params[0], &p); err != nil || p.JobID == "" {
		return nil, fmt.Errorf("job_id is required")
	}

	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	state, exists := s.jobs[p.JobID]
	if !exists {
		return nil, fmt.Errorf("job not found")
	}

	response := map[string]interface{}{
		"status":      state.Status,
		"nodes":       state.Nodes,
		"restarts":    state.Config.Restarts,
		"iterations":  state.Config.Iterations,
		"seed":        state.Config.Seed,
		"start_time":  state.StartTime.Format(time.RFC3339),
		"last_update": state.LastUpdated.Format(time.RFC3339),
	}

	// Add end time if available
	if state.EndTime != nil {
		response["end_time"] = state.EndTime.Format(time.RFC3339)
	}
	if state.FailReason != "" {
		response["error"] = state.FailReason
	}

	// Best solution seen so far, even while the job is still running
	if state.Solver != nil {
		if best := state.Solver.BestSolution(); best != nil {
			response["best_solution"] = map[string]interface{}{
				"tour":   best.Tour,
				"length": best.Length,
			}
		}
	}

	// Per-restart reports once the job has finished
	if state.Result != nil {
		converged := 0
		for _, run := range state.Result.Runs {
			if run.Converged {
				converged++
			}
		}
		response["runs_executed"] = state.Result.Restarts
		response["runs_converged"] = converged
	}

	return response, nil
}

// handleSolveCancel handles the solve.cancel JSON-RPC method.
// Expected parameters: {"job_id": "job_123"}
func (s *Server) handleSolveCancel(params []json.RawMessage) error {
	if len(params) == 0 {
		return fmt.Errorf("missing required parameters")
	}

	var p jobIDParams
	if err := json.Unmarshal(params[0], &p); err != nil || p.JobID == "" {
		return fmt.Errorf("job_id is required")
	}

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	state, exists := s.jobs[p.JobID]
	if !exists {
		return fmt.Errorf("job not found")
	}

	switch state.Status {
	case "completed", "failed", "cancelled":
		// Already in a terminal state
		return fmt.Errorf("cannot cancel job with status: %s", state.Status)
	}

	// Cancel the job
	if state.CancelFunc != nil {
		state.CancelFunc()
	}

	// Update state
	state.Status = "cancelled"
	now := time.Now()
	state.EndTime = &now
	state.LastUpdated = now

	s.logger.Info("Solve job cancelled", map[string]interface{}{
		"job_id": p.JobID,
	})

	return nil
}

// startJob validates a submission, registers the job and launches the
// solver in a goroutine.
func (s *Server) startJob(req *solveRequest) (string, error) {
	if len(req.Matrix) == 0 {
		return "", fmt.Errorf("matrix is required")
	}
	if max := s.cfg.Solver.MaxNodes; max > 0 && len(req.Matrix) > max {
		return "", fmt.Errorf("matrix has %d rows, limit is %d", len(req.Matrix), max)
	}

	model, err := solver.NewDistanceModel(req.Matrix)
	if err != nil {
		return "", fmt.Errorf("invalid matrix: %v", err)
	}

	cfg := solver.Config{
		Iterations: s.cfg.Solver.DefaultIterations,
		Restarts:   s.cfg.Solver.DefaultRestarts,
		Seed:       req.Seed,
		Workers:    s.cfg.Solver.Workers,
	}
	if req.Iterations != nil {
		cfg.Iterations = *req.Iterations
	}
	if req.Restarts != nil {
		cfg.Restarts = *req.Restarts
	}
	if req.Workers != nil {
		cfg.Workers = *req.Workers
	}

	shotgun, err := solver.NewShotgunSolver(model, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create solver: %v", err)
	}

	// Generate a unique ID for this job
	id := fmt.Sprintf("job_%d", time.Now().UnixNano())

	// Create a cancellable context
	ctx, cancel := context.WithCancel(context.Background())

	state := &JobState{
		ID:          id,
		Status:      "pending",
		StartTime:   time.Now(),
		Nodes:       model.Len(),
		Config:      cfg,
		Solver:      shotgun,
		CancelFunc:  cancel,
		LastUpdated: time.Now(),
	}

	s.jobsMu.Lock()
	s.jobs[id] = state
	s.jobsMu.Unlock()

	jobsStarted.Inc()

	go s.runJob(ctx, state)

	return id, nil
}

// runJob executes the solve in a goroutine and records the outcome.
func (s *Server) runJob(ctx context.Context, state *JobState) {
	s.jobsMu.Lock()
	state.Status = "running"
	state.LastUpdated = time.Now()
	s.jobsMu.Unlock()

	start := time.Now()
	result, err := state.Solver.Solve(ctx)
	elapsed := time.Since(start)

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	switch {
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		// The cancel endpoint moves the job to "cancelled" itself, but a
		// shutdown via Close only fires the context; make sure the job
		// still lands in a terminal state either way.
		switch state.Status {
		case "completed", "failed", "cancelled":
		default:
			state.Status = "cancelled"
		}
		jobsFinished.WithLabelValues("cancelled").Inc()
		s.logger.Info("Solve job aborted", map[string]interface{}{
			"job_id": state.ID,
		})
	case err != nil:
		state.Status = "failed"
		state.FailReason = err.Error()
		jobsFinished.WithLabelValues("failed").Inc()
		s.logger.Error("Solve job failed", map[string]interface{}{
			"job_id": state.ID,
			"error":  err.Error(),
		})
	default:
		state.Status = "completed"
		state.Result = result
		jobsFinished.WithLabelValues("completed").Inc()
		restartsRun.Add(float64(result.Restarts))
		solveDuration.Observe(elapsed.Seconds())
		s.logger.Info("Solve job completed", map[string]interface{}{
			"job_id":      state.ID,
			"nodes":       state.Nodes,
			"restarts":    result.Restarts,
			"best_length": result.Best.Length,
			"elapsed":     elapsed.String(),
		})
	}

	now := time.Now()
	state.EndTime = &now
	state.LastUpdated = now
}

// respondWithError sends a JSON-RPC 2.0 error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Error("Request error", map[string]interface{}{
		"status":  code,
		"message": message,
	})

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
		"id": id,
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Close cleans up resources
func (s *Server) Close() error {
	// Cancel all running jobs
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	for _, job := range s.jobs {
		if job.CancelFunc != nil {
			job.CancelFunc()
		}
	}
	return nil
}

// handleSolve handles POST /api/v1/solve for starting a new job
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	id, err := s.startJob(&req)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id": id,
		"status": "pending",
	})
}

// handleStatus handles GET /api/v1/status/{id}
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		http.Error(w, "Missing job ID", http.StatusBadRequest)
		return
	}

	result, err := s.handleSolveStatus([]json.RawMessage{mustMarshal(jobIDParams{JobID: jobID})})

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// handleCancel handles DELETE /api/v1/solve/{id}
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		http.Error(w, "Missing job ID", http.StatusBadRequest)
		return
	}

	err := s.handleSolveCancel([]json.RawMessage{mustMarshal(jobIDParams{JobID: jobID})})

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "cancellation requested",
	})
}

// mustMarshal marshals values that cannot fail (plain structs of strings).
func mustMarshal(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
