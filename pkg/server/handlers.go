package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/errors"
	pkgio "github.com/matzehuels/tapegraph/pkg/io"
	"github.com/matzehuels/tapegraph/pkg/pipeline"
)

type simulateRequest struct {
	Machine   string `json:"machine"`
	Format    string `json:"format,omitempty"`
	Input     string `json:"input"`
	InputTape int    `json:"input_tape,omitempty"`
	MaxSteps  int    `json:"max_steps,omitempty"`
	Lineage   string `json:"lineage,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

type simulateResponse struct {
	*pipeline.SimulateResult
	Graph json.RawMessage `json:"graph"`
}

type validateResponse struct {
	Validity     string       `json:"validity"`
	Valid        bool         `json:"valid"`
	IsolatedNode *dag.NodeID  `json:"isolated_node,omitempty"`
	Acyclic      bool         `json:"acyclic"`
	Cycle        []dag.NodeID `json:"cycle,omitempty"`
	Nodes        int          `json:"nodes"`
	Edges        int          `json:"edges"`
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if strings.TrimSpace(req.Machine) == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "machine is required"))
		return
	}

	def, err := pkgio.DecodeMachine(strings.NewReader(req.Machine), req.Format)
	if err != nil {
		s.writeError(w, machineError(err))
		return
	}
	m, err := def.Build(0)
	if err != nil {
		s.writeError(w, machineError(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	res, err := s.runner.Simulate(ctx, pipeline.SimulateOptions{
		Machine:   m,
		Input:     req.Input,
		InputTape: req.InputTape,
		MaxSteps:  req.MaxSteps,
		Lineage:   req.Lineage,
		Refresh:   req.Refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(res.Graph, &buf); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode graph"))
		return
	}
	w.Header().Set(HeaderRunID, res.RunID)
	writeJSON(w, http.StatusOK, simulateResponse{SimulateResult: res, Graph: buf.Bytes()})
}

func (s *Server) handlePebble(w http.ResponseWriter, r *http.Request) {
	g, err := readGraph(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	res, err := s.runner.Pebble(ctx, g, pipeline.PebbleOptions{
		Strategy: r.URL.Query().Get("strategy"),
		Refresh:  r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set(HeaderRunID, res.RunID)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	g, err := readGraph(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	v := g.Validate()
	resp := validateResponse{
		Validity: v.String(),
		Valid:    v.Valid(),
		Acyclic:  true,
		Nodes:    g.NodeCount(),
		Edges:    g.EdgeCount(),
	}
	if v.Kind == dag.IsolatedNode {
		resp.IsolatedNode = &v.Node
	}
	if _, err := g.TopologicalOrder(); err != nil {
		resp.Acyclic = false
		var ce *dag.CycleError
		if stderrors.As(err, &ce) {
			resp.Cycle = ce.Remaining
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func readGraph(w http.ResponseWriter, r *http.Request) (*dag.Graph, error) {
	g, err := pkgio.ReadJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read graph")
	}
	return g, nil
}

// machineError keeps the code of build failures and classifies parse
// failures.
func machineError(err error) error {
	if errors.GetCode(err) != "" {
		return err
	}
	if stderrors.Is(err, pkgio.ErrUnsupportedFormat) {
		return errors.Wrap(errors.ErrCodeUnsupported, err, "machine format")
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse machine")
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.GetCode(err) == "" && stderrors.Is(err, context.DeadlineExceeded) {
		err = errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
	}
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	var e *errors.Error
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "error", err)
	} else if stderrors.As(err, &e) && e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
