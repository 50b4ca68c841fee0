package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"PRNG/auditlog"
	"PRNG/drbg"
	"PRNG/entropy"
	"PRNG/prng"
	"PRNG/receipt"
	"PRNG/util"
)

type randomRequest struct {
	ClientEntropy entropy.Triple `json:"client_entropy"`
	OracleEntropy entropy.Triple `json:"oracle_entropy"`
	Length        uint64         `json:"length"`
}

// provingRequest keeps the byte fields as strings so undecodable hex is a
// failed proof rather than a bad request.
type provingRequest struct {
	Result string `json:"result"`
	S1     string `json:"s1"`
	S2     string `json:"s2"`
	Length uint64 `json:"length"`
}

type provingResponse struct {
	Valid bool `json:"valid"`
}

type verifyRecordResponse struct {
	Index uint64 `json:"index"`
	Valid bool   `json:"valid"`
}

type listResponse struct {
	Records []auditlog.Record `json:"records"`
	Total   uint64            `json:"total"`
}

type statusResponse struct {
	Records     uint64    `json:"records"`
	Subscribers int       `json:"subscribers"`
	Dropped     uint64    `json:"dropped"`
	Time        time.Time `json:"time"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	var req randomRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Length > s.maxLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("api: length %d exceeds maximum %d", req.Length, s.maxLength))
		return
	}

	rec, err := s.svc.Generate(r.Context(), req.ClientEntropy, req.OracleEntropy, req.Length)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, rec)
	case errors.Is(err, drbg.ErrInvalidLength),
		errors.Is(err, drbg.ErrLengthTooLarge),
		errors.Is(err, entropy.ErrInvalidClientEntropy),
		errors.Is(err, entropy.ErrInvalidOracleEntropy):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("generate failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleProving(w http.ResponseWriter, r *http.Request) {
	var req provingRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	valid := prng.VerifyHex(req.Result, req.S1, req.S2, req.Length)
	writeJSON(w, http.StatusOK, provingResponse{Valid: valid})
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := queryUint(q.Get("from"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from: "+err.Error())
		return
	}
	limit, err := queryUint(q.Get("limit"), defaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit: "+err.Error())
		return
	}
	limit = min(max(limit, 1), maxPageSize)

	log := s.svc.Log()
	total, err := log.Len()
	if err != nil {
		s.internalError(w, "count records", err)
		return
	}
	records := make([]auditlog.Record, 0, min(limit, total))
	err = log.Iterate(from, func(rec auditlog.Record) error {
		records = append(records, rec)
		if uint64(len(records)) >= limit {
			return auditlog.ErrStop
		}
		return nil
	})
	if err != nil {
		s.internalError(w, "list records", err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Records: records, Total: total})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	size, err := queryUint(r.URL.Query().Get("size"), receipt.DefaultSize)
	if err != nil || size < receipt.MinSize || size > receipt.MaxSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("size must be between %d and %d", receipt.MinSize, receipt.MaxSize))
		return
	}
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	png, err := receipt.PNG(rec, int(size))
	if err != nil {
		s.internalError(w, "render receipt", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}

func (s *Server) handleVerifyRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, verifyRecordResponse{
		Index: rec.Index,
		Valid: prng.Verify(rec.Result, rec.S1, rec.S2, rec.Length),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	total, err := s.svc.Log().Len()
	if err != nil {
		s.internalError(w, "count records", err)
		return
	}
	feed := s.svc.Feed()
	writeJSON(w, http.StatusOK, statusResponse{
		Records:     total,
		Subscribers: feed.Subscribers(),
		Dropped:     feed.Dropped(),
		Time:        util.CurrentTimeUTC(),
	})
}

// lookup resolves the {index} path value, writing the error response itself
// when it fails.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (auditlog.Record, bool) {
	index, err := strconv.ParseUint(r.PathValue("index"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record index")
		return auditlog.Record{}, false
	}
	rec, err := s.svc.Log().Get(index)
	switch {
	case err == nil:
		return rec, true
	case errors.Is(err, auditlog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.internalError(w, "get record", err)
	}
	return auditlog.Record{}, false
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func queryUint(raw string, def uint64) (uint64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
