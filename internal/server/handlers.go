package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/applicant-screener/internal/logger"
	"github.com/jonathan/applicant-screener/internal/matching"
	"github.com/jonathan/applicant-screener/internal/types"
)

// maxJSONBytes caps JSON request bodies.
const maxJSONBytes = 1 << 20

// ReportIDHeader carries the stored report ID when an evaluation is persisted.
const ReportIDHeader = "X-Report-ID"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// ObjectRef names a document in object storage.
type ObjectRef struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	CandidateID string `json:"candidate_id,omitempty"`
}

// handleParseDocument accepts a multipart upload in the "file" field or a JSON
// object reference. When candidate_id is given and a database is configured the
// result is stored on the candidate.
func (s *Server) handleParseDocument(w http.ResponseWriter, r *http.Request) {
	var (
		name        string
		data        []byte
		candidateID string
		err         error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		name, data, candidateID, err = s.readUpload(w, r)
	case "application/json":
		name, data, candidateID, err = s.readObject(w, r)
	default:
		err = &ErrValidation{Field: "content-type", Message: "expected multipart/form-data or application/json"}
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	result := s.svc.ParseBytes(r.Context(), name, data)

	if candidateID != "" && s.store != nil {
		if err := s.store.SaveParsedResume(r.Context(), candidateID, result); err != nil {
			s.fail(w, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, "", &ErrValidation{Field: "file", Message: "upload exceeds size limit"}
		}
		return "", nil, "", &ErrValidation{Field: "file", Message: "missing file upload"}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, "", &ErrValidation{Field: "file", Message: "failed to read upload"}
	}
	return header.Filename, data, r.FormValue("candidate_id"), nil
}

func (s *Server) readObject(w http.ResponseWriter, r *http.Request) (string, []byte, string, error) {
	var ref ObjectRef
	if err := decodeJSON(w, r, &ref); err != nil {
		return "", nil, "", err
	}
	if strings.TrimSpace(ref.Key) == "" {
		return "", nil, "", &ErrValidation{Field: "key", Message: "is required"}
	}
	if s.documents == nil {
		return "", nil, "", &ErrUnavailable{Feature: "document storage"}
	}

	data, err := s.documents.Download(r.Context(), ref.Bucket, ref.Key)
	if err != nil {
		return "", nil, "", err
	}
	return path.Base(ref.Key), data, ref.CandidateID, nil
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	ApplicationID string                 `json:"application_id,omitempty"`
	Profile       types.CandidateProfile `json:"profile"`
	Job           types.JobRequirement   `json:"job"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}

	report, err := s.svc.Evaluate(r.Context(), req.Profile, req.Job)
	if err != nil {
		s.fail(w, err)
		return
	}

	if s.store != nil {
		id, err := s.store.SaveReport(r.Context(), req.ApplicationID, req.Job.ID, report)
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set(ReportIDHeader, id.String())
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// RecommendationsRequest is the body of POST /recommendations. Without jobs,
// the active jobs of the database are used.
type RecommendationsRequest struct {
	Profile types.CandidateProfile `json:"profile"`
	Jobs    []types.JobRequirement `json:"jobs"`
	Limit   int                    `json:"limit"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := req.Profile.Validate(); err != nil {
		s.fail(w, &ErrValidation{Field: "profile", Message: err.Error()})
		return
	}

	jobs := req.Jobs
	if len(jobs) == 0 {
		if s.store == nil {
			s.fail(w, &ErrValidation{Field: "jobs", Message: "is required when no database is configured"})
			return
		}
		records, err := s.store.ListActiveJobs(r.Context())
		if err != nil {
			s.fail(w, err)
			return
		}
		for _, rec := range records {
			jobs = append(jobs, matching.RequirementFromRecord(rec))
		}
	}

	recs := matching.Recommend(req.Profile, jobs, req.Limit)
	s.jsonResponse(w, http.StatusOK, map[string]any{"recommendations": recs})
}

// ImportJobRequest is the body of POST /jobs/import.
type ImportJobRequest struct {
	URL        string `json:"url"`
	UseBrowser bool   `json:"use_browser"`
	Save       bool   `json:"save"`
	Location   string `json:"location,omitempty"`
}

func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	var req ImportJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if s.postings == nil {
		s.fail(w, &ErrUnavailable{Feature: "posting import"})
		return
	}

	posting, err := s.postings.Import(r.Context(), req.URL, req.UseBrowser)
	if err != nil {
		s.fail(w, err)
		return
	}

	if req.Save {
		if s.store == nil {
			s.fail(w, &ErrUnavailable{Feature: "database"})
			return
		}
		if err := s.store.UpsertJob(r.Context(), posting.Requirement, req.Location); err != nil {
			s.fail(w, err)
			return
		}
		s.logger.Info("job saved",
			zap.String("job_id", posting.Requirement.ID),
			zap.String("url", logger.TruncateForLog(req.URL, 120)),
		)
	}

	s.jsonResponse(w, http.StatusOK, posting)
}
