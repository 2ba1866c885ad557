package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/docchat/internal/document"
	"github.com/dgallion1/docchat/internal/extract"
	"github.com/dgallion1/docchat/internal/fetch"
	"github.com/dgallion1/docchat/internal/format"
	"github.com/dgallion1/docchat/internal/match"
	"github.com/dgallion1/docchat/internal/segment"
)

// Canned replies for queries the matcher never sees.
const (
	emptyQuestionReply = "Please type something!"
	notUnderstoodReply = "Sorry, I don't understand that question."
	noSectionsReply    = "No sections available for this document."
)

type chatRequest struct {
	Question string   `json:"question"`
	Document string   `json:"document"`
	Keywords []string `json:"keywords,omitempty"`
	Mode     string   `json:"mode,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Document == "" {
		jsonError(w, "document is required", http.StatusBadRequest)
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		s.writeChat(w, req, start, []document.Match{{
			Label:  "",
			Score:  1.0,
			Answer: emptyQuestionReply,
		}})
		return
	}

	docID := extract.DocID(req.Document)
	if _, ok := s.builder.Cached(docID); !ok && !s.builder.Resolvable(req.Document) {
		jsonError(w, "unknown document: "+req.Document, http.StatusForbidden)
		return
	}

	doc, err := s.builder.Build(r.Context(), req.Document, false)
	if err != nil {
		var fe *fetch.FetchError
		if errors.As(err, &fe) {
			s.log.Error("document fetch failed", "document", req.Document, "error", err)
			jsonError(w, "failed to fetch document", http.StatusBadGateway)
			return
		}
		s.log.Error("document build failed", "document", req.Document, "error", err)
		jsonError(w, "document unavailable", http.StatusInternalServerError)
		return
	}

	mode := segment.ModeStructural
	if len(req.Keywords) > 0 {
		mode = segment.ModeKeyword
	}
	sections := segment.Segment(doc, mode, req.Keywords, s.cfg.FallbackWindowWords)

	candidates, index := chatCandidates(sections)
	if len(candidates) == 0 {
		s.writeChat(w, req, start, []document.Match{{
			Label:  "",
			Score:  0,
			Answer: noSectionsReply,
		}})
		return
	}

	results, ok := s.engine(req.Mode).Match(question, candidates)
	if !ok {
		best := 0.0
		if len(results) > 0 {
			best = results[0].Score
		}
		s.writeChat(w, req, start, []document.Match{{
			Label:  "",
			Score:  round3(best),
			Answer: notUnderstoodReply,
		}})
		return
	}

	matches := make([]document.Match, 0, len(results))
	for _, res := range results {
		matches = append(matches, document.Match{
			Label:  res.Label,
			Score:  round3(res.Score),
			Answer: format.Section(sections[index[res.Index]]),
		})
	}
	s.writeChat(w, req, start, matches)
}

// chatCandidates builds the matcher input from segmented sections, skipping
// unlabeled spans such as a structural preamble. index maps candidate
// positions back to positions in sections.
func chatCandidates(sections []document.Section) ([]match.Candidate, []int) {
	var (
		candidates []match.Candidate
		index      []int
	)
	for i, sec := range sections {
		if sec.Label == "" {
			continue
		}
		candidates = append(candidates, match.Candidate{
			Label: sec.Label,
			Text:  sec.Text(),
		})
		index = append(index, i)
	}
	return candidates, index
}

func (s *Server) writeChat(w http.ResponseWriter, req chatRequest, start time.Time, matches []document.Match) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"document":          req.Document,
		"question":          req.Question,
		"matches":           matches,
		"response_time_sec": round3(time.Since(start).Seconds()),
	})
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
