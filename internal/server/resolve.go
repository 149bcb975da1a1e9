package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tartampluch/go-reldate/internal/config"
	"github.com/tartampluch/go-reldate/internal/reldate"
	"golang.org/x/text/language"
)

// resolveResponse is the JSON body of /resolve. Exactly one field is set.
type resolveResponse struct {
	Date  string `json:"date,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleResolveRequest resolves the description given as query parameters.
// Omitted parameters are absent fields. The language comes from the lang
// parameter or Accept-Language and also selects the week numbering unless
// a week start is configured.
func (s *CalendarServer) handleResolveRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	log := slog.With(config.LogKeyComponent, config.CompServer)
	query := r.URL.Query()

	defaults := s.defaults.Load()
	tr := defaults.translator
	if lang := requestLanguage(r); lang != "" {
		tr = tr.WithLanguage(lang)
	}
	conv := defaults.convention(tr)

	input := make(map[string]any, config.SequenceLength)
	for _, key := range []string{config.FieldYear, config.FieldMonth, config.FieldDay, config.FieldWeek} {
		if query.Has(key) {
			input[key] = query.Get(key)
		}
	}

	ref := s.now()
	if raw := query.Get(config.QueryRef); raw != "" {
		parsed, err := time.ParseInLocation(config.DateFormatFullDash, raw, s.location())
		if err != nil {
			log.Debug(config.MsgResolveFailed, config.LogKeyRef, raw, config.LogKeyError, err)
			writeJSON(w, r, http.StatusBadRequest, resolveResponse{Error: tr.Msg(config.TKeyErrReference)})
			return
		}
		ref = parsed
	}

	date, err := reldate.NewResolver(reldate.WithWeekConvention(conv)).ResolveFrom(ref, input)
	if err != nil {
		log.Debug(config.MsgResolveFailed, config.LogKeyError, err)
		writeJSON(w, r, http.StatusBadRequest, resolveResponse{Error: tr.Error(err)})
		return
	}

	log.Debug(config.MsgResolved,
		config.LogKeyRef, ref.Format(config.DateFormatFullDash),
		config.LogKeyDate, date.Format(config.DateFormatFullDash),
	)
	writeJSON(w, r, http.StatusOK, resolveResponse{Date: date.Format(config.DateFormatFullDash)})
}

// requestLanguage returns the lang parameter, else the preferred
// Accept-Language tag, else "".
func requestLanguage(r *http.Request) string {
	if lang := r.URL.Query().Get(config.QueryLang); lang != "" {
		return lang
	}
	header := r.Header.Get(config.HeaderAcceptLanguage)
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

func (s *CalendarServer) now() time.Time {
	if s.Clock == nil {
		return time.Now().In(s.location())
	}
	return s.Clock.Now().In(s.location())
}

func (s *CalendarServer) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body resolveResponse) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
