package httpadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lawlab/intake-agent/internal/app/chat"
	"github.com/lawlab/intake-agent/internal/app/scheduling"
	"github.com/lawlab/intake-agent/internal/domain"
	"github.com/lawlab/intake-agent/internal/observability"
)

const (
	serviceName    = "LAW LAB API"
	serviceVersion = "1.0.0"

	// maxBodyBytes bounds request bodies; inline audio is the only
	// large payload and stays well under this.
	maxBodyBytes = 10 << 20
)

// degradedReply is what chat callers see when the language model is
// unreachable. Upstream detail never leaks to end users.
const degradedReply = "El asistente no está disponible en este momento. Por favor intentá de nuevo en unos minutos."

type Server struct {
	chat  *chat.Service
	sched *scheduling.Service
	// prober is nil when the LLM client cannot report liveness.
	prober domain.LLMProber

	cookieName   string
	cookieSecret string
	sessionTTL   time.Duration
	loc          *time.Location
	now          func() time.Time
}

// Options carries the handler-level configuration.
type Options struct {
	CookieName     string
	CookieSecret   string
	SessionTTL     time.Duration
	AllowedOrigins []string
}

func NewServer(chatSvc *chat.Service, schedSvc *scheduling.Service, prober domain.LLMProber, opts Options) http.Handler {
	loc, err := time.LoadLocation(scheduling.Timezone)
	if err != nil {
		// tzdata is compiled in on our builds; fall back rather
		// than refuse to start.
		loc = time.UTC
	}

	s := &Server{
		chat:         chatSvc,
		sched:        schedSvc,
		prober:       prober,
		cookieName:   opts.CookieName,
		cookieSecret: opts.CookieSecret,
		sessionTTL:   opts.SessionTTL,
		loc:          loc,
		now:          time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/chat/reset", s.handleChatReset)
	mux.HandleFunc("/schedule", s.handleSchedule)

	return chainMiddlewares(mux,
		withCORS(opts.AllowedOrigins),
		withLogging,
		withRequestID,
	)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type statusResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type pingResponse struct {
	Status string `json:"status"`
	LLM    string `json:"llm,omitempty"`
}

type chatRequest struct {
	Message       string `json:"message"`
	AudioData     string `json:"audio_data,omitempty"`
	AudioMIMEType string `json:"audio_mime_type,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type scheduleRequest struct {
	ClientName         string `json:"client_name"`
	ClientEmail        string `json:"client_email"`
	ProblemDescription string `json:"problem_description"`
	SuggestedDateTime  string `json:"suggested_datetime"`
}

type scheduleResponse struct {
	Status        string    `json:"status"`
	AppointmentID string    `json:"appointment_id"`
	Message       string    `json:"message"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:    "ok",
		Service:   serviceName,
		Version:   serviceVersion,
		Timestamp: s.now().Format(time.RFC3339),
	})
}

// handlePing reports health. The LLM credential probe result is
// informational only; a failed probe never fails the check.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	resp := pingResponse{Status: "ok"}
	if s.prober == nil {
		resp.LLM = "unconfigured"
	} else {
		probeCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.prober.Probe(probeCtx); err != nil {
			observability.LoggerFromContext(r.Context()).Warn("llm probe failed", "error", err)
			resp.LLM = "error"
		} else {
			resp.LLM = "ok"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	in := chat.Inbound{Text: req.Message}
	if req.AudioData != "" {
		if req.AudioMIMEType == "" {
			badRequest(w, "audio_mime_type is required with audio_data")
			return
		}
		data, err := base64.StdEncoding.DecodeString(req.AudioData)
		if err != nil {
			badRequest(w, "audio_data is not valid base64")
			return
		}
		in.Attachment = &domain.Attachment{MIMEType: req.AudioMIMEType, Data: data}
	}

	sessionID := s.sessionID(w, r)
	ctx := observability.WithSessionID(r.Context(), sessionID)

	reply, err := s.chat.HandleMessage(ctx, domain.SessionID(sessionID), in)
	if err != nil {
		s.chatError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	if c, err := r.Cookie(s.cookieName); err == nil {
		if id, ok := parseSessionCookie(c.Value, s.cookieSecret); ok {
			ctx := observability.WithSessionID(r.Context(), id)
			if err := s.chat.Reset(ctx, domain.SessionID(id)); err != nil {
				internalError(ctx, w, err)
				return
			}
		}
	}
	s.clearSession(w)

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	when, err := s.parseDateTime(req.SuggestedDateTime)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": "suggested_datetime must be an ISO 8601 date-time",
		})
		return
	}

	out, err := s.sched.Schedule(r.Context(), domain.IntakeRequest{
		ClientName:         req.ClientName,
		ClientEmail:        req.ClientEmail,
		ProblemDescription: req.ProblemDescription,
		SuggestedDateTime:  when,
	})
	if err != nil {
		s.scheduleError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, scheduleResponse{
		Status:        out.Status,
		AppointmentID: out.AppointmentID,
		Message:       out.Message,
		ScheduledTime: out.ScheduledTime,
	})
}

// parseDateTime accepts an offset-qualified ISO 8601 time, or a naive
// one which is assigned the fixed reference timezone.
func (s *Server) parseDateTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", v, s.loc)
}

// ─────────────────────────────────────────────
// Error mapping
// ─────────────────────────────────────────────

// chatError maps failures to the chat caller's view: a fixed degraded
// message, with only the HTTP status distinguishing retryable from
// not.
func (s *Server) chatError(ctx context.Context, w http.ResponseWriter, err error) {
	log := observability.LoggerFromContext(ctx)
	switch domain.KindOf(err) {
	case domain.KindValidation:
		var de *domain.Error
		errors.As(err, &de)
		badRequest(w, de.Msg)
	case domain.KindUpstream:
		log.Error("chat upstream failure", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": degradedReply})
	default:
		log.Error("chat failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": degradedReply})
	}
}

// scheduleError keeps the original API's operator-distinguishable
// messages: configuration defects, calendar outages and everything
// else each read differently, without leaking internals.
func (s *Server) scheduleError(ctx context.Context, w http.ResponseWriter, err error) {
	log := observability.LoggerFromContext(ctx)

	var de *domain.Error
	errors.As(err, &de)

	switch domain.KindOf(err) {
	case domain.KindValidation:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": de.Msg})
	case domain.KindConfiguration:
		log.Error("schedule configuration error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Error de configuración: " + de.Msg,
		})
	case domain.KindUpstream:
		log.Error("schedule upstream error", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "Error con Google Calendar: " + de.Msg,
		})
	default:
		log.Error("schedule internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Error interno del servidor",
		})
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(ctx context.Context, w http.ResponseWriter, err error) {
	observability.LoggerFromContext(ctx).Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
