// ABOUTME: JSON HTTP API over the CommsDesk service
// ABOUTME: Handlers delegate to Server and map gRPC status codes to HTTP

package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nainya/commsdesk/internal/logger"
	"github.com/nainya/commsdesk/internal/metrics"
	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/sms"
)

const maxBodyBytes = 1 << 20

// statusClientClosedRequest is reported when the caller gave up first
const statusClientClosedRequest = 499

// API serves the call log, inbox and profile routes
type API struct {
	srv     *Server
	metrics *metrics.Metrics
	log     *logger.Logger
	mux     *http.ServeMux
}

// NewAPI builds the route table
func NewAPI(srv *Server, m *metrics.Metrics, log *logger.Logger) *API {
	if log == nil {
		log = logger.Nop()
	}
	a := &API{
		srv:     srv,
		metrics: m,
		log:     log,
		mux:     http.NewServeMux(),
	}

	a.handle("GET /api/call-logs", a.listCalls)
	a.handle("PUT /api/call-logs/{callId}/qualification", a.setQualification)
	a.handle("GET /api/sms-inbox", a.listThreads)
	a.handle("GET /api/sms-inbox/{contactId}", a.getThread)
	a.handle("POST /api/sms-inbox/{contactId}/messages", a.appendMessage)
	a.handle("GET /api/smart-replies", a.listSmartReplies)
	a.handle("GET /api/profile/{contactId}", a.getProfile)
	a.handle("PUT /api/profile/{contactId}/tags", a.setTags)
	a.handle("PUT /api/profile/{contactId}/attributes", a.setAttributes)
	a.handle("GET /api/stats", a.stats)

	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// handle registers fn under pattern with request metrics and logging
func (a *API) handle(pattern string, fn http.HandlerFunc) {
	a.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		fn(rec, r)

		duration := time.Since(start)
		a.metrics.RecordHttpRequest(pattern, strconv.Itoa(rec.status), duration)
		a.log.LogHttpRequest(r.Method, r.URL.Path, rec.status, duration)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding response failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	data, _ := sonic.Marshal(map[string]string{"error": msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}

// writeStatusError translates a service error into an HTTP error
func writeStatusError(w http.ResponseWriter, err error) {
	st := status.Convert(err)

	code := http.StatusInternalServerError
	switch st.Code() {
	case codes.InvalidArgument:
		code = http.StatusBadRequest
	case codes.NotFound:
		code = http.StatusNotFound
	case codes.DeadlineExceeded:
		code = http.StatusGatewayTimeout
	case codes.Canceled:
		code = statusClientClosedRequest
	}
	writeError(w, code, st.Message())
}

func readJSON(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, v)
}

func (a *API) listCalls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := a.srv.ListCalls(r.Context(), &ListCallsRequest{
		Query:   q.Get("q"),
		OrderBy: q.Get("orderBy"),
		Order:   q.Get("order"),
	})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	if resp.Calls == nil {
		resp.Calls = []*calllog.CallRecord{}
	}
	writeJSON(w, http.StatusOK, resp.Calls)
}

func (a *API) setQualification(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsQualified *bool `json:"isQualified"`
	}
	if err := readJSON(r, &body); err != nil || body.IsQualified == nil {
		writeError(w, http.StatusBadRequest, `body must be {"isQualified": true|false}`)
		return
	}

	resp, err := a.srv.SetQualification(r.Context(), &SetQualificationRequest{
		CallID:      r.PathValue("callId"),
		IsQualified: *body.IsQualified,
	})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Call)
}

func (a *API) listThreads(w http.ResponseWriter, r *http.Request) {
	resp, err := a.srv.ListThreads(r.Context(), &ListThreadsRequest{Query: r.URL.Query().Get("q")})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	if resp.Threads == nil {
		resp.Threads = []*sms.Thread{}
	}
	writeJSON(w, http.StatusOK, resp.Threads)
}

func (a *API) getThread(w http.ResponseWriter, r *http.Request) {
	resp, err := a.srv.GetThread(r.Context(), &GetThreadRequest{ContactID: r.PathValue("contactId")})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Thread)
}

func (a *API) appendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Body string `json:"body"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	resp, err := a.srv.AppendMessage(r.Context(), &AppendMessageRequest{
		ContactID: r.PathValue("contactId"),
		Body:      body.Body,
	})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Thread)
}

func (a *API) listSmartReplies(w http.ResponseWriter, r *http.Request) {
	resp, err := a.srv.ListSmartReplies(r.Context(), &ListSmartRepliesRequest{})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	if resp.Replies == nil {
		resp.Replies = []sms.SmartReply{}
	}
	writeJSON(w, http.StatusOK, resp.Replies)
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := a.srv.GetContactTimeline(r.Context(), &GetContactTimelineRequest{
		ContactID: r.PathValue("contactId"),
		Kind:      r.URL.Query().Get("kind"),
	})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Profile)
}

func (a *API) setTags(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tags []string `json:"tags"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	resp, err := a.srv.SetContactTags(r.Context(), &SetContactTagsRequest{
		ContactID: r.PathValue("contactId"),
		Tags:      body.Tags,
	})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) setAttributes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Attributes map[string]string `json:"attributes"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	resp, err := a.srv.SetContactAttributes(r.Context(), &SetContactAttributesRequest{
		ContactID:  r.PathValue("contactId"),
		Attributes: body.Attributes,
	})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	resp, err := a.srv.Stats(r.Context(), &StatsRequest{})
	if err != nil {
		writeStatusError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
