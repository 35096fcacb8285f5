package gateway

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/persistence"
	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
	"github.com/quickscribe/quickscribe/internal/pkg/status"
)

// FileSaver saves uploaded audio content
type FileSaver interface {
	Save(name string, reader io.Reader) error
}

// RequestSaver saves and loads job request records
type RequestSaver interface {
	Save(data *persistence.Request) error
	Get(id string) (*persistence.Request, error)
}

// StatusSaver persists job status changes
type StatusSaver interface {
	Save(id string, st string, errorStr string) error
}

// ResultSaver persists the pushed transcription payload
type ResultSaver interface {
	Save(id string, payload []byte) error
}

// StatusProvider returns the stored job state
type StatusProvider interface {
	Get(id string) (*reconcile.Payload, error)
}

// Worker starts remote processing for a saved request
type Worker interface {
	Process(req *persistence.Request) error
}

type serviceMetric struct {
	signResponseDur   prometheus.ObserverVec
	uploadResponseDur prometheus.ObserverVec
	uploadRequestSize prometheus.ObserverVec
	pushResponseDur   prometheus.ObserverVec
}

// ServiceData keeps data required for service work
type ServiceData struct {
	FileSaver      FileSaver
	RequestSaver   RequestSaver
	StatusSaver    StatusSaver
	ResultSaver    ResultSaver
	StatusProvider StatusProvider
	Worker         Worker

	UploadURL string

	Port    int
	health  healthcheck.Handler
	metrics serviceMetric
}

//StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       180 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

//NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	sh := promhttp.InstrumentHandlerDuration(data.metrics.signResponseDur, signHandler{data: data})
	uh := promhttp.InstrumentHandlerDuration(data.metrics.uploadResponseDur,
		promhttp.InstrumentHandlerRequestSize(data.metrics.uploadRequestSize, uploadHandler{data: data}))
	ph := promhttp.InstrumentHandlerDuration(data.metrics.pushResponseDur, pushHandler{data: data})
	router.Methods("POST").Path("/api/sign-s3").Handler(sh)
	router.Methods("PUT").PathPrefix("/api/upload/").Handler(uh)
	router.Methods("POST").Path("/api/trigger_processing").Handler(triggerHandler{data: data})
	router.Methods("GET").Path("/api/check_status/{id}").Handler(statusHandler{data: data})
	router.Methods("POST").Path("/api/push_transcription/{id}").Handler(ph)
	router.Handle("/subscribe", websocketHandler{data: data})
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	if data.health != nil {
		router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
		router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	}
	return router
}

func initMetrics(data *ServiceData) error {
	namespace := "gateway"
	data.metrics.signResponseDur = newDurMetric(namespace, "sign")
	data.metrics.uploadResponseDur = newDurMetric(namespace, "upload")
	data.metrics.pushResponseDur = newDurMetric(namespace, "push")
	data.metrics.uploadRequestSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_request_size_bytes",
			Help:      "Upload request size distributions.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}, nil)
	for _, m := range []prometheus.Collector{data.metrics.signResponseDur,
		data.metrics.uploadResponseDur, data.metrics.pushResponseDur, data.metrics.uploadRequestSize} {
		if err := prometheus.Register(m); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

func newDurMetric(namespace, handler string) prometheus.ObserverVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "response_durations_seconds",
			Help:        "Response latency distributions.",
			ConstLabels: prometheus.Labels{"handler": handler},
		}, nil)
}

type signHandler struct {
	data *ServiceData
}

type signRequest struct {
	Filename    string `json:"filename"`
	Filetype    string `json:"filetype"`
	Diarization bool   `json:"diarization"`
}

type signResult struct {
	URL   string `json:"url"`
	Key   string `json:"key"`
	JobID string `json:"jobId"`
}

func (h signHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Sign request from %s", r.Host)

	var input signRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Can't decode request", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	if input.Filename == "" {
		http.Error(w, "No filename", http.StatusBadRequest)
		cmdapp.Log.Errorf("No filename")
		return
	}

	id := uuid.New().String()
	key := "input/" + id + "/" + input.Filename

	err := h.data.RequestSaver.Save(&persistence.Request{ID: id, File: input.Filename,
		S3Key: key, Diarization: input.Diarization})
	if err != nil {
		http.Error(w, "Can not save request to DB", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	err = h.data.StatusSaver.Save(id, status.Name(status.Pending), "")
	if err != nil {
		http.Error(w, "Can not save status", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	writeJSON(w, &signResult{URL: h.data.UploadURL + "/" + key, Key: key, JobID: id})
}

type uploadHandler struct {
	data *ServiceData
}

func (h uploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path[len("/api/upload/"):]
	cmdapp.Log.Infof("Saving file %s from %s", key, r.Host)
	if key == "" {
		http.Error(w, "No key", http.StatusBadRequest)
		cmdapp.Log.Errorf("No key")
		return
	}
	defer r.Body.Close()
	if err := h.data.FileSaver.Save(key, r.Body); err != nil {
		http.Error(w, "Can not save file", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type triggerHandler struct {
	data *ServiceData
}

type triggerRequest struct {
	S3Key        string `json:"s3Key"`
	JobID        string `json:"jobId"`
	SpeakerCount int    `json:"speakerCount"`
	Language     string `json:"language"`
	Task         string `json:"task"`
	Diarization  bool   `json:"diarization"`
}

func (h triggerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var input triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Can't decode request", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	if input.JobID == "" {
		http.Error(w, "No jobId", http.StatusBadRequest)
		cmdapp.Log.Errorf("No jobId")
		return
	}
	cmdapp.Log.Infof("Trigger processing %s", input.JobID)

	req, err := h.data.RequestSaver.Get(input.JobID)
	if err != nil {
		http.Error(w, "Can not get request", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	if req == nil {
		http.Error(w, "Unknown jobId", http.StatusBadRequest)
		cmdapp.Log.Errorf("Unknown jobId %s", input.JobID)
		return
	}
	req.Language = input.Language
	req.Task = input.Task
	req.Diarization = input.Diarization
	if input.S3Key != "" {
		req.S3Key = input.S3Key
	}
	if err := h.data.RequestSaver.Save(req); err != nil {
		http.Error(w, "Can not save request", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	if err := h.data.Worker.Process(req); err != nil {
		http.Error(w, "Can not start processing", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	if err := h.data.StatusSaver.Save(req.ID, status.Name(status.Pending), ""); err != nil {
		http.Error(w, "Can not save status", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	writeJSON(w, map[string]string{"status": status.Name(status.Pending), "jobId": req.ID})
}

type statusHandler struct {
	data *ServiceData
}

func (h statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "No ID", http.StatusBadRequest)
		cmdapp.Log.Errorf("No ID")
		return
	}
	result, err := h.data.StatusProvider.Get(id)
	if err != nil {
		http.Error(w, "Cannot get status for ID: "+id, http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	if result == nil {
		http.Error(w, "Unknown ID: "+id, http.StatusNotFound)
		cmdapp.Log.Infof("Unknown ID %s", id)
		return
	}
	writeJSON(w, result)
}

type pushHandler struct {
	data *ServiceData
}

func (h pushHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "No ID", http.StatusBadRequest)
		cmdapp.Log.Errorf("No ID")
		return
	}
	cmdapp.Log.Infof("Push transcription for %s", id)
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Can not read body", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	payload, err := preparePush(id, body)
	if err != nil {
		http.Error(w, "Can not decode payload", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	if err := h.data.ResultSaver.Save(id, payload.body); err != nil {
		http.Error(w, "Can not save result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	if err := h.data.StatusSaver.Save(id, payload.status, payload.errorStr); err != nil {
		http.Error(w, "Can not save status", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	notifyConnections(id, payload.body)
	w.WriteHeader(http.StatusOK)
}

type pushData struct {
	body     []byte
	status   string
	errorStr string
}

// preparePush fills missing id and status in the pushed payload
// so subscribers always see both
func preparePush(id string, body []byte) (*pushData, error) {
	var p reconcile.Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.Wrap(err, "can't decode payload")
	}
	res := pushData{status: p.Status, errorStr: p.Error}
	if res.status == "" {
		res.status = status.Name(status.Completed)
	}
	if p.ID == "" || p.Status == "" {
		var m map[string]interface{}
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, err
		}
		if p.ID == "" {
			m["id"] = id
		}
		if p.Status == "" {
			m["status"] = res.status
		}
		body, _ = json.Marshal(m)
	}
	res.body = body
	return &res, nil
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	}}

type websocketHandler struct {
	data *ServiceData
}

func (h websocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("ws request from %s", r.Host)

	c, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "can't upgrade websocket"))
		return
	}
	go handleConnection(c)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	if err := encoder.Encode(data); err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
	}
}
