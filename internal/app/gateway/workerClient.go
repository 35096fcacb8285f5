package gateway

import (
	"bytes"
	"encoding/json"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/persistence"
	"github.com/quickscribe/quickscribe/internal/pkg/utils"
)

// WorkerClient starts transcription by calling the worker HTTP endpoint
type WorkerClient struct {
	httpclient *retryablehttp.Client
	url        string
	callback   string
}

//NewWorkerClient creates WorkerClient instance
func NewWorkerClient() (*WorkerClient, error) {
	res := WorkerClient{}
	var err error
	res.url, err = utils.GetURLFromConfig("worker.url")
	if err != nil {
		return nil, err
	}
	res.callback = cmdapp.Config.GetString("worker.callback")
	res.httpclient = retryablehttp.NewClient()
	res.httpclient.RetryMax = 3
	res.httpclient.Logger = nil
	return &res, nil
}

type workerInput struct {
	ID          string `json:"jobId"`
	S3Key       string `json:"s3Key"`
	Language    string `json:"language,omitempty"`
	Task        string `json:"task,omitempty"`
	Diarization bool   `json:"diarization"`
	Callback    string `json:"callback,omitempty"`
}

// Process sends the job to the worker
func (c *WorkerClient) Process(req *persistence.Request) error {
	cmdapp.Log.Infof("Sending job %s to worker", req.ID)
	input := workerInput{ID: req.ID, S3Key: req.S3Key, Language: req.Language,
		Task: req.Task, Diarization: req.Diarization}
	if c.callback != "" {
		input.Callback = utils.URLJoin(c.callback, req.ID)
	}
	body, err := json.Marshal(&input)
	if err != nil {
		return errors.Wrap(err, "can't marshal worker input")
	}
	hReq, err := retryablehttp.NewRequest("POST", c.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "can't prepare worker request")
	}
	hReq.Header.Set("Content-Type", "application/json")
	resp, err := c.httpclient.Do(hReq)
	if err != nil {
		return errors.Wrap(err, "can't call worker")
	}
	defer resp.Body.Close()
	return errors.Wrap(utils.ValidateResponse(resp), "can't start worker job")
}
