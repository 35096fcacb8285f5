package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
	"github.com/quickscribe/quickscribe/internal/pkg/utils"
)

//Client communicates with the gateway: upload signing, storage PUT,
//processing trigger and status checks
type Client struct {
	httpclient *retryablehttp.Client
	signURL    string
	triggerURL string
	statusURL  string
}

//NewClient creates a gateway client from config
func NewClient() (*Client, error) {
	res := Client{}
	var err error
	res.signURL, err = utils.GetURLFromConfig("gateway.url.sign")
	if err != nil {
		return nil, err
	}
	res.triggerURL, err = utils.GetURLFromConfig("gateway.url.trigger")
	if err != nil {
		return nil, err
	}
	res.statusURL, err = utils.GetURLFromConfig("gateway.url.status")
	if err != nil {
		return nil, err
	}
	res.httpclient = retryablehttp.NewClient()
	res.httpclient.RetryMax = 3
	res.httpclient.Logger = nil
	return &res, nil
}

//SignRequest asks for an upload slot
type SignRequest struct {
	Filename    string `json:"filename"`
	Filetype    string `json:"filetype"`
	Diarization bool   `json:"diarization,omitempty"`
}

//SignResponse is the decoded signing response. Backends disagree on the
//key spelling and some nest the fields under data, all forms are accepted
type SignResponse struct {
	URL   string
	Key   string
	JobID string
}

type signWire struct {
	URL           string    `json:"url"`
	SignedRequest string    `json:"signedRequest"`
	Key           string    `json:"key"`
	S3Key         string    `json:"s3Key"`
	JobID         string    `json:"jobId"`
	Data          *signWire `json:"data,omitempty"`
}

func (w *signWire) flatten() SignResponse {
	res := SignResponse{URL: w.URL, Key: w.Key, JobID: w.JobID}
	if res.URL == "" {
		res.URL = w.SignedRequest
	}
	if res.Key == "" {
		res.Key = w.S3Key
	}
	if w.Data != nil {
		inner := w.Data.flatten()
		if res.URL == "" {
			res.URL = inner.URL
		}
		if res.Key == "" {
			res.Key = inner.Key
		}
		if res.JobID == "" {
			res.JobID = inner.JobID
		}
	}
	return res
}

//Sign requests a signed upload URL and a job id
func (c *Client) Sign(ctx context.Context, req *SignRequest) (*SignResponse, error) {
	cmdapp.Log.Infof("Sign request to: %s", c.signURL)
	resp, err := c.postJSON(ctx, c.signURL, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return nil, errors.Wrap(err, "can't sign upload")
	}
	var wire signWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, errors.Wrap(err, "can't decode sign response")
	}
	res := wire.flatten()
	if res.URL == "" || res.JobID == "" {
		return nil, errors.New("sign response has no url or jobId")
	}
	return &res, nil
}

//Put uploads the file content to the signed URL
func (c *Client) Put(ctx context.Context, url, contentType string, data io.Reader) error {
	cmdapp.Log.Infof("Uploading to storage: %s", url)
	req, err := retryablehttp.NewRequest("PUT", url, data)
	if err != nil {
		return errors.Wrap(err, "can't prepare upload request")
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", contentType)
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return errors.Wrap(err, "can't upload file")
	}
	defer resp.Body.Close()
	return errors.Wrap(utils.ValidateResponse(resp), "can't upload file")
}

//TriggerRequest starts remote processing for an uploaded file
type TriggerRequest struct {
	S3Key        string `json:"s3Key"`
	JobID        string `json:"jobId"`
	SpeakerCount int    `json:"speakerCount,omitempty"`
	Language     string `json:"language,omitempty"`
	Task         string `json:"task,omitempty"`
	Diarization  bool   `json:"diarization"`
}

//Trigger starts processing. Fire-and-forget beyond the HTTP result
func (c *Client) Trigger(ctx context.Context, req *TriggerRequest) error {
	cmdapp.Log.Infof("Trigger processing for %s", req.JobID)
	resp, err := c.postJSON(ctx, c.triggerURL, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return errors.Wrap(utils.ValidateResponse(resp), "can't trigger processing")
}

//Check implements reconcile.Checker over the status endpoint
func (c *Client) Check(ctx context.Context, id string) (*reconcile.Payload, error) {
	urlStr := utils.URLJoin(c.statusURL, id)
	req, err := retryablehttp.NewRequest("GET", urlStr, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return nil, errors.Wrap(err, "can't get status")
	}
	var res reconcile.Payload
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, errors.Wrap(err, "can't decode status response")
	}
	return &res, nil
}

func (c *Client) postJSON(ctx context.Context, url string, data interface{}) (*http.Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "can't marshal request")
	}
	req, err := retryablehttp.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "can't prepare request")
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "can't call "+url)
	}
	return resp, nil
}
