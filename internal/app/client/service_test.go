package client

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
	"github.com/quickscribe/quickscribe/internal/pkg/upload"
)

type fakeUploader struct {
	signReq    *upload.SignRequest
	signRes    *upload.SignResponse
	signErr    error
	putURL     string
	putType    string
	putBody    string
	putErr     error
	triggerReq *upload.TriggerRequest
	triggerErr error
}

func (f *fakeUploader) Sign(ctx context.Context, req *upload.SignRequest) (*upload.SignResponse, error) {
	f.signReq = req
	return f.signRes, f.signErr
}

func (f *fakeUploader) Put(ctx context.Context, url, contentType string, data io.Reader) error {
	f.putURL, f.putType = url, contentType
	b, _ := io.ReadAll(data)
	f.putBody = string(b)
	return f.putErr
}

func (f *fakeUploader) Trigger(ctx context.Context, req *upload.TriggerRequest) error {
	f.triggerReq = req
	return f.triggerErr
}

type checkerFunc func(ctx context.Context, id string) (*reconcile.Payload, error)

func (f checkerFunc) Check(ctx context.Context, id string) (*reconcile.Payload, error) {
	return f(ctx, id)
}

func testAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.mp3")
	assert.Nil(t, os.WriteFile(path, []byte("audio"), 0644))
	return path
}

func TestUploadFile(t *testing.T) {
	cmdapp.Config.Set("job.diarization", true)
	cmdapp.Config.Set("job.language", "en")
	gw := &fakeUploader{signRes: &upload.SignResponse{URL: "http://files/up/1",
		Key: "input/j1/a.mp3", JobID: "j1"}}
	data := &ServiceData{Gateway: gw}

	id, err := uploadFile(context.Background(), data, testAudioFile(t))

	assert.Nil(t, err)
	assert.Equal(t, "j1", id)
	assert.Equal(t, "a.mp3", gw.signReq.Filename)
	assert.True(t, gw.signReq.Diarization)
	assert.Equal(t, "http://files/up/1", gw.putURL)
	assert.Equal(t, "audio", gw.putBody)
	assert.Equal(t, "input/j1/a.mp3", gw.triggerReq.S3Key)
	assert.Equal(t, "en", gw.triggerReq.Language)
}

func TestUploadFile_NoFile(t *testing.T) {
	data := &ServiceData{Gateway: &fakeUploader{}}
	_, err := uploadFile(context.Background(), data, "/olia/nonexistent.mp3")
	assert.NotNil(t, err)
}

func TestUploadFile_SignFails(t *testing.T) {
	gw := &fakeUploader{signErr: errors.New("olia")}
	data := &ServiceData{Gateway: gw}
	_, err := uploadFile(context.Background(), data, testAudioFile(t))
	assert.NotNil(t, err)
}

func TestUploadFile_TriggerFails(t *testing.T) {
	gw := &fakeUploader{signRes: &upload.SignResponse{URL: "u", Key: "k", JobID: "j1"},
		triggerErr: errors.New("olia")}
	data := &ServiceData{Gateway: gw}
	_, err := uploadFile(context.Background(), data, testAudioFile(t))
	assert.NotNil(t, err)
}

func TestExportJob_Pending(t *testing.T) {
	data := &ServiceData{Checker: checkerFunc(func(ctx context.Context, id string) (*reconcile.Payload, error) {
		return &reconcile.Payload{ID: id, Status: "pending"}, nil
	})}
	err := exportJob(context.Background(), data, "j1")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "still")
}

func TestExportJob_Unknown(t *testing.T) {
	data := &ServiceData{Checker: checkerFunc(func(ctx context.Context, id string) (*reconcile.Payload, error) {
		return nil, nil
	})}
	err := exportJob(context.Background(), data, "j1")
	assert.NotNil(t, err)
}

func TestExportJob_Completed(t *testing.T) {
	out := filepath.Join(t.TempDir(), "res.srt")
	cmdapp.Config.Set("output.file", out)
	cmdapp.Config.Set("output.format", "srt")
	defer cmdapp.Config.Set("output.file", "")
	data := &ServiceData{Checker: checkerFunc(func(ctx context.Context, id string) (*reconcile.Payload, error) {
		return &reconcile.Payload{ID: id, Status: "completed",
			Segments: testSegments}, nil
	})}
	err := exportJob(context.Background(), data, "j1")
	assert.Nil(t, err)
	content, err := os.ReadFile(out)
	assert.Nil(t, err)
	assert.Contains(t, string(content), "00:00:00,000 --> 00:00:01,500")
}

func TestExportJob_Failed(t *testing.T) {
	data := &ServiceData{Checker: checkerFunc(func(ctx context.Context, id string) (*reconcile.Payload, error) {
		return &reconcile.Payload{ID: id, Status: "failed", Error: "GPU crashed"}, nil
	})}
	err := exportJob(context.Background(), data, "j1")
	assert.NotNil(t, err)
	assert.Equal(t, "GPU crashed", err.Error())
}
