package client

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/progress"
	"github.com/quickscribe/quickscribe/internal/pkg/pushchan"
	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
	"github.com/quickscribe/quickscribe/internal/pkg/status"
	"github.com/quickscribe/quickscribe/internal/pkg/upload"
)

// Uploader talks to the gateway upload endpoints
type Uploader interface {
	Sign(ctx context.Context, req *upload.SignRequest) (*upload.SignResponse, error)
	Put(ctx context.Context, url, contentType string, data io.Reader) error
	Trigger(ctx context.Context, req *upload.TriggerRequest) error
}

// ServiceData keeps data required for the tool work
type ServiceData struct {
	Gateway Uploader
	Checker reconcile.Checker
	Store   reconcile.Store
	Engine  *reconcile.Engine
	PushURL string
}

func runUploadCmd(cmd *cobra.Command, args []string) {
	data := newServiceData()
	id, err := uploadFile(context.Background(), data, args[0])
	cmdapp.CheckOrPanic(err, "Can't upload file")
	cmdapp.Log.Infof("Job started: %s", id)
	watchJob(data, id)
}

func runWatchCmd(cmd *cobra.Command, args []string) {
	data := newServiceData()
	id, found := data.Store.Active()
	if !found {
		cmdapp.Log.Info("No active job to watch")
		return
	}
	watchJob(data, id)
}

func runExportCmd(cmd *cobra.Command, args []string) {
	data := newServiceData()
	err := exportJob(context.Background(), data, args[0])
	cmdapp.CheckOrPanic(err, "Can't export transcript")
}

//uploadFile signs, uploads and triggers processing. Returns the job id
func uploadFile(ctx context.Context, data *ServiceData, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	name := filepath.Base(path)
	cType := mime.TypeByExtension(filepath.Ext(name))
	if cType == "" {
		cType = "application/octet-stream"
	}
	diarization := cmdapp.Config.GetBool("job.diarization")

	signed, err := data.Gateway.Sign(ctx, &upload.SignRequest{Filename: name,
		Filetype: cType, Diarization: diarization})
	if err != nil {
		return "", err
	}
	cmdapp.Log.Infof("Uploading %s as job %s", name, signed.JobID)
	if err := data.Gateway.Put(ctx, signed.URL, cType, f); err != nil {
		return "", err
	}
	err = data.Gateway.Trigger(ctx, &upload.TriggerRequest{S3Key: signed.Key, JobID: signed.JobID,
		SpeakerCount: cmdapp.Config.GetInt("job.speakerCount"),
		Language:     cmdapp.Config.GetString("job.language"),
		Task:         cmdapp.Config.GetString("job.task"),
		Diarization:  diarization})
	if err != nil {
		return "", err
	}
	return signed.JobID, nil
}

//watchJob watches until the job reaches a terminal state or the user quits.
//A quit keeps the persisted id so the next run resumes
func watchJob(data *ServiceData, id string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	animator := progress.NewAnimator(func(percent int32) {
		cmdapp.Log.Infof("Analyzing content... %d%%", percent)
	})

	done := make(chan reconcile.Outcome, 1)
	data.Engine.OnTerminal(func(out reconcile.Outcome) {
		animator.Stop()
		done <- out
	})

	err := data.Engine.Watch(ctx, id)
	cmdapp.CheckOrPanic(err, "Can't start watching")
	animator.Start()

	if data.PushURL != "" {
		push := pushchan.NewClient(data.PushURL, data.Engine.Handle,
			func() { data.Engine.CheckNow(ctx) })
		go push.Run(ctx, id)
	}

	select {
	case out := <-done:
		present(&out)
	case <-cmdapp.NewSignalChannel():
		animator.Stop()
		data.Engine.Stop()
		cmdapp.Log.Infof("Stopped. Job %s stays active, run watch to resume", id)
	}
}

//exportJob fetches the job state once and writes the transcript
func exportJob(ctx context.Context, data *ServiceData, id string) error {
	p, err := data.Checker.Check(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return errors.Errorf("unknown job %s", id)
	}
	st := status.From(p.Status)
	if !status.IsTerminal(st) {
		return errors.Errorf("job %s is still %s", id, status.Name(st))
	}
	out := reconcile.NewOutcome(id, p)
	return writeOutcome(&out)
}
