package client

import (
	"github.com/spf13/cobra"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/reconcile"
	"github.com/quickscribe/quickscribe/internal/pkg/store"
	"github.com/quickscribe/quickscribe/internal/pkg/upload"
)

var rootCmd = &cobra.Command{
	Use:   "clientTool",
	Short: "QuickScribe Transcription Client",
	Long:  `Command line tool to upload audio, watch transcription jobs and export transcripts`,
}

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload an audio file and watch the transcription job",
	Args:  cobra.ExactArgs(1),
	Run:   runUploadCmd,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Resume watching the active transcription job",
	Run:   runWatchCmd,
}

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export the transcript of a completed job",
	Args:  cobra.ExactArgs(1),
	Run:   runExportCmd,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.AddCommand(uploadCmd, watchCmd, exportCmd)

	rootCmd.PersistentFlags().String("format", "txt", "Output format: txt, html, srt, vtt, rtf")
	cmdapp.Config.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	rootCmd.PersistentFlags().String("output", "", "Output file, stdout if empty")
	cmdapp.Config.BindPFlag("output.file", rootCmd.PersistentFlags().Lookup("output"))

	uploadCmd.Flags().Bool("diarization", true, "Ask for speaker diarization")
	cmdapp.Config.BindPFlag("job.diarization", uploadCmd.Flags().Lookup("diarization"))
	uploadCmd.Flags().String("language", "", "Audio language hint")
	cmdapp.Config.BindPFlag("job.language", uploadCmd.Flags().Lookup("language"))
	uploadCmd.Flags().String("task", "", "Processing task hint")
	cmdapp.Config.BindPFlag("job.task", uploadCmd.Flags().Lookup("task"))
	uploadCmd.Flags().Int("speakers", 0, "Expected speaker count, 0 for auto")
	cmdapp.Config.BindPFlag("job.speakerCount", uploadCmd.Flags().Lookup("speakers"))

	cmdapp.Config.SetDefault("jobStore.path", ".quickscribe/activeJob")
	cmdapp.Config.SetDefault("poll.interval", "5s")
	cmdapp.Config.SetDefault("transcript.showTime", true)
	cmdapp.Config.SetDefault("transcript.showSpeaker", true)
	cmdapp.Config.SetDefault("transcript.suppressAnySingle", false)
}

//Execute runs the tool
func Execute() {
	cmdapp.Execute(rootCmd)
}

func newServiceData() *ServiceData {
	data := &ServiceData{}

	gw, err := upload.NewClient()
	cmdapp.CheckOrPanic(err, "Can't init gateway client")
	data.Gateway = gw
	data.Checker = gw

	data.Store = newJobStore()

	cfg := reconcile.Config{PollInterval: cmdapp.Config.GetDuration("poll.interval"),
		Timeout: cmdapp.Config.GetDuration("watch.timeout")}
	data.Engine = reconcile.NewEngine(data.Store, data.Checker, cfg)

	data.PushURL = cmdapp.Config.GetString("push.url")
	return data
}

func newJobStore() reconcile.Store {
	redisURL := cmdapp.Config.GetString("redis.url")
	if redisURL != "" {
		s, err := store.NewRedisJobStore(redisURL)
		cmdapp.CheckOrPanic(err, "Can't init redis job store")
		return s
	}
	s, err := store.NewFileJobStore(cmdapp.Config.GetString("jobStore.path"))
	cmdapp.CheckOrPanic(err, "Can't init job store")
	return s
}
