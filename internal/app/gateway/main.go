package gateway

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/heptiolabs/healthcheck"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/mongo"
	"github.com/quickscribe/quickscribe/internal/pkg/saver"
)

var rootCmd = &cobra.Command{
	Use:   "gatewayService",
	Short: "QuickScribe Transcription Gateway Service",
	Long:  `HTTP server to upload audio, start transcription jobs and push results to subscribers`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
	cmdapp.Config.SetDefault("fileStorage.path", "/data/audio.in/")
	cmdapp.Config.SetDefault("upload.url", "/api/upload")
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting gatewayService")
	var data ServiceData
	var err error
	data.health = healthcheck.NewHandler()

	fs, err := saver.NewLocalFileSaver(cmdapp.Config.GetString("fileStorage.path"))
	cmdapp.CheckOrPanic(err, "Can't init file storage")
	data.FileSaver = fs

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()
	data.health.AddLivenessCheck("mongo", healthcheck.Async(mongoSessionProvider.Healthy, 10*time.Second))

	requestSaver, err := mongo.NewRequestSaver(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init request saver")
	data.RequestSaver = requestSaver

	statusSaver, err := mongo.NewStatusSaver(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init status saver")
	data.StatusSaver = statusSaver

	resultSaver, err := mongo.NewResultSaver(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init result saver")
	data.ResultSaver = resultSaver

	statusProvider, err := mongo.NewStatusProvider(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init status provider")
	data.StatusProvider = statusProvider

	worker, err := NewWorkerClient()
	cmdapp.CheckOrPanic(err, "Can't init worker client")
	data.Worker = worker

	data.UploadURL = cmdapp.Config.GetString("upload.url")
	data.Port = cmdapp.Config.GetInt("port")

	err = initMetrics(&data)
	cmdapp.CheckOrPanic(err, "Can't init metrics")

	err = StartWebServer(&data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}
