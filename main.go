package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kostecki-nokia/dashboard-export/creds"
	"github.com/kostecki-nokia/dashboard-export/mailer"
	"github.com/kostecki-nokia/dashboard-export/models"
)

const defaultApiBaseUrl = "https://local.deepfield.net"

type ApiConfig struct {
	Url     string
	Key     string
	KeyFile string
}

type NotifyConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

type Config struct {
	Api        ApiConfig
	Notify     NotifyConfig
	Dashboards []string
	List       bool
	BackupDir  string
	VerifySsl  bool
	LogLevel   string
	LogFile    string
	Workers    int
}

var logger = log.NewWithOptions(os.Stdout, log.Options{
	Prefix:          "",
	ReportCaller:    false,
	ReportTimestamp: true,
})
var v = viper.NewWithOptions(viper.WithLogger(slog.New(logger)))

func main() {
	os.Exit(run())
}

func run() int {
	// configure oops
	oops.SourceFragmentsHidden = false

	// Optional .env next to the binary; real ENV still wins.
	godotenv.Load()

	// Configure viper
	pflag.StringSlice("dashboard", nil, "Dashboard slugs to export (repeatable)")
	pflag.Bool("list-dashboards", false, "List dashboards and exit")
	pflag.String("backup-dir", ".", "Directory for exported JSON files")
	pflag.Bool("verify-ssl", false, "Verify TLS certificates")
	pflag.String("log-level", "INFO", "DEBUG, INFO, WARNING or ERROR")
	pflag.String("log-file", "dashboard-export.log", "Log file (appended)")
	pflag.String("api-url", defaultApiBaseUrl, "Deepfield API endpoint")
	pflag.Int("workers", 1, "Parallel dashboard fetches")
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetDefault("api.key-file", creds.DefaultKeyFile)

	v.SetConfigName("dashboard-export")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("dfe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Debug("No config file found; using flags and ENV.")
		} else {
			err := oops.Wrap(err)
			logger.Error(err.Error(), "error", err)
			return 1
		}
	}

	// Import the config
	config := Config{
		Api: ApiConfig{
			Url:     v.GetString("api-url"),
			Key:     v.GetString("api.key"),
			KeyFile: v.GetString("api.key-file"),
		},
		Notify: NotifyConfig{
			Enabled:  v.GetBool("notify.enabled"),
			Host:     v.GetString("notify.host"),
			Port:     v.GetInt("notify.port"),
			Username: v.GetString("notify.username"),
			Password: v.GetString("notify.password"),
			From:     v.GetString("notify.from"),
			To:       v.GetString("notify.to"),
		},
		Dashboards: v.GetStringSlice("dashboard"),
		List:       v.GetBool("list-dashboards"),
		BackupDir:  v.GetString("backup-dir"),
		VerifySsl:  v.GetBool("verify-ssl"),
		LogLevel:   v.GetString("log-level"),
		LogFile:    v.GetString("log-file"),
		Workers:    v.GetInt("workers"),
	}
	// Bare slugs after the flags work too, matching the lister's hint.
	config.Dashboards = append(config.Dashboards, pflag.Args()...)

	level, err := parseLogLevel(config.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		return 2
	}
	logger.SetLevel(level)

	if err := validateFlags(config); err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		return 2
	}

	if logFile := openLogFile(config.LogFile); logFile != nil {
		defer logFile.Close()
		logger.SetOutput(io.MultiWriter(os.Stdout, logFile))
	}

	logger.Info("Configuration loaded!")
	logger.Debug(spew.Sdump(v.AllKeys()))

	// Step 0: Open the Deepfield API
	client, err := NewDeepfieldClient(
		config.Api.Url,
		creds.Chain{
			creds.Static(config.Api.Key),
			creds.FileProvider{Path: config.Api.KeyFile},
		},
		config.VerifySsl,
	)
	if err != nil {
		logger.Error(err.Error(), "error", err)
		return 1
	}

	if config.List {
		if err := NewLister(client, os.Stdout).Run(); err != nil {
			logger.Error(err.Error(), "error", err)
			return 1
		}
		return 0
	}

	exporter := NewExporter(client, config.BackupDir, config.Workers)

	var summary *models.ExportSummary
	if len(config.Dashboards) > 0 {
		summary, err = exporter.ExportSelected(config.Dashboards)
	} else {
		summary, err = exporter.ExportAll()
	}
	notify(config.Notify, summary)
	if err != nil {
		logger.Error(err.Error(), "error", err)
		return 1
	}
	if !summary.Ok() {
		return 1
	}
	return 0
}

func validateFlags(config Config) error {
	if config.List && len(config.Dashboards) > 0 {
		return fmt.Errorf("--list-dashboards cannot be combined with --dashboard")
	}
	return nil
}

func parseLogLevel(s string) (log.Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return log.DebugLevel, nil
	case "INFO":
		return log.InfoLevel, nil
	case "WARNING", "WARN":
		return log.WarnLevel, nil
	case "ERROR":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// openLogFile opens the append-only log file. Console logging carries on
// without it if the open fails.
func openLogFile(path string) *os.File {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Warn("Could not open log file; logging to stdout only", "path", path, "err", err)
		return nil
	}
	return f
}

func notify(config NotifyConfig, summary *models.ExportSummary) {
	if !config.Enabled || summary == nil {
		return
	}
	m := &mailer.Mailer{
		Host:     config.Host,
		Port:     config.Port,
		Username: config.Username,
		Password: config.Password,
		From:     config.From,
		To:       config.To,
	}
	subject := fmt.Sprintf("Dashboard export: %d/%d succeeded", summary.Succeeded, summary.Attempted)
	if err := m.Send(subject, summary); err != nil {
		logger.Warn("Could not send summary mail", "err", err)
	}
}
