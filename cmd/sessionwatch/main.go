package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dharashakti/backoffice/internal/apiserver/notifier"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/config"
	"github.com/dharashakti/backoffice/internal/watchdog"
	"github.com/dharashakti/backoffice/pkg/logger"
	"github.com/dharashakti/backoffice/pkg/trace"
	"github.com/dharashakti/backoffice/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exit codes
const (
	exitForcedLogout = 2
	exitSessionDead  = 3
)

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

var (
	configPath   string
	bearerToken  string
	sessionToken string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sessionwatch",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sessionwatch version %s\n", version.Get())
		},
	}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Check an existing session once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := watchdog.NewAPIClient(cfg.ServerURL, cfg.Timeout)
			client.SetToken(bearerToken)
			return checkOnce(cmd.Context(), client, cfg.EmployeeID, sessionToken, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	rootCmd = &cobra.Command{
		Use:   "sessionwatch",
		Short: "Sign in and watch the session until it is ended elsewhere",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", cnst.SessionWatchYaml, "path to configuration file")
	checkCmd.Flags().StringVar(&bearerToken, "token", os.Getenv("BACKOFFICE_TOKEN"), "bearer token of the session")
	checkCmd.Flags().StringVar(&sessionToken, "session", os.Getenv("BACKOFFICE_SESSION"), "session token returned by login")
	rootCmd.AddCommand(versionCmd, checkCmd)
}

func loadConfig() (*config.WatchdogConfig, error) {
	cfg, cfgPath, err := config.LoadConfig[config.WatchdogConfig](configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func run(ctx context.Context, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	shutdownTracing, err := trace.Setup(ctx, &cfg.Tracing, lg)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	client := watchdog.NewAPIClient(cfg.ServerURL, cfg.Timeout)
	sess, err := client.Login(ctx, cfg.EmployeeID, cfg.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	lg.Info("signed in", zap.String("employee_id", sess.EmployeeID), zap.String("role", sess.Role))
	fmt.Fprintf(out, "Signed in as %s (%s)\n", sess.Name, sess.EmployeeID)

	events, err := subscribe(ctx, lg, &cfg.Notifier)
	if err != nil {
		lg.Warn("push channel unavailable, polling only", zap.Error(err))
	}

	var reason watchdog.Reason
	w, err := watchdog.New(watchdog.Options{
		EmployeeID:   sess.EmployeeID,
		SessionToken: sess.SessionToken,
		Source:       client,
		Interval:     cfg.Interval,
		OnLogout:     func(r watchdog.Reason) { reason = r },
		Events:       events,
		Logger:       lg,
	})
	if err != nil {
		return err
	}
	w.Run(ctx)

	if reason != "" {
		fmt.Fprintf(out, "Session ended: %s\n", reason)
		return &exitError{code: exitForcedLogout, msg: string(reason)}
	}

	// interrupted: release the session on the server
	logoutCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Logout(logoutCtx); err != nil {
		lg.Warn("logout failed", zap.Error(err))
	}
	return nil
}

// subscribe returns nil events when the notifier is in-process only, since
// that cannot see the server's events
func subscribe(ctx context.Context, lg *zap.Logger, cfg *config.NotifierConfig) (<-chan *notifier.SessionEvent, error) {
	if cfg.Type == "" || notifier.Type(cfg.Type) == notifier.TypeMemory {
		return nil, nil
	}
	n, err := notifier.NewNotifier(ctx, lg, cfg)
	if err != nil {
		return nil, err
	}
	if c, ok := n.(io.Closer); ok {
		go func() {
			<-ctx.Done()
			if err := c.Close(); err != nil {
				lg.Warn("failed to close notifier", zap.Error(err))
			}
		}()
	}
	if !n.CanReceive() {
		return nil, nil
	}
	return n.Watch(ctx)
}

func checkOnce(ctx context.Context, source watchdog.StatusSource, employeeID, session string, out io.Writer) error {
	w, err := watchdog.New(watchdog.Options{EmployeeID: employeeID, SessionToken: session, Source: source})
	if err != nil {
		return err
	}
	status, err := w.Check(ctx)
	if err != nil {
		return err
	}

	reason, dead := status.Reason()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{
		"stillValid": status.StillValid,
		"blocked":    status.Blocked,
		"reason":     reason,
	}); err != nil {
		return err
	}
	if dead {
		return &exitError{code: exitSessionDead, msg: string(reason)}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}
