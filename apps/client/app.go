package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omi-1602/Venz-edu/client"
	"github.com/omi-1602/Venz-edu/client/mockstore"
	"github.com/omi-1602/Venz-edu/core"
	logsvc "github.com/omi-1602/Venz-edu/services/logger"
	"github.com/omi-1602/Venz-edu/storage/local"
)

const envPrefix = "VENZ"

// app holds what the commands share. It is set up before any command runs.
type app struct {
	conf    *viper.Viper
	out     io.Writer
	logger  core.Logger
	storage local.Storage
	remote  *client.Remote // nil when no API is configured
	mock    *mockstore.Store
	facade  *client.Facade
}

func defaultDataPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "venz-edu", "client.db")
}

func (a *app) setup() error {
	storage, err := local.Open(a.conf.GetString("data"))
	if err != nil {
		return err
	}
	a.storage = storage

	if a.mock, err = mockstore.New(storage); err != nil {
		return err
	}

	backends := make([]client.Backend, 0, 2)
	if api := a.conf.GetString("api"); api != "" {
		if a.remote, err = client.NewRemote(api); err != nil {
			return err
		}
		backends = append(backends, a.remote)
	}
	backends = append(backends, client.NewMock(a.mock))

	a.facade, err = client.NewFacade(client.NewSessionStore(storage), a.logger, backends...)
	return err
}

func (a *app) close() {
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.logger.Error("closing local storage", err)
		}
	}
}

func (a *app) printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding output")
	}
	_, err = fmt.Fprintln(a.out, string(raw))
	return err
}

func newLogger(w io.Writer, verbose bool) core.Logger {
	if !verbose {
		w = io.Discard
	}
	logger := logsvc.NewRollbarLogger(log.New(w, "CLIENT : ", log.LstdFlags), &core.Config{Env: "client"})
	logger.Enable(false)
	return logger
}

func newRootCmd(a *app, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "client",
		Short:         "Venz Edu account client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = newLogger(errOut, a.conf.GetBool("verbose"))
			return a.setup()
		},
	}
	root.SetOut(a.out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.String("api", "http://localhost:8000", "Base URL of the API, empty to only use the local mock store")
	flags.String("data", defaultDataPath(), "Path of the local storage file")
	flags.BoolP("verbose", "v", false, "Log backend failures")
	for _, name := range []string{"api", "data", "verbose"} {
		_ = a.conf.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newFederatedLoginCmd(a),
		newResetPasswordCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newSeedMockCmd(a),
	)
	return root
}

// run executes the command line args and reports errors on errOut.
func run(args []string, out, errOut io.Writer) error {
	conf := viper.New()
	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	a := &app{conf: conf, out: out}
	defer a.close()

	root := newRootCmd(a, errOut)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return err
	}
	return nil
}
