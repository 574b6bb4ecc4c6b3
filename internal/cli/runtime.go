package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"recruit-console/internal/apiclient"
	"recruit-console/internal/logging"
	"recruit-console/internal/settings"
)

type runtimeFlags struct {
	config  *string
	baseURL *string
	jsonOut *bool
}

func addRuntimeFlags(fs *flag.FlagSet) *runtimeFlags {
	return &runtimeFlags{
		config:  fs.String("config", settings.DefaultConfigPath, "console settings path"),
		baseURL: fs.String("base-url", "", "backend base URL (overrides settings)"),
		jsonOut: fs.Bool("json", false, "print JSON output"),
	}
}

type cliRuntime struct {
	settings settings.Settings
	log      *logrus.Logger
	client   *apiclient.Client
}

func (f *runtimeFlags) load() (*cliRuntime, error) {
	s, err := settings.Load(strings.TrimSpace(*f.config))
	if err != nil {
		return nil, err
	}
	if base := strings.TrimSpace(*f.baseURL); base != "" {
		s.BaseURL = strings.TrimRight(base, "/")
		if err := settings.Validate(s); err != nil {
			return nil, fmt.Errorf("--base-url: %w", err)
		}
	}
	log := logging.New(s.LogLevel, os.Stderr)
	client := apiclient.New(s.BaseURL,
		apiclient.WithTimeout(s.Timeout()),
		apiclient.WithLogger(log),
	)
	return &cliRuntime{settings: s, log: log, client: client}, nil
}
