package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"recruit-console/internal/apiclient"
	"recruit-console/internal/doctor"
	"recruit-console/internal/logging"
	"recruit-console/internal/settings"
)

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	config := fs.String("config", settings.DefaultConfigPath, "console settings path")
	offline := fs.Bool("offline", false, "skip the backend reachability check")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	configPath := strings.TrimSpace(*config)
	s, err := settings.Effective(configPath)
	if err != nil {
		return err
	}
	opts := doctor.Options{ConfigPath: configPath, Settings: s}
	if !*offline && settings.Validate(s) == nil {
		log := logging.New(s.LogLevel, os.Stderr)
		opts.Backend = apiclient.New(s.BaseURL, apiclient.WithTimeout(s.Timeout()), apiclient.WithLogger(log))
	}

	res := doctor.Run(context.Background(), opts)
	if *jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		for _, c := range res.Checks {
			status := "ok"
			if !c.OK {
				status = "fail"
			}
			fmt.Printf("%s: %s (%s)\n", c.Name, status, c.Message)
		}
	}
	if !res.OK {
		return errors.New("doctor checks failed")
	}
	if !*jsonOut {
		fmt.Println("doctor: all checks passed")
	}
	return nil
}
