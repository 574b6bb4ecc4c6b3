package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"recruit-console/internal/settings"
)

func runSettings(args []string) error {
	if len(args) == 0 {
		printSettingsUsage()
		return nil
	}
	switch args[0] {
	case "show":
		return runSettingsShow(args[1:])
	case "set":
		return runSettingsSet(args[1:])
	case "help", "-h", "--help":
		printSettingsUsage()
		return nil
	default:
		printSettingsUsage()
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func runSettingsShow(args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	config := fs.String("config", settings.DefaultConfigPath, "console settings path")
	effective := fs.Bool("effective", false, "apply RECRUIT_* environment overrides")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	configPath := strings.TrimSpace(*config)
	var s settings.Settings
	var err error
	if *effective {
		s, err = settings.Load(configPath)
	} else {
		s, err = settings.Read(configPath)
	}
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"config_path": configPath,
			"effective":   *effective,
			"settings":    s,
		})
	}

	fmt.Printf("config: %s\n", configPath)
	printSettingsValues(s)
	return nil
}

func runSettingsSet(args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
	config := fs.String("config", settings.DefaultConfigPath, "console settings path")
	baseURL := fs.String("base-url", "", "backend base URL (empty keeps current)")
	timeout := fs.Int("timeout-seconds", -1, "request timeout in seconds (>=0, 0 uses transport default, -1 keeps current)")
	workers := fs.Int("upload-workers", -1, "max concurrent CV uploads (>=0, 0 means all at once, -1 keeps current)")
	logLevel := fs.String("log-level", "", "log level: debug|info|warn|error (empty keeps current)")
	stateDir := fs.String("state-dir", "", "directory for locks (empty keeps current)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	configPath := strings.TrimSpace(*config)
	s, err := settings.Read(configPath)
	if err != nil {
		return err
	}

	if v := strings.TrimSpace(*baseURL); v != "" {
		s.BaseURL = v
	}
	if *timeout != -1 {
		if *timeout < 0 {
			return errors.New("--timeout-seconds must be >= 0")
		}
		s.TimeoutSeconds = *timeout
	}
	if *workers != -1 {
		if *workers < 0 {
			return errors.New("--upload-workers must be >= 0")
		}
		s.UploadWorkers = *workers
	}
	if v := strings.TrimSpace(*logLevel); v != "" {
		s.LogLevel = v
	}
	if v := strings.TrimSpace(*stateDir); v != "" {
		s.StateDir = v
	}

	res, err := settings.Update(settings.UpdateOptions{
		ConfigPath: configPath,
		Settings:   s,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("updated settings in %s\n", res.ConfigPath)
	printSettingsValues(res.Settings)
	return nil
}

func printSettingsValues(s settings.Settings) {
	fmt.Printf("base_url: %s\n", s.BaseURL)
	fmt.Printf("timeout_seconds: %s\n", formatSecondsDefault(s.TimeoutSeconds))
	fmt.Printf("upload_workers: %s\n", formatWorkers(s.UploadWorkers))
	fmt.Printf("log_level: %s\n", s.LogLevel)
	fmt.Printf("state_dir: %s\n", s.StateDir)
}

func formatSecondsDefault(v int) string {
	if v <= 0 {
		return "0 (transport default)"
	}
	return fmt.Sprintf("%d", v)
}

func formatWorkers(v int) string {
	if v <= 0 {
		return "0 (unlimited)"
	}
	return fmt.Sprintf("%d", v)
}

func printSettingsUsage() {
	fmt.Println("settings commands:")
	fmt.Println("  settings show [--effective]")
	fmt.Println("  settings set [--base-url URL] [--timeout-seconds N] [--upload-workers N] [--log-level LEVEL] [--state-dir DIR]")
}
