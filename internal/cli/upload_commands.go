package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"recruit-console/internal/apiclient"
	"recruit-console/internal/model"
	"recruit-console/internal/runstore"
	"recruit-console/internal/upload"
)

const (
	lockLoadJobs  = "load-jobs"
	lockUploadCVs = "upload-cvs"
)

type loadJobsSummary struct {
	OK      bool   `json:"ok"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type uploadReportFile struct {
	GeneratedAt string            `json:"generated_at"`
	BaseURL     string            `json:"base_url"`
	Endpoint    string            `json:"endpoint"`
	Report      model.BatchReport `json:"report"`
}

func runLoadJobs(args []string) error {
	fs := flag.NewFlagSet("load-jobs", flag.ContinueOnError)
	file := fs.String("file", "", "jobs CSV file")
	rf := addRuntimeFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*file) == "" {
		return errors.New("--file is required")
	}

	rt, err := rf.load()
	if err != nil {
		return err
	}
	lock, err := runstore.AcquireLock(rt.settings.StateDir, lockLoadJobs)
	if err != nil {
		return err
	}
	defer lock.Release()

	res, err := rt.client.LoadJobsCSV(context.Background(), strings.TrimSpace(*file))
	if err != nil {
		var te *apiclient.TransportError
		if errors.As(err, &te) && !*rf.jsonOut {
			fmt.Println("Error: Network error or server not responding during job upload.")
		}
		return err
	}

	summary := loadJobsSummary{OK: res.OK, Status: res.Status, Message: res.Message()}
	if summary.Message == "" {
		if res.OK {
			summary.Message = "Upload successful!"
		} else {
			summary.Message = fmt.Sprintf("Status %d", res.Status)
		}
	}
	if n, ok := res.Number("count"); ok {
		summary.Count = int(n)
	}

	if *rf.jsonOut {
		if err := printJSON(summary); err != nil {
			return err
		}
	} else if res.OK {
		fmt.Printf("Success: %s\n", summary.Message)
		fmt.Printf("Successfully loaded %d jobs.\n", summary.Count)
	} else {
		fmt.Printf("Error: %s\n", summary.Message)
	}
	if !res.OK {
		return &apiclient.HTTPError{Status: res.Status, Message: summary.Message, URL: rt.client.BaseURL() + apiclient.PathLoadJobsCSV}
	}
	return nil
}

// textProgress prints the batch header before any request goes out.
type textProgress struct {
	quiet bool
}

func (p textProgress) Begin(total int) {
	if !p.quiet {
		fmt.Printf("Uploading %d file(s)...\n", total)
	}
}

func (p textProgress) End(model.BatchReport) {}

func runUploadCVs(args []string) error {
	fs := flag.NewFlagSet("upload-cvs", flag.ContinueOnError)
	reportPath := fs.String("report", "", "write the batch report as JSON to this path")
	rf := addRuntimeFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	files := fs.Args()
	if len(files) == 0 {
		return upload.ErrNoFiles
	}

	rt, err := rf.load()
	if err != nil {
		return err
	}
	lock, err := runstore.AcquireLock(rt.settings.StateDir, lockUploadCVs)
	if err != nil {
		return err
	}
	defer lock.Release()

	agg := upload.NewAggregator(rt.client, apiclient.PathUploadCV,
		upload.WithLimit(rt.settings.UploadWorkers),
		upload.WithLogger(rt.log),
		upload.WithSettled(func(i int, o model.UploadOutcome) {
			rt.log.WithFields(logrus.Fields{"file": o.FileName, "index": i, "status": o.HTTPStatus}).Debug("upload settled")
		}),
	)
	report, err := agg.UploadAll(context.Background(), files, textProgress{quiet: *rf.jsonOut})
	if err != nil {
		return err
	}

	if p := strings.TrimSpace(*reportPath); p != "" {
		out := uploadReportFile{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			BaseURL:     rt.client.BaseURL(),
			Endpoint:    apiclient.PathUploadCV,
			Report:      report,
		}
		if err := runstore.WriteJSON(p, out); err != nil {
			return fmt.Errorf("write upload report: %w", err)
		}
	}

	if *rf.jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		fmt.Println("Upload Complete")
		fmt.Printf("Success: %d, Errors: %d\n", report.SuccessCount, report.ErrorCount)
		for _, line := range report.Lines {
			fmt.Println("  " + line)
		}
	}
	if report.ErrorCount > 0 {
		return fmt.Errorf("%d of %d CV uploads failed", report.ErrorCount, len(files))
	}
	return nil
}
