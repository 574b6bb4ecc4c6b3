package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"recruit-console/internal/actions"
	"recruit-console/internal/jsontree"
	"recruit-console/internal/logging"
)

const displayWidth = 60

func runJobs(args []string) error {
	if len(args) == 0 {
		printJobsUsage()
		return nil
	}
	switch args[0] {
	case "list":
		return runJobsList(args[1:])
	case "show":
		return runJobsShow(args[1:])
	case "help", "-h", "--help":
		printJobsUsage()
		return nil
	default:
		printJobsUsage()
		return fmt.Errorf("unknown jobs subcommand %q", args[0])
	}
}

func runJobsList(args []string) error {
	fs := flag.NewFlagSet("jobs list", flag.ContinueOnError)
	rf := addRuntimeFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, err := rf.load()
	if err != nil {
		return err
	}
	jobs, err := rt.client.ListJobs(context.Background())
	if err != nil {
		return err
	}
	if *rf.jsonOut {
		return printJSON(jobs)
	}
	if len(jobs) == 0 {
		fmt.Println("no jobs loaded yet")
		return nil
	}
	for _, j := range jobs {
		fmt.Printf("%-6d %s  %s\n", j.ID, actions.BadgeFor(j.Status).Render(""), j.Title)
	}
	return nil
}

func runJobsShow(args []string) error {
	fs := flag.NewFlagSet("jobs show", flag.ContinueOnError)
	jobID := fs.String("job", "", "job id")
	rf := addRuntimeFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*jobID) == "" {
		return errors.New("--job is required")
	}
	rt, err := rf.load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	job, err := rt.client.GetJob(ctx, strings.TrimSpace(*jobID))
	if err != nil {
		return err
	}
	apps, err := rt.client.ListApplications(ctx, strings.TrimSpace(*jobID))
	if err != nil {
		rt.log.WithError(err).Warn("could not load applications for job")
	}
	if *rf.jsonOut {
		return printJSON(map[string]any{
			"job":          job,
			"applications": apps,
		})
	}

	badge := actions.BadgeFor(job.Status)
	fmt.Printf("Job %d: %s\n", job.ID, job.Title)
	fmt.Printf("status: %s\n", badge.Render(""))
	if badge.ShowSummarize {
		fmt.Printf("hint: run `recruit-console summarize --job %d` to summarize this job\n", job.ID)
	}
	fmt.Println()
	fmt.Println("Summary")
	display := jsontree.NewDisplay("summary-display", displayWidth, rt.log)
	if !display.Apply(job.SummaryJSON) && !display.Failed() {
		fmt.Println("  (not summarized yet)")
	} else {
		fmt.Println(display.String())
	}

	if len(apps) > 0 {
		fmt.Println()
		fmt.Println("Applications")
		for _, a := range apps {
			fmt.Printf("  %-6d %-24s %-18s %s\n", a.ID, a.CandidateName, a.Status, formatScore(a.MatchScore))
		}
	}
	return nil
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *score)
}

func runCandidates(args []string) error {
	if len(args) == 0 {
		printCandidatesUsage()
		return nil
	}
	switch args[0] {
	case "list":
		return runCandidatesList(args[1:])
	case "show":
		return runCandidatesShow(args[1:])
	case "help", "-h", "--help":
		printCandidatesUsage()
		return nil
	default:
		printCandidatesUsage()
		return fmt.Errorf("unknown candidates subcommand %q", args[0])
	}
}

func runCandidatesList(args []string) error {
	fs := flag.NewFlagSet("candidates list", flag.ContinueOnError)
	rf := addRuntimeFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	rt, err := rf.load()
	if err != nil {
		return err
	}
	candidates, err := rt.client.ListCandidates(context.Background())
	if err != nil {
		return err
	}
	if *rf.jsonOut {
		return printJSON(candidates)
	}
	if len(candidates) == 0 {
		fmt.Println("no candidates uploaded yet")
		return nil
	}
	for _, c := range candidates {
		fmt.Printf("%-6d %-14s %-24s %s\n", c.ID, c.Status, defaultIfEmpty(c.Name, "(unparsed)"), c.Email)
	}
	return nil
}

func runCandidatesShow(args []string) error {
	fs := flag.NewFlagSet("candidates show", flag.ContinueOnError)
	id := fs.String("id", "", "candidate id")
	rf := addRuntimeFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return errors.New("--id is required")
	}
	rt, err := rf.load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	c, err := rt.client.GetCandidate(ctx, strings.TrimSpace(*id))
	if err != nil {
		return err
	}

	raw := c.ExtractedCVJSON
	pending := ""
	if raw == "" {
		res, err := rt.client.CandidateParsed(ctx, strings.TrimSpace(*id))
		if err != nil {
			return err
		}
		if res.OK && res.Status == 200 && len(res.Raw) > 0 {
			raw = string(res.Raw)
		} else {
			pending = defaultIfEmpty(res.Message(), "CV data not available yet.")
		}
	}
	if *rf.jsonOut {
		return printJSON(map[string]any{
			"candidate": c,
			"cv_data":   raw,
			"pending":   pending,
		})
	}

	fmt.Printf("Candidate %d: %s\n", c.ID, defaultIfEmpty(c.Name, "(unparsed)"))
	fmt.Println(kv("file id", defaultIfEmpty(c.FileCandidateID, "-")))
	fmt.Println(kv("email", defaultIfEmpty(c.Email, "-")))
	fmt.Println(kv("phone", defaultIfEmpty(c.Phone, "-")))
	fmt.Println(kv("status", c.Status))
	fmt.Println()
	fmt.Println("CV data")
	if pending != "" {
		fmt.Println("  " + pending)
		return nil
	}
	display := jsontree.NewDisplay("cv-data-display", displayWidth, rt.log)
	display.Apply(raw)
	fmt.Println(display.String())
	return nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	file := fs.String("file", "", "JSON file to render, or - for stdin")
	width := fs.Int("width", displayWidth, "separator width")
	jsonOut := fs.Bool("json", false, "print the render tree as JSON")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := strings.TrimSpace(*file)
	if path == "" {
		return errors.New("--file is required")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	display := jsontree.NewDisplay(path, *width, logging.Discard())
	ok := display.Apply(string(data))
	if *jsonOut {
		return printJSON(map[string]any{
			"parsed": ok,
			"nodes":  display.Nodes(),
			"notice": noticeIf(display.Failed()),
		})
	}
	if !ok && !display.Failed() {
		fmt.Println("(empty input)")
		return nil
	}
	fmt.Println(display.String())
	return nil
}

func noticeIf(failed bool) string {
	if failed {
		return jsontree.ParseNotice
	}
	return ""
}

func printJobsUsage() {
	fmt.Println("jobs commands:")
	fmt.Println("  jobs list")
	fmt.Println("  jobs show --job <id>")
}

func printCandidatesUsage() {
	fmt.Println("candidates commands:")
	fmt.Println("  candidates list")
	fmt.Println("  candidates show --id <id>")
}
