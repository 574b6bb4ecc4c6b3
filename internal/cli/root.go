package cli

import (
	"fmt"

	"recruit-console/internal/actions"
)

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "load-jobs":
		return runLoadJobs(args[1:])
	case "upload-cvs":
		return runUploadCVs(args[1:])
	case "summarize":
		return runAction(actions.KindSummarize, args[1:])
	case "match-all":
		return runAction(actions.KindMatchAll, args[1:])
	case "shortlist":
		return runAction(actions.KindShortlist, args[1:])
	case "send-invites":
		return runAction(actions.KindSendInvites, args[1:])
	case "jobs":
		return runJobs(args[1:])
	case "candidates":
		return runCandidates(args[1:])
	case "render":
		return runRender(args[1:])
	case "settings":
		return runSettings(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "console":
		return runConsole(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("recruit-console: terminal client for the recruiting backend")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  recruit-console settings set --base-url http://localhost:8080")
	fmt.Println("  recruit-console load-jobs --file jobs.csv")
	fmt.Println("  recruit-console upload-cvs cvs/*.pdf")
	fmt.Println("  recruit-console console")
	fmt.Println()
	fmt.Println("Upload Commands:")
	fmt.Println("  load-jobs     upload a jobs CSV")
	fmt.Println("  upload-cvs    upload CV PDFs concurrently and report every outcome")
	fmt.Println()
	fmt.Println("Job Actions:")
	fmt.Println("  summarize     summarize a job description (--job ID)")
	fmt.Println("  match-all     match all candidates against a job (--job ID)")
	fmt.Println("  shortlist     shortlist matched candidates (--job ID --threshold 0-100)")
	fmt.Println("  send-invites  send interview invites for shortlisted candidates (--job ID)")
	fmt.Println()
	fmt.Println("Browse:")
	fmt.Println("  jobs          list/show jobs with their structured summary")
	fmt.Println("  candidates    list/show candidates with their parsed CV data")
	fmt.Println("  render        render a JSON document as a labelled tree")
	fmt.Println("  console       interactive job console")
	fmt.Println("  settings      show/update console settings")
	fmt.Println("  doctor        check settings, local directories and backend reachability")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - RECRUIT_* environment variables (and .env files) override saved settings")
}
