package commands

import (
	"context"
	"fmt"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"ptx/health"
	"ptx/state"
)

// Health handles the health subcommand: corpus diagnostics.
func Health(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("health")
	env.CorpusName = cmd.String("corpus")

	corpus := env.Cfg.DefaultCorpus()
	if len(env.CorpusName) > 0 {
		if corpus = env.Cfg.Corpus(env.CorpusName); corpus == nil {
			return fmt.Errorf("corpus %q is not configured", env.CorpusName)
		}
	}
	if corpus == nil {
		return fmt.Errorf("no corpus has been configured")
	}

	opts := health.Options{
		SamplePercent: cmd.Float64("sample-percent"),
		SampleSize:    env.Cfg.Health.SampleSize,
	}
	if cmd.Bool("full") {
		opts.Mode = health.ModeFull
	}
	if cmd.IsSet("seed") {
		opts.Seed, opts.HasSeed = cmd.Int64("seed"), true
	}

	log.Info("Corpus check starting", zap.String("corpus", corpus.Name), zap.String("path", corpus.Path))
	defer func(start time.Time) {
		log.Info("Corpus check completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	res := health.Check(corpus.Name, corpus.Path, opts, log)
	printHealthResult(res)

	if res.Status == health.StatusError {
		return fmt.Errorf("corpus check failed: %s", res.Message)
	}
	return nil
}

func printHealthResult(res health.Result) {
	fmt.Printf("Corpus: %s (%s)\n", res.Name, res.Path)
	fmt.Printf("Status: %s - %s\n", res.Status, res.Message)
	fmt.Printf("Authors: %d, works: %d, edition files: %d, checked: %d\n",
		res.TotalAuthors, res.TotalWorks, res.TotalFiles, res.CheckedFiles)

	if len(res.MetadataIssues) > 0 {
		fmt.Println("Metadata issues:")
		for _, issue := range res.MetadataIssues {
			fmt.Printf("  %s\n", issue)
		}
	}
	if len(res.FailedFiles) > 0 {
		fmt.Println("Failed files:")
		for _, f := range res.FailedFiles {
			fmt.Printf("  %s/%s: %v (%s)\n", f.AuthorID, f.WorkID, f.Err, f.Path)
		}
	}
}
