package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"ptx/anthology"
	"ptx/catalog"
	"ptx/render"
	"ptx/state"
	"ptx/stephanus"
)

// Anthology handles the anthology subcommand: multiple works and ranges in,
// one document of headed excerpt blocks out.
func Anthology(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("anthology")

	if cmd.Args().Len() == 0 {
		return errors.New("no passages have been specified")
	}

	env.CorpusName, env.Overwrite = cmd.String("corpus"), cmd.Bool("overwrite")

	style, err := render.ParseStyle(styleOrDefault(cmd.String("style"), env.Cfg))
	if err != nil {
		return err
	}
	formatter, err := anthology.NewFormatter(style, layoutFromConfig(env.Cfg))
	if err != nil {
		return err
	}

	cat, err := openCatalog(env, log)
	if err != nil {
		return err
	}
	defer cat.Close()

	resolver := catalog.NewResolver(cat, env.Cfg.Catalog.UserAliases, env.Cfg.Catalog.ProjectAliases, log)
	passages, err := parsePassageArgs(cmd.Args().Slice(), resolver)
	if err != nil {
		return err
	}

	log.Info("Anthology extraction starting", zap.Int("passages", len(passages)), zap.Stringer("style", style))
	defer func(start time.Time) {
		log.Info("Anthology extraction completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	blocks, err := anthology.NewExtractor(cat, log).Extract(passages)
	if err != nil {
		return err
	}
	text, err := formatter.Format(blocks)
	if err != nil {
		return err
	}

	outFile := cmd.String("output")
	if len(outFile) == 0 {
		_, err = fmt.Println(text)
		return err
	}
	return writeResultFile(env, outFile, text, log)
}

// parsePassageArgs turns "WORK:RANGES" arguments into passage specs. The
// work part may be a name, alias or TLG ID; ranges are comma-separated.
func parsePassageArgs(args []string, resolver *catalog.Resolver) ([]anthology.PassageSpec, error) {
	passages := make([]anthology.PassageSpec, 0, len(args))
	for _, arg := range args {
		idx := strings.LastIndex(arg, ":")
		if idx <= 0 || idx == len(arg)-1 {
			return nil, fmt.Errorf("malformed passage %q, expected WORK:RANGES (e.g. republic:327a-328c)", arg)
		}
		workID, err := resolver.Resolve(arg[:idx])
		if err != nil {
			return nil, err
		}
		ranges, err := stephanus.ParseRangeList(arg[idx+1:])
		if err != nil {
			return nil, err
		}
		passages = append(passages, anthology.PassageSpec{WorkID: workID, Ranges: ranges})
	}
	return passages, nil
}
