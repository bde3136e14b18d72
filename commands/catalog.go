package commands

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"ptx/catalog"
	"ptx/state"
)

// ListAuthors prints every author of the corpus.
func ListAuthors(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	env.CorpusName = cmd.String("corpus")

	cat, err := openCatalog(env, env.Log.Named("catalog"))
	if err != nil {
		return err
	}
	defer cat.Close()

	authors, err := cat.Authors()
	if err != nil {
		return err
	}
	for _, author := range authors {
		fmt.Println(author)
	}
	return nil
}

// ListWorks prints the works of one author.
func ListWorks(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	env.CorpusName = cmd.String("corpus")

	authorID := cmd.Args().Get(0)
	if len(authorID) == 0 {
		return errors.New("no author has been specified")
	}

	cat, err := openCatalog(env, env.Log.Named("catalog"))
	if err != nil {
		return err
	}
	defer cat.Close()

	author, err := cat.AuthorInfo(authorID)
	if err != nil {
		return err
	}
	if author == nil {
		return fmt.Errorf("author not found: %s", authorID)
	}
	fmt.Println(author)

	works, err := cat.Works(authorID)
	if err != nil {
		return err
	}
	for _, work := range works {
		fmt.Println(work)
	}
	return nil
}

// Search prints works matching a query against author names and titles.
func Search(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	env.CorpusName = cmd.String("corpus")

	query := cmd.Args().Get(0)
	if len(query) == 0 {
		return errors.New("no search query has been specified")
	}

	cat, err := openCatalog(env, env.Log.Named("catalog"))
	if err != nil {
		return err
	}
	defer cat.Close()

	matches, err := cat.Search(query)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Printf("No works match %q\n", query)
		return nil
	}
	for _, m := range matches {
		fmt.Println(m.Author)
		fmt.Println(m.Work)
	}
	return nil
}

// Resolve prints the work ID and edition file a name resolves to.
func Resolve(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	env.CorpusName = cmd.String("corpus")
	log := env.Log.Named("catalog")

	name := cmd.Args().Get(0)
	if len(name) == 0 {
		return errors.New("no work name has been specified")
	}

	cat, err := openCatalog(env, log)
	if err != nil {
		return err
	}
	defer cat.Close()

	resolver := catalog.NewResolver(cat, env.Cfg.Catalog.UserAliases, env.Cfg.Catalog.ProjectAliases, log)
	workID, err := resolver.Resolve(name)
	if err != nil {
		return err
	}
	path, err := cat.ResolveWorkID(workID)
	if err != nil {
		return err
	}

	fmt.Printf("%s -> %s\n", name, workID)
	fmt.Printf("  File: %s\n", path)
	return nil
}
