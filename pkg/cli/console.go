package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/memoir/pkg/model"
	"github.com/m-mizutani/memoir/pkg/usecase/memory"
	"github.com/urfave/cli/v3"
)

func consoleCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, embeddingFlags(&cfg)...)

	return &cli.Command{
		Name:  "console",
		Usage: "Interactive memory query session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.setup(ctx)
			if err != nil {
				return err
			}

			uc, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "memoir> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return goerr.Wrap(err, "failed to initialize console")
			}
			defer rl.Close()

			w := c.Root().Writer
			fmt.Fprintln(w, "memoir console. Type 'help' for commands, 'exit' to leave.")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				if err := runConsoleCommand(ctx, uc, w, line); err != nil {
					fmt.Fprintf(w, "error: %s\n", err)
				}
			}
		},
	}
}

func runConsoleCommand(ctx context.Context, uc *memory.UseCase, w io.Writer, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "help":
		fmt.Fprintln(w, "Commands:")
		fmt.Fprintln(w, "  search <query>   Search across text and image memories")
		fmt.Fprintln(w, "  synth <query>    Build a chronological synthesis")
		fmt.Fprintln(w, "  list             List recent memories")
		fmt.Fprintln(w, "  stats            Show memory counts")
		fmt.Fprintln(w, "  exit             Leave the console")
		return nil

	case "search":
		if arg == "" {
			return goerr.New("usage: search <query>")
		}
		result, err := uc.Search(ctx, memory.SearchInput{Query: arg})
		if err != nil {
			return err
		}
		printSearchResult(w, result)
		return nil

	case "synth":
		if arg == "" {
			return goerr.New("usage: synth <query>")
		}
		result, err := uc.Synthesize(ctx, memory.SynthesizeInput{Query: arg})
		if err != nil {
			return err
		}
		printSynthesis(w, result)
		return nil

	case "list":
		records, err := uc.ListRecent(ctx, 10, model.ModalityAll)
		if err != nil {
			return err
		}
		for i, rec := range records {
			fmt.Fprintf(w, "%d. [%s] %s: %s\n", i+1, rec.Modality, rec.ID, oneline(rec.Content, 80))
		}
		return nil

	case "stats":
		stats, err := uc.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "total: %d (text: %d, image: %d)\n", stats.Total, stats.TextCount, stats.ImageCount)
		return nil

	default:
		return goerr.New("unknown command", goerr.V("command", cmd))
	}
}
